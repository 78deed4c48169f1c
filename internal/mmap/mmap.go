// Package mmap provides read-only access to whole files, memory-mapped where
// the platform supports it.
package mmap

import "errors"

// ErrClosed is returned when a closed Region is closed again.
var ErrClosed = errors.New("mmap: region already closed")

// Region is the contents of a file. The slice returned by Bytes must not be
// modified and must not be used after Close.
type Region struct {
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// Bytes returns the file contents.
func (r *Region) Bytes() []byte {
	return r.data
}

// Len returns the size of the file in bytes.
func (r *Region) Len() int {
	return len(r.data)
}

// Mapped reports whether the contents are backed by a memory mapping
// rather than a heap copy.
func (r *Region) Mapped() bool {
	return r.unmap != nil
}

// Close releases the mapping.
func (r *Region) Close() error {
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	data := r.data
	r.data = nil
	if r.unmap == nil {
		return nil
	}
	return r.unmap(data)
}
