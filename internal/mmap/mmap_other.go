//go:build !unix

package mmap

import "os"

// Open reads the file at path into memory.
func Open(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Region{data: data}, nil
}
