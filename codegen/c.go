package codegen

import (
	_ "embed"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/coregx/lexgen/dfa/bytedfa"
)

//go:embed templates/lex.c.tmpl
var cTemplateText string

var cTemplate = template.Must(template.New("lex.c").Parse(cTemplateText))

type cData struct {
	Prefix    string
	Tokens    []string
	TableType string
	States    int
	Rows      []string
	Answers   string
}

func generateC(w io.Writer, lx Lexer, opts Options) error {
	prefix := opts.Prefix
	if prefix != "" {
		prefix += "_"
	}

	b := lx.Bytes()
	data := cData{
		Prefix:    prefix,
		Tokens:    lx.Names(),
		TableType: cTableType(b.States()),
		States:    b.States(),
		Rows:      make([]string, b.States()),
	}

	answers := make([]string, b.States())
	for i := range data.Rows {
		s := b.State(bytedfa.StateID(i))
		data.Rows[i] = tableRow(s.Table())
		tag, ok := s.Tag()
		if !ok {
			tag = -1
		}
		answers[i] = strconv.Itoa(tag)
	}
	data.Answers = strings.Join(answers, ", ")

	return cTemplate.Execute(w, data)
}

// cTableType returns the narrowest signed C type holding every state ID.
func cTableType(states int) string {
	switch {
	case states <= 127:
		return "signed char"
	case states <= 32767:
		return "short"
	default:
		return "long"
	}
}

func tableRow(next *[256]bytedfa.StateID) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, id := range next {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	sb.WriteString(" }")
	return sb.String()
}
