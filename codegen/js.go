package codegen

import (
	_ "embed"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/coregx/lexgen/dfa"
)

//go:embed templates/lex.js.tmpl
var jsTemplateText string

var jsTemplate = template.Must(template.New("lex.js").Parse(jsTemplateText))

type jsData struct {
	Prefix string
	Rows   []string
}

func generateJS(w io.Writer, lx Lexer, opts Options) error {
	d := lx.DFA()
	names := lx.Names()
	data := jsData{
		Prefix: opts.Prefix,
		Rows:   make([]string, d.States()),
	}
	for i := range data.Rows {
		data.Rows[i] = jsRow(d.State(dfa.StateID(i)), names)
	}
	return jsTemplate.Execute(w, data)
}

// jsRow renders one state as an object literal keyed by scalar, with the
// accepted rule name under "answer".
func jsRow(s *dfa.State, names []string) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, t := range s.Transitions() {
		sb.WriteString(jsString(string(t.Rune)))
		sb.WriteString(": ")
		sb.WriteString(strconv.FormatUint(uint64(t.Next), 10))
		sb.WriteString(", ")
	}
	if tag, ok := s.Tag(); ok {
		name := strconv.Itoa(tag)
		if tag < len(names) {
			name = names[tag]
		}
		sb.WriteString("answer: ")
		sb.WriteString(jsString(name))
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

// jsString quotes s as a JSON string, which is also a valid JavaScript
// string literal.
func jsString(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		panic(err)
	}
	return string(out)
}
