package codegen_test

import (
	"fmt"

	"github.com/coregx/lexgen/codegen"
)

// ExampleGuessTarget demonstrates picking a target from an output file name.
func ExampleGuessTarget() {
	for _, name := range []string{"lexer.c", "lexer.go", "lexer.js", "lexer.txt"} {
		target, ok := codegen.GuessTarget(name)
		fmt.Println(name, target, ok)
	}
	// Output:
	// lexer.c c true
	// lexer.go go true
	// lexer.js js true
	// lexer.txt c false
}
