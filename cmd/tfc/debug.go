package main

import (
	"os"

	"typeforge/internal/ast"
	"typeforge/internal/lexer"
	"typeforge/internal/parser"
)

func cmdTokens(source, filename string, jsonMode bool) {
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

// cmdParse always prints its result as JSON, the way the teacher's own
// parse command does — an AST has no useful plain-text rendering. The
// --json flag is accepted for symmetry with tokens but doesn't change
// behavior.
func cmdParse(source string, _ bool) {
	l := lexer.New(source, "<input>")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		printJSON(map[string]interface{}{"diagnostics": diagsToSlice(lexDiags)})
		os.Exit(1)
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		printJSON(map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	printJSON(map[string]interface{}{"ast": ast.NodeToMap(program)})
}
