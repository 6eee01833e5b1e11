package typeforge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSimpleVarDeclStripsAnnotation(t *testing.T) {
	result := Compile(`let x: number = 42;`, Options{})
	require.True(t, result.Success)
	require.Empty(t, result.Errors)
	assert.Contains(t, result.Output, "let x = 42;")
}

func TestCompileNotAssignableProducesDiagnostic(t *testing.T) {
	result := Compile(`let x: number = "hello";`, Options{})
	require.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Output)
}

func TestCompileSkipTypeCheckIgnoresTypeErrors(t *testing.T) {
	result := Compile(`let x: number = "hello";`, Options{SkipTypeCheck: true})
	require.True(t, result.Success)
	require.Empty(t, result.Errors)
	assert.Contains(t, result.Output, `let x = "hello";`)
}

func TestCompileSyntaxErrorFlattenedToLineOne(t *testing.T) {
	result := Compile(`let x: number = ;`, Options{})
	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Span.Start.Line)
	assert.NotEmpty(t, result.Errors[0].Message)
}

func TestCompileIncludeTokensAndAST(t *testing.T) {
	result := Compile(`let x = 1;`, Options{IncludeTokens: true, IncludeAST: true})
	require.True(t, result.Success)
	assert.NotEmpty(t, result.Tokens)
	assert.NotNil(t, result.AST)
}

func TestCompileArgCountMismatch(t *testing.T) {
	src := `
		function add(a: number, b: number): number { return a + b; }
		add(1);
	`
	result := Compile(src, Options{})
	require.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	found := false
	for _, d := range result.Errors {
		if strings.Contains(d.Message, "arguments, but got 1") {
			found = true
		}
	}
	assert.True(t, found, "expected an arity diagnostic, got %+v", result.Errors)
}

func TestCompileEnumLoweringEndToEnd(t *testing.T) {
	result := Compile(`enum Color { Red, Green, Blue }`, Options{})
	require.True(t, result.Success)
	assert.Contains(t, result.Output, "var Color;")
	assert.Contains(t, result.Output, `Color[Color["Green"] = 1] = "Green";`)
}

func TestFormatErrorsIncludesLineAndSourceExcerpt(t *testing.T) {
	result := Compile("let x: number = \"hello\";\n", Options{})
	require.False(t, result.Success)
	formatted := FormatErrors(result.Errors, "let x: number = \"hello\";\n")
	assert.Contains(t, formatted, "Error (line 1):")
	assert.Contains(t, formatted, "1 | let x: number = \"hello\";")
}

func TestFormatErrorsWithNoSourceOmitsExcerpt(t *testing.T) {
	result := Compile(`let x: number = "hello";`, Options{})
	formatted := FormatErrors(result.Errors, "")
	assert.Contains(t, formatted, "Error (line")
	assert.NotContains(t, formatted, " | ")
}

func TestFormatErrorsEmptyForNoDiagnostics(t *testing.T) {
	assert.Equal(t, "", FormatErrors(nil, "anything"))
}
