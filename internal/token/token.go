// Package token defines the token kinds produced by the lexer.
package token

import (
	"fmt"
	"typeforge/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT            // identifiers: x, foo, myVar
	NUMBER           // numeric literals: 123, 0x1F, 3.14, 1n
	STRING           // string literals: "hello", 'hello'
	TEMPLATE_LITERAL // `no interpolation`
	TEMPLATE_HEAD    // `text${
	TEMPLATE_MIDDLE  // }text${
	TEMPLATE_TAIL    // }text`

	// Assignment
	ASSIGN               // =
	PLUS_ASSIGN          // +=
	MINUS_ASSIGN         // -=
	STAR_ASSIGN          // *=
	SLASH_ASSIGN         // /=
	PERCENT_ASSIGN       // %=
	STAR_STAR_ASSIGN     // **=
	SHL_ASSIGN           // <<=
	SHR_ASSIGN           // >>=
	USHR_ASSIGN          // >>>=
	AMP_ASSIGN           // &=
	PIPE_ASSIGN          // |=
	CARET_ASSIGN         // ^=
	AMP_AMP_ASSIGN       // &&=
	PIPE_PIPE_ASSIGN     // ||=
	QUESTION_QUESTION_ASSIGN // ??=

	// Arithmetic
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	STAR_STAR // **

	// Bitwise
	AMP   // &
	PIPE  // |
	CARET // ^
	TILDE // ~
	SHL   // <<
	SHR   // >>
	USHR  // >>>

	// Logical
	BANG              // !
	AMP_AMP           // &&
	PIPE_PIPE         // ||
	QUESTION_QUESTION // ??

	// Comparison
	EQ         // ==
	NEQ        // !=
	EQ_STRICT  // ===
	NEQ_STRICT // !==
	LT         // <
	LTE        // <=
	GT         // >
	GTE        // >=

	// Update
	PLUS_PLUS   // ++
	MINUS_MINUS // --

	// Misc operators
	QUESTION     // ?
	QUESTION_DOT // ?.
	ARROW        // =>
	DOT_DOT_DOT  // ...
	AT           // @

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	COLON     // :

	// Keywords (scripting core)
	KW_VAR
	KW_LET
	KW_CONST
	KW_FUNCTION
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_WHILE
	KW_FOR
	KW_DO
	KW_BREAK
	KW_CONTINUE
	KW_SWITCH
	KW_CASE
	KW_DEFAULT
	KW_TRUE
	KW_FALSE
	KW_NULL
	KW_UNDEFINED
	KW_THIS
	KW_SUPER
	KW_NEW
	KW_CLASS
	KW_EXTENDS
	KW_IMPLEMENTS
	KW_TRY
	KW_CATCH
	KW_FINALLY
	KW_THROW
	KW_TYPEOF
	KW_INSTANCEOF
	KW_IN
	KW_OF
	KW_DELETE
	KW_AWAIT
	KW_ASYNC
	KW_YIELD
	KW_IMPORT
	KW_EXPORT
	KW_STATIC
	KW_GET
	KW_SET

	// Type-system keywords
	KW_INTERFACE
	KW_TYPE
	KW_ENUM
	KW_NAMESPACE
	KW_DECLARE
	KW_READONLY
	KW_ABSTRACT
	KW_KEYOF
	KW_INFER
	KW_AS
	KW_FROM
	KW_PUBLIC
	KW_PRIVATE
	KW_PROTECTED

	// Primitive type names (also cover the 'void' statement keyword)
	KW_NUMBER_TYPE
	KW_STRING_TYPE
	KW_BOOLEAN_TYPE
	KW_VOID_TYPE
	KW_ANY_TYPE
	KW_UNKNOWN_TYPE
	KW_NEVER_TYPE
	KW_OBJECT_TYPE
	KW_SYMBOL_TYPE
	KW_BIGINT_TYPE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:            "IDENT",
	NUMBER:           "NUMBER",
	STRING:           "STRING",
	TEMPLATE_LITERAL: "TEMPLATE_LITERAL",
	TEMPLATE_HEAD:    "TEMPLATE_HEAD",
	TEMPLATE_MIDDLE:  "TEMPLATE_MIDDLE",
	TEMPLATE_TAIL:    "TEMPLATE_TAIL",

	ASSIGN:                   "=",
	PLUS_ASSIGN:              "+=",
	MINUS_ASSIGN:             "-=",
	STAR_ASSIGN:              "*=",
	SLASH_ASSIGN:             "/=",
	PERCENT_ASSIGN:           "%=",
	STAR_STAR_ASSIGN:         "**=",
	SHL_ASSIGN:               "<<=",
	SHR_ASSIGN:               ">>=",
	USHR_ASSIGN:              ">>>=",
	AMP_ASSIGN:               "&=",
	PIPE_ASSIGN:              "|=",
	CARET_ASSIGN:             "^=",
	AMP_AMP_ASSIGN:           "&&=",
	PIPE_PIPE_ASSIGN:         "||=",
	QUESTION_QUESTION_ASSIGN: "??=",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	STAR_STAR: "**",

	AMP:   "&",
	PIPE:  "|",
	CARET: "^",
	TILDE: "~",
	SHL:   "<<",
	SHR:   ">>",
	USHR:  ">>>",

	BANG:              "!",
	AMP_AMP:           "&&",
	PIPE_PIPE:         "||",
	QUESTION_QUESTION: "??",

	EQ:         "==",
	NEQ:        "!=",
	EQ_STRICT:  "===",
	NEQ_STRICT: "!==",
	LT:         "<",
	LTE:        "<=",
	GT:         ">",
	GTE:        ">=",

	PLUS_PLUS:   "++",
	MINUS_MINUS: "--",

	QUESTION:     "?",
	QUESTION_DOT: "?.",
	ARROW:        "=>",
	DOT_DOT_DOT:  "...",
	AT:           "@",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",

	KW_VAR:        "var",
	KW_LET:        "let",
	KW_CONST:      "const",
	KW_FUNCTION:   "function",
	KW_RETURN:     "return",
	KW_IF:         "if",
	KW_ELSE:       "else",
	KW_WHILE:      "while",
	KW_FOR:        "for",
	KW_DO:         "do",
	KW_BREAK:      "break",
	KW_CONTINUE:   "continue",
	KW_SWITCH:     "switch",
	KW_CASE:       "case",
	KW_DEFAULT:    "default",
	KW_TRUE:       "true",
	KW_FALSE:      "false",
	KW_NULL:       "null",
	KW_UNDEFINED:  "undefined",
	KW_THIS:       "this",
	KW_SUPER:      "super",
	KW_NEW:        "new",
	KW_CLASS:      "class",
	KW_EXTENDS:    "extends",
	KW_IMPLEMENTS: "implements",
	KW_TRY:        "try",
	KW_CATCH:      "catch",
	KW_FINALLY:    "finally",
	KW_THROW:      "throw",
	KW_TYPEOF:     "typeof",
	KW_INSTANCEOF: "instanceof",
	KW_IN:         "in",
	KW_OF:         "of",
	KW_DELETE:     "delete",
	KW_AWAIT:      "await",
	KW_ASYNC:      "async",
	KW_YIELD:      "yield",
	KW_IMPORT:     "import",
	KW_EXPORT:     "export",
	KW_STATIC:     "static",
	KW_GET:        "get",
	KW_SET:        "set",

	KW_INTERFACE: "interface",
	KW_TYPE:      "type",
	KW_ENUM:      "enum",
	KW_NAMESPACE: "namespace",
	KW_DECLARE:   "declare",
	KW_READONLY:  "readonly",
	KW_ABSTRACT:  "abstract",
	KW_KEYOF:     "keyof",
	KW_INFER:     "infer",
	KW_AS:        "as",
	KW_FROM:      "from",
	KW_PUBLIC:    "public",
	KW_PRIVATE:   "private",
	KW_PROTECTED: "protected",

	KW_NUMBER_TYPE:  "number",
	KW_STRING_TYPE:  "string",
	KW_BOOLEAN_TYPE: "boolean",
	KW_VOID_TYPE:    "void",
	KW_ANY_TYPE:     "any",
	KW_UNKNOWN_TYPE: "unknown",
	KW_NEVER_TYPE:   "never",
	KW_OBJECT_TYPE:  "object",
	KW_SYMBOL_TYPE:  "symbol",
	KW_BIGINT_TYPE:  "bigint",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether kind was produced by looking up a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KW_VAR && k <= KW_BIGINT_TYPE
}

var keywords = map[string]Kind{
	"var": KW_VAR, "let": KW_LET, "const": KW_CONST,
	"function": KW_FUNCTION, "return": KW_RETURN,
	"if": KW_IF, "else": KW_ELSE, "while": KW_WHILE, "for": KW_FOR, "do": KW_DO,
	"break": KW_BREAK, "continue": KW_CONTINUE,
	"switch": KW_SWITCH, "case": KW_CASE, "default": KW_DEFAULT,
	"true": KW_TRUE, "false": KW_FALSE, "null": KW_NULL, "undefined": KW_UNDEFINED,
	"this": KW_THIS, "super": KW_SUPER, "new": KW_NEW,
	"class": KW_CLASS, "extends": KW_EXTENDS, "implements": KW_IMPLEMENTS,
	"try": KW_TRY, "catch": KW_CATCH, "finally": KW_FINALLY, "throw": KW_THROW,
	"typeof": KW_TYPEOF, "instanceof": KW_INSTANCEOF, "in": KW_IN, "of": KW_OF,
	"delete": KW_DELETE, "void": KW_VOID_TYPE,
	"await": KW_AWAIT, "async": KW_ASYNC, "yield": KW_YIELD,
	"import": KW_IMPORT, "export": KW_EXPORT, "static": KW_STATIC,
	"get": KW_GET, "set": KW_SET,

	"interface": KW_INTERFACE, "type": KW_TYPE, "enum": KW_ENUM,
	"namespace": KW_NAMESPACE, "declare": KW_DECLARE, "readonly": KW_READONLY,
	"abstract": KW_ABSTRACT, "keyof": KW_KEYOF, "infer": KW_INFER,
	"as": KW_AS, "from": KW_FROM,
	"public": KW_PUBLIC, "private": KW_PRIVATE, "protected": KW_PROTECTED,

	"number": KW_NUMBER_TYPE, "string": KW_STRING_TYPE, "boolean": KW_BOOLEAN_TYPE,
	"any": KW_ANY_TYPE, "unknown": KW_UNKNOWN_TYPE, "never": KW_NEVER_TYPE,
	"object": KW_OBJECT_TYPE, "symbol": KW_SYMBOL_TYPE, "bigint": KW_BIGINT_TYPE,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, original text, and span.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
