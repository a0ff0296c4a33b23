// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

const (
	TOKEN_MAX      = 64 // Maximum tokens in one expression.
	TOKEN_TEXT_MAX = 31 // Maximum bytes of token text.
)

// Word is the machine word that expressions evaluate to.
type Word uint32

// Kind is the lexical class of a token.
type Kind int

//go:generate go tool stringer -type=Kind -trimprefix=TOKEN_
const (
	TOKEN_NONE     = Kind(iota) // Whitespace; never emitted.
	TOKEN_DECIMAL               // Decimal literal.
	TOKEN_HEX                   // Hexadecimal literal, with 0x prefix.
	TOKEN_REGISTER              // Register name, without the $ sigil.
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_MUL
	TOKEN_DIV
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_DEREF // Unary memory read, rewritten from TOKEN_MUL.
	TOKEN_EQ
	TOKEN_NEQ
	TOKEN_AND
)

// Token is a single lexical element of an expression.
type Token struct {
	Kind Kind
	Text string // Literal or register text; empty for operators.
}

// IsOperator returns true for the binary and unary operator kinds.
func (k Kind) IsOperator() bool {
	switch k {
	case TOKEN_PLUS, TOKEN_MINUS, TOKEN_MUL, TOKEN_DIV,
		TOKEN_DEREF, TOKEN_EQ, TOKEN_NEQ, TOKEN_AND:
		return true
	}
	return false
}

// precedence returns the binding class of a binary operator, lowest
// first, and false for anything that is not a binary operator.
func (k Kind) precedence() (class int, ok bool) {
	switch k {
	case TOKEN_AND:
		return 0, true
	case TOKEN_EQ, TOKEN_NEQ:
		return 1, true
	case TOKEN_PLUS, TOKEN_MINUS:
		return 2, true
	case TOKEN_MUL, TOKEN_DIV:
		return 3, true
	}
	return
}

// String returns the token text, or the operator symbol.
func (tok Token) String() string {
	if len(tok.Text) != 0 {
		if tok.Kind == TOKEN_REGISTER {
			return "$" + tok.Text
		}
		return tok.Text
	}
	if sym, ok := _symbol[tok.Kind]; ok {
		return sym
	}
	return tok.Kind.String()
}

var _symbol = map[Kind]string{
	TOKEN_PLUS:   "+",
	TOKEN_MINUS:  "-",
	TOKEN_MUL:    "*",
	TOKEN_DIV:    "/",
	TOKEN_LPAREN: "(",
	TOKEN_RPAREN: ")",
	TOKEN_DEREF:  "*",
	TOKEN_EQ:     "==",
	TOKEN_NEQ:    "!=",
	TOKEN_AND:    "&&",
}
