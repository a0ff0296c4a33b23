// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

import (
	"regexp"
)

// Rule maps a lexical pattern to the token kind it produces.
type Rule struct {
	Pattern string
	Kind    Kind

	re *regexp.Regexp
}

// Rules is a priority-ordered rule table. The first rule that matches at
// the scan offset wins.
type Rules []Rule

// DefaultRules is the expression rule table, compiled once at start.
// Hex must be tried before decimal, or "0x10" lexes as "0" "x10".
var DefaultRules = MustCompile(Rules{
	{Pattern: `[ \t]+`, Kind: TOKEN_NONE},
	{Pattern: `\+`, Kind: TOKEN_PLUS},
	{Pattern: `-`, Kind: TOKEN_MINUS},
	{Pattern: `\*`, Kind: TOKEN_MUL},
	{Pattern: `/`, Kind: TOKEN_DIV},
	{Pattern: `\(`, Kind: TOKEN_LPAREN},
	{Pattern: `\)`, Kind: TOKEN_RPAREN},
	{Pattern: `0[xX][0-9a-fA-F]+`, Kind: TOKEN_HEX},
	{Pattern: `[0-9]+`, Kind: TOKEN_DECIMAL},
	{Pattern: `\$[a-z0-9]+`, Kind: TOKEN_REGISTER},
	{Pattern: `==`, Kind: TOKEN_EQ},
	{Pattern: `&&`, Kind: TOKEN_AND},
	{Pattern: `!=`, Kind: TOKEN_NEQ},
})

// Compile anchors and compiles every rule pattern.
func (rs Rules) Compile() (compiled Rules, err error) {
	compiled = make(Rules, len(rs))
	for n, rule := range rs {
		rule.re, err = regexp.Compile(`^(?:` + rule.Pattern + `)`)
		if err != nil {
			compiled = nil
			return
		}
		compiled[n] = rule
	}

	return
}

// MustCompile is Compile for static tables; it panics on a bad pattern.
func MustCompile(rs Rules) Rules {
	compiled, err := rs.Compile()
	if err != nil {
		panic(f("rule compilation failed: %v", err))
	}
	return compiled
}

// match returns the first rule matching at the start of text, and the
// length of the match.
func (rs Rules) match(text string) (rule *Rule, size int) {
	for n := range rs {
		loc := rs[n].re.FindStringIndex(text)
		if loc != nil && loc[0] == 0 && loc[1] > 0 {
			return &rs[n], loc[1]
		}
	}
	return
}

// Tokenize splits text into tokens, appending them to buf[:0].
func (rs Rules) Tokenize(text string, buf []Token) (tokens []Token, err error) {
	tokens = buf[:0]

	for offset := 0; offset < len(text); {
		rule, size := rs.match(text[offset:])
		if rule == nil {
			err = &ErrLex{Offset: offset, Text: text, Err: ErrNoMatch}
			return
		}

		word := text[offset : offset+size]
		tok := Token{Kind: rule.Kind}

		switch rule.Kind {
		case TOKEN_NONE:
			offset += size
			continue
		case TOKEN_DECIMAL, TOKEN_HEX:
			tok.Text = word
		case TOKEN_REGISTER:
			tok.Text = word[1:]
		}

		if len(tok.Text) > TOKEN_TEXT_MAX {
			err = &ErrLex{Offset: offset, Text: text, Err: ErrTokenLong}
			return
		}

		if len(tokens) == TOKEN_MAX {
			err = &ErrLex{Offset: offset, Text: text, Err: ErrTokenCount}
			return
		}

		tokens = append(tokens, tok)
		offset += size
	}

	return
}

// Tokenize splits text into tokens using DefaultRules.
func Tokenize(text string) (tokens []Token, err error) {
	return DefaultRules.Tokenize(text, make([]Token, 0, TOKEN_MAX))
}
