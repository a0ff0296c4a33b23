// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

import (
	"errors"
	"log"
	"slices"
	"strconv"
	"strings"
)

const (
	DEREF_WIDTH = 4 // Bytes read by the dereference operator.
)

// Registers looks up machine registers by name, without the $ sigil.
type Registers interface {
	Register(name string) (value Word, ok bool)
}

// Memory reads little-endian words of width bytes from machine memory.
type Memory interface {
	Read(addr Word, width int) Word
}

// Machine is the simulated state that expressions are evaluated over.
type Machine interface {
	Registers
	Memory
}

// Evaluator evaluates expressions over a Machine.
//
// An Evaluator owns its token buffer, which is reset by every call to
// Expr. It is not safe for concurrent or nested use; a nested call fails
// with ErrReentrant.
type Evaluator struct {
	Verbose bool    // If set, logs every evaluation.
	Rules   Rules   // Rule table; DefaultRules if nil.
	Machine Machine // Register and memory source.

	buf    [TOKEN_MAX]Token
	tokens []Token
	busy   bool
}

// NewEvaluator creates an evaluator over a machine.
func NewEvaluator(machine Machine) *Evaluator {
	return &Evaluator{
		Machine: machine,
	}
}

// Tokens returns a copy of the tokens of the most recent evaluation.
func (ev *Evaluator) Tokens() []Token {
	return slices.Clone(ev.tokens)
}

// Expr evaluates text. Comparisons and logical and evaluate to 1 or 0.
func (ev *Evaluator) Expr(text string) (value Word, err error) {
	if ev.busy {
		err = ErrReentrant
		return
	}
	ev.busy = true
	defer func() {
		ev.busy = false
		if err != nil {
			value = 0
		}
		if ev.Verbose {
			if err != nil {
				log.Printf("expr: %v: %v", text, err)
			} else {
				log.Printf("expr: %v = %#x", text, value)
			}
		}
	}()

	rules := ev.Rules
	if rules == nil {
		rules = DefaultRules
	}

	ev.tokens, err = rules.Tokenize(text, ev.buf[:0])
	if err != nil {
		ev.tokens = nil
		return
	}

	tokens := ev.tokens
	last := len(tokens) - 1
	if last < 0 {
		err = &ErrParse{Low: 0, High: last, Err: ErrEmpty}
		return
	}

	markDeref(tokens)

	split, err := compareSplit(tokens)
	if err != nil {
		return
	}

	if split < 0 {
		return ev.evalRange(0, last)
	}

	if split == 0 || split == last {
		err = &ErrParse{Low: 0, High: last, Err: ErrOperand}
		return
	}

	// Both sides are always evaluated.
	left, lerr := ev.evalRange(0, split-1)
	right, rerr := ev.evalRange(split+1, last)
	err = errors.Join(lerr, rerr)
	if err != nil {
		return
	}

	return apply(tokens[split], left, right)
}

// markDeref rewrites every multiplication that has no left operand into a
// dereference.
func markDeref(tokens []Token) {
	for i := range tokens {
		if tokens[i].Kind != TOKEN_MUL {
			continue
		}
		if i == 0 {
			tokens[i].Kind = TOKEN_DEREF
			continue
		}
		prev := tokens[i-1].Kind
		if prev.IsOperator() || prev == TOKEN_LPAREN {
			tokens[i].Kind = TOKEN_DEREF
		}
	}
}

// compareSplit returns the index of the left-most ==, != or && outside of
// brackets, or -1.
func compareSplit(tokens []Token) (split int, err error) {
	last := len(tokens) - 1
	for i := 0; i <= last; i++ {
		switch tokens[i].Kind {
		case TOKEN_LPAREN:
			q := closing(tokens, i, last)
			if q < 0 {
				err = &ErrParse{Low: i, High: last, Err: ErrBracket}
				return
			}
			i = q
		case TOKEN_EQ, TOKEN_NEQ, TOKEN_AND:
			split = i
			return
		}
	}

	split = -1
	return
}

// evalRange evaluates the closed token range lo..hi.
func (ev *Evaluator) evalRange(lo, hi int) (value Word, err error) {
	tokens := ev.tokens

	if lo > hi {
		panic(f("expr: eval range %d..%d inverted", lo, hi))
	}

	if lo == hi {
		return ev.evalToken(lo)
	}

	if Matched(tokens, lo, hi) {
		if lo+1 == hi {
			err = &ErrParse{Low: lo, High: hi, Err: ErrEmpty}
			return
		}
		return ev.evalRange(lo+1, hi-1)
	}

	if tokens[lo].Kind == TOKEN_DEREF && lo+1 == hi {
		var addr Word
		addr, err = ev.address(tokens[hi])
		if err != nil {
			return
		}
		return ev.read(tokens[lo], addr)
	}

	op, err := Locate(tokens, lo, hi)
	if errors.Is(err, ErrOperator) && tokens[lo].Kind == TOKEN_DEREF {
		var addr Word
		addr, err = ev.evalRange(lo+1, hi)
		if err != nil {
			return
		}
		return ev.read(tokens[lo], addr)
	}
	if err != nil {
		return
	}

	if op == lo || op == hi {
		err = &ErrParse{Low: lo, High: hi, Err: ErrOperand}
		return
	}

	left, err := ev.evalRange(lo, op-1)
	if err != nil {
		return
	}

	right, err := ev.evalRange(op+1, hi)
	if err != nil {
		return
	}

	return apply(tokens[op], left, right)
}

// evalToken evaluates a single literal or register token.
func (ev *Evaluator) evalToken(n int) (value Word, err error) {
	tok := ev.tokens[n]

	switch tok.Kind {
	case TOKEN_DECIMAL:
		return parseWord(tok, tok.Text, 10)
	case TOKEN_HEX:
		return parseWord(tok, tok.Text[2:], 16)
	case TOKEN_REGISTER:
		ok := false
		if ev.Machine != nil {
			value, ok = ev.Machine.Register(tok.Text)
		}
		if !ok {
			err = &ErrEval{Token: tok, Err: ErrRegister}
		}
		return
	}

	err = &ErrParse{Low: n, High: n, Err: ErrOperand}
	return
}

// address returns the address named by the single operand of a
// dereference. Literals are always read as hexadecimal.
func (ev *Evaluator) address(tok Token) (addr Word, err error) {
	switch tok.Kind {
	case TOKEN_DECIMAL, TOKEN_HEX:
		text := strings.TrimPrefix(strings.TrimPrefix(tok.Text, "0x"), "0X")
		return parseWord(tok, text, 16)
	case TOKEN_REGISTER:
		ok := false
		if ev.Machine != nil {
			addr, ok = ev.Machine.Register(tok.Text)
		}
		if !ok {
			err = &ErrEval{Token: tok, Err: ErrRegister}
		}
		return
	}

	err = &ErrEval{Token: tok, Err: ErrDeref}
	return
}

func (ev *Evaluator) read(tok Token, addr Word) (value Word, err error) {
	if ev.Machine == nil {
		err = &ErrEval{Token: tok, Err: ErrDeref}
		return
	}

	value = ev.Machine.Read(addr, DEREF_WIDTH)
	return
}

func parseWord(tok Token, text string, base int) (value Word, err error) {
	v64, err := strconv.ParseUint(text, base, 32)
	if err != nil {
		err = &ErrEval{Token: tok, Err: ErrNumber}
		return
	}

	value = Word(v64)
	return
}

func boolWord(b bool) Word {
	if b {
		return 1
	}
	return 0
}

// apply performs a binary operator on two words.
func apply(op Token, left, right Word) (value Word, err error) {
	switch op.Kind {
	case TOKEN_PLUS:
		value = left + right
	case TOKEN_MINUS:
		value = left - right
	case TOKEN_MUL:
		value = left * right
	case TOKEN_DIV:
		if right == 0 {
			err = &ErrEval{Token: op, Err: ErrDivideByZero}
			return
		}
		value = left / right
	case TOKEN_EQ:
		value = boolWord(left == right)
	case TOKEN_NEQ:
		value = boolWord(left != right)
	case TOKEN_AND:
		value = boolWord(left != 0 && right != 0)
	default:
		panic(f("expr: %v is not a binary operator", op.Kind))
	}

	return
}
