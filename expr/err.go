// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

import (
	"errors"

	"github.com/ezrec/sdb/translate"
)

var f = translate.From

var (
	// Lexer errors
	ErrNoMatch    = errors.New(f("no rule matches"))
	ErrTokenLong  = errors.New(f("token too long"))
	ErrTokenCount = errors.New(f("too many tokens"))

	// Parse errors
	ErrEmpty    = errors.New(f("empty expression"))
	ErrBracket  = errors.New(f("unbalanced brackets"))
	ErrOperand  = errors.New(f("operand missing"))
	ErrOperator = errors.New(f("operator missing"))

	// Evaluation errors
	ErrRegister     = errors.New(f("register unknown"))
	ErrDivideByZero = errors.New(f("division by zero"))
	ErrDeref        = errors.New(f("dereference operand invalid"))
	ErrNumber       = errors.New(f("number out of range"))
	ErrReentrant    = errors.New(f("evaluator busy"))
)

// ErrLex reports the text offset where tokenizing stopped.
type ErrLex struct {
	Offset int
	Text   string
	Err    error
}

func (err *ErrLex) Error() string {
	return f("offset %d '%v' %v", err.Offset, err.Text, err.Err)
}

func (err *ErrLex) Unwrap() error {
	return err.Err
}

// ErrParse reports a malformed token range.
type ErrParse struct {
	Low  int
	High int
	Err  error
}

func (err *ErrParse) Error() string {
	return f("tokens %d..%d %v", err.Low, err.High, err.Err)
}

func (err *ErrParse) Unwrap() error {
	return err.Err
}

// ErrEval reports the token that could not be evaluated.
type ErrEval struct {
	Token Token
	Err   error
}

func (err *ErrEval) Error() string {
	return f("'%v' %v", err.Token, err.Err)
}

func (err *ErrEval) Unwrap() error {
	return err.Err
}
