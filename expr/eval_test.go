package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testMachine is a map-backed register file and word memory.
type testMachine struct {
	reg   map[string]Word
	mem   map[Word]Word
	reads []Word
}

func newTestMachine() *testMachine {
	return &testMachine{
		reg: map[string]Word{"pc": 0x80000000, "sp": 0x100, "a0": 7, "zero": 0},
		mem: map[Word]Word{0x100: 42, 0x104: 0x1234, 0x10: 0x100},
	}
}

func (tm *testMachine) Register(name string) (value Word, ok bool) {
	value, ok = tm.reg[name]
	return
}

func (tm *testMachine) Read(addr Word, width int) Word {
	if width != DEREF_WIDTH {
		panic("bad width")
	}
	tm.reads = append(tm.reads, addr)
	return tm.mem[addr]
}

func TestEvaluatorExpr(t *testing.T) {
	assert := assert.New(t)

	ev := NewEvaluator(newTestMachine())

	table := map[string]Word{
		"1+2*3":              7,
		"(1+2)*3":            9,
		"0x10+1":             17,
		"*0x100":             42,
		"1==1":               1,
		"1!=1":               0,
		"10-4-3":             3,
		"100/10/5":           2,
		"2*3+4*5":            26,
		"8/2*4":              16,
		"((7))":              7,
		"(1+(2*(3+4)))":      15,
		"$a0 * 2":            14,
		"$sp":                0x100,
		"*$sp":               42,
		"*0x100 + 1":         43,
		"2 * *0x100":         84,
		"(*0x100)":           42,
		"*100":               42, // literal operands are always hex
		"*(0x100 + 4)":       0x1234,
		"**0x10":             42,
		"0 - 1":              0xffffffff,
		"0xffffffff + 2":     1,
		"0x10000 * 0x10000":  0,
		"7 / 2":              3,
		"3 && 4":             1,
		"3 && 0":             0,
		"1 + 1 == 2":         1,
		"2 == 1 + 1":         1,
		"*0x100 == 42":       1,
		"$pc != 0x80000000":  0,
		"(1 == 1) + 1":       2,
		"1 == 1 && 2":        1,
		"0 == 1 && 0":        1, // left-most comparison splits first
		"$zero":              0,
		"4294967295":         0xffffffff,
		" 1\t+ 2 ":           3,
		"1 - (2 - 3)":        2,
		"(1 + 2) * (3 + 4)":  21,
		"(2 * (3 + 4)) - 1":  13,
		"*(0x10) == 0x100":   1,
		"(((1)+(2))*((3)))":  9,
		"1 + *0x104 - 0x234": 0x1001,
	}

	for text, expected := range table {
		value, err := ev.Expr(text)
		if assert.NoError(err, text) {
			assert.Equal(expected, value, text)
		}
	}
}

func TestEvaluatorBothSides(t *testing.T) {
	assert := assert.New(t)

	tm := newTestMachine()
	ev := NewEvaluator(tm)

	value, err := ev.Expr("0 && *0x100")
	assert.NoError(err)
	assert.Equal(Word(0), value)
	assert.Equal([]Word{0x100}, tm.reads)

	tm.reads = nil
	value, err = ev.Expr("*0x104 == 1")
	assert.NoError(err)
	assert.Equal(Word(0), value)
	assert.Equal([]Word{0x104}, tm.reads)
}

func TestEvaluatorErrors(t *testing.T) {
	assert := assert.New(t)

	ev := NewEvaluator(newTestMachine())

	table := map[string]error{
		"":              ErrEmpty,
		"   ":           ErrEmpty,
		"()":            ErrEmpty,
		"1 + ()":        ErrEmpty,
		"(1 + 2":        ErrBracket,
		"1 + 2)":        ErrBracket,
		")(":            ErrBracket,
		"(1))":          ErrBracket,
		"1 +":           ErrOperand,
		"+ 1":           ErrOperand,
		"-1":            ErrOperand,
		"2 * -3":        ErrOperand,
		"1 ==":          ErrOperand,
		"== 1":          ErrOperand,
		"1 == == 1":     ErrOperand,
		"*":             ErrOperand,
		"1 2":           ErrOperator,
		"(1)(2)":        ErrOperator,
		"* 1 2":         ErrOperator,
		"$nope":         ErrRegister,
		"*$nope":        ErrRegister,
		"1 + $nope":     ErrRegister,
		"1 / 0":         ErrDivideByZero,
		"1 / (2 - 2)":   ErrDivideByZero,
		"1 / 0 == 1":    ErrDivideByZero,
		"1 == 1 / 0":    ErrDivideByZero,
		"*+":            ErrDeref,
		"*)":            ErrDeref,
		"4294967296":    ErrNumber,
		"0x100000000":   ErrNumber,
		"*0x100000000":  ErrNumber,
		"1 % 2":         ErrNoMatch,
		"1 + 2 = 3":     ErrNoMatch,
		"((1 + 2) == 3": ErrBracket,
	}

	for text, expected := range table {
		value, err := ev.Expr(text)
		assert.ErrorIs(err, expected, text)
		assert.Equal(Word(0), value, text)
	}
}

func TestEvaluatorErrorKinds(t *testing.T) {
	assert := assert.New(t)

	ev := NewEvaluator(newTestMachine())

	var lex *ErrLex
	_, err := ev.Expr("1 @ 2")
	assert.True(errors.As(err, &lex))

	var parse *ErrParse
	_, err = ev.Expr("(1")
	assert.True(errors.As(err, &parse))

	var eval *ErrEval
	_, err = ev.Expr("$bogus")
	if assert.True(errors.As(err, &eval)) {
		assert.Equal(Token{TOKEN_REGISTER, "bogus"}, eval.Token)
	}
}

func TestEvaluatorNoMachine(t *testing.T) {
	assert := assert.New(t)

	ev := &Evaluator{}

	value, err := ev.Expr("1 + 2")
	assert.NoError(err)
	assert.Equal(Word(3), value)

	_, err = ev.Expr("$pc")
	assert.ErrorIs(err, ErrRegister)

	_, err = ev.Expr("*0x100")
	assert.ErrorIs(err, ErrDeref)
}

type reentrantMachine struct {
	ev  *Evaluator
	err error
}

func (rm *reentrantMachine) Register(name string) (value Word, ok bool) {
	_, rm.err = rm.ev.Expr("1")
	return 5, true
}

func (rm *reentrantMachine) Read(addr Word, width int) Word {
	return 0
}

func TestEvaluatorReentrant(t *testing.T) {
	assert := assert.New(t)

	rm := &reentrantMachine{}
	ev := NewEvaluator(rm)
	rm.ev = ev

	value, err := ev.Expr("$x + 1")
	assert.NoError(err)
	assert.Equal(Word(6), value)
	assert.ErrorIs(rm.err, ErrReentrant)

	// The guard is released after the outer call.
	value, err = ev.Expr("2")
	assert.NoError(err)
	assert.Equal(Word(2), value)
}

func TestEvaluatorTokensReset(t *testing.T) {
	assert := assert.New(t)

	ev := NewEvaluator(newTestMachine())

	_, err := ev.Expr("1 + 2 + 3")
	assert.NoError(err)
	assert.Equal(5, len(ev.Tokens()))

	_, err = ev.Expr("*0x100")
	assert.NoError(err)
	assert.Equal([]Token{{TOKEN_DEREF, ""}, {TOKEN_HEX, "0x100"}}, ev.Tokens())

	_, err = ev.Expr("1 ?")
	assert.Error(err)
	assert.Equal(0, len(ev.Tokens()))
}

func TestEvaluatorTokensCopy(t *testing.T) {
	assert := assert.New(t)

	ev := NewEvaluator(newTestMachine())

	_, err := ev.Expr("1 + 2")
	assert.NoError(err)
	tokens := ev.Tokens()

	_, err = ev.Expr("$pc * 4")
	assert.NoError(err)
	assert.Equal([]Token{{TOKEN_DECIMAL, "1"}, {TOKEN_PLUS, ""}, {TOKEN_DECIMAL, "2"}}, tokens)

	tokens[0].Text = "9"
	assert.Equal("pc", ev.Tokens()[0].Text)
}

func TestEvaluatorInvertedRange(t *testing.T) {
	assert := assert.New(t)

	ev := NewEvaluator(newTestMachine())
	ev.tokens = []Token{{TOKEN_DECIMAL, "1"}}

	assert.Panics(func() {
		_, _ = ev.evalRange(1, 0)
	})
}
