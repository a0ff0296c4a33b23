package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzExpr(f *testing.F) {
	for _, seed := range []string{
		"1+2*3", "(1+2)*3", "0x10+1", "*0x100", "1==1", "1!=1",
		"", "()", "(((", ")))", "**", "*(*0x10)", "1 == == 2",
		"$pc && $sp", "-1", "1/0", "0x", "$",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, text string) {
		assert := assert.New(t)

		ev := NewEvaluator(newTestMachine())

		assert.NotPanics(func() {
			value, err := ev.Expr(text)
			if err != nil {
				assert.Equal(Word(0), value)
			}
		}, text)

		// The same text always gives the same answer.
		v1, e1 := ev.Expr(text)
		v2, e2 := ev.Expr(text)
		assert.Equal(v1, v2)
		assert.Equal(e1 == nil, e2 == nil)
	})
}
