package machine

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sdb/expr"
)

func TestMachineRegisters(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(MEMORY_BASE, 0x1000)
	assert.Equal(expr.Word(MEMORY_BASE), m.Pc)

	assert.True(m.SetRegister("a0", 7))
	assert.True(m.SetRegister("x11", 8))
	assert.True(m.SetRegister("fp", 9))
	assert.True(m.SetRegister("zero", 10))
	assert.False(m.SetRegister("a8", 1))

	table := map[string]expr.Word{
		"a0":   7,
		"x10":  7,
		"a1":   8,
		"s0":   9,
		"x8":   9,
		"fp":   9,
		"0":    0,
		"zero": 0,
		"x0":   0,
		"pc":   MEMORY_BASE,
	}
	for name, expected := range table {
		value, ok := m.Register(name)
		assert.True(ok, name)
		assert.Equal(expected, value, name)
	}

	for _, name := range []string{"x32", "x01", "x-1", "r0", "", "PC"} {
		_, ok := m.Register(name)
		assert.False(ok, name)
	}

	names := []string{}
	for name, value := range m.Registers() {
		names = append(names, name)
		if name == "a0" {
			assert.Equal(expr.Word(7), value)
		}
	}
	assert.Equal(33, len(names))
	assert.Equal("$0", names[0])
	assert.Equal("pc", names[32])
}

func TestMachineMemory(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(0x100, 0x10)

	assert.NoError(m.Write(0x100, 4, 0x12345678))
	assert.Equal(expr.Word(0x12345678), m.Read(0x100, 4))
	assert.Equal(expr.Word(0x5678), m.Read(0x100, 2))
	assert.Equal(expr.Word(0x56), m.Read(0x101, 1))
	assert.Equal([]byte{0x78, 0x56, 0x34, 0x12}, m.Memory[:4])

	assert.NoError(m.Write(0x10c, 4, 0xcafe))
	assert.Equal(expr.Word(0xcafe), m.Read(0x10c, 4))

	// No fault model: out of range reads are zero.
	assert.Equal(expr.Word(0), m.Read(0x0fc, 4))
	assert.Equal(expr.Word(0), m.Read(0x10d, 4))
	assert.Equal(expr.Word(0), m.Read(0xffffffff, 4))

	assert.ErrorIs(m.Write(0x10d, 4, 1), ErrAccess)
	assert.ErrorIs(m.Write(0xff, 1, 1), ErrAccess)

	assert.Panics(func() { m.Read(0x100, 3) })
}

func TestMachineLoad(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(MEMORY_BASE, 8)

	n, err := m.Load(bytes.NewReader([]byte{1, 0, 0, 0, 2}))
	assert.NoError(err)
	assert.Equal(5, n)
	assert.Equal(expr.Word(1), m.Read(MEMORY_BASE, 4))
	assert.Equal(expr.Word(2), m.Read(MEMORY_BASE+4, 4))

	n, err = m.Load(bytes.NewReader(nil))
	assert.NoError(err)
	assert.Equal(0, n)

	n, err = m.Load(bytes.NewReader(make([]byte, 8)))
	assert.NoError(err)
	assert.Equal(8, n)

	_, err = m.Load(bytes.NewReader(make([]byte, 9)))
	assert.ErrorIs(err, ErrImageSize)
}

func TestMachineStep(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(MEMORY_BASE, 3*INSN_SIZE)

	for range 3 {
		done, err := m.Step()
		assert.NoError(err)
		assert.False(done)
	}
	assert.Equal(expr.Word(MEMORY_BASE+3*INSN_SIZE), m.Pc)
	assert.Equal(3, m.Ticks)

	done, err := m.Step()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(3, m.Ticks)

	m.Reset()
	assert.Equal(expr.Word(MEMORY_BASE), m.Pc)
	assert.Equal(0, m.Ticks)
}

func TestMachineExec(t *testing.T) {
	assert := assert.New(t)

	errHalt := errors.New("halt")

	m := NewMachine(MEMORY_BASE, 0x100)
	m.Exec = func(m *Machine) (done bool, err error) {
		m.Gpr[0] = 99
		m.Gpr[10]++
		if m.Gpr[10] == 3 {
			err = errHalt
			return
		}
		m.Pc += 8
		return
	}

	for range 2 {
		done, err := m.Step()
		assert.NoError(err)
		assert.False(done)
	}
	value, _ := m.Register("zero")
	assert.Equal(expr.Word(0), value)
	assert.Equal(expr.Word(MEMORY_BASE+16), m.Pc)

	_, err := m.Step()
	assert.ErrorIs(err, errHalt)
}
