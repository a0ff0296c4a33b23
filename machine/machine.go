// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine is a minimal RV32 register file and memory for the sdb
// monitor to inspect and step.
package machine

import (
	"encoding/binary"
	"errors"
	"io"
	"iter"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/sdb/expr"
	"github.com/ezrec/sdb/translate"
)

var f = translate.From

const (
	MEMORY_BASE = 0x8000_0000 // Default physical address of memory.
	MEMORY_SIZE = 0x0800_0000 // Default memory size, 128MiB.
	INSN_SIZE   = 4           // Bytes per instruction.
)

var (
	ErrImageSize = errors.New(f("image larger than memory"))
	ErrAccess    = errors.New(f("memory access out of range"))
)

// Register ABI names, by index.
var _register_names = [32]string{
	"$0", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

var _register_alias = map[string]int{
	"0":    0,
	"zero": 0,
	"fp":   8,
}

// Machine is the simulated CPU state: registers, pc, and memory.
type Machine struct {
	Verbose bool // If set, enables verbose logging.

	Pc     expr.Word     // Program counter.
	Gpr    [32]expr.Word // General purpose registers; x0 always reads 0.
	Base   expr.Word     // Address of Memory[0].
	Memory []byte        // Physical memory.

	Ticks int // Steps since reset.

	// Exec, if set, executes one instruction in place of the default
	// pc advance.
	Exec func(m *Machine) (done bool, err error)
}

// NewMachine creates a machine with size bytes of memory at base.
func NewMachine(base expr.Word, size int) (m *Machine) {
	m = &Machine{
		Base:   base,
		Memory: make([]byte, size),
	}
	m.Reset()
	return
}

// Reset clears the registers and puts pc at the memory base.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("machine: reset")
	}

	m.Pc = m.Base
	clear(m.Gpr[:])
	m.Ticks = 0
}

// Load copies a memory image to the memory base.
func (m *Machine) Load(r io.Reader) (n int, err error) {
	n, err = io.ReadFull(r, m.Memory)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	// Memory is full; anything left over does not fit.
	var extra [1]byte
	if k, _ := r.Read(extra[:]); k != 0 {
		err = ErrImageSize
	}

	return
}

func (m *Machine) offset(addr expr.Word, width int) (off int, ok bool) {
	if addr < m.Base {
		return
	}
	off = int(addr - m.Base)
	if off+width > len(m.Memory) {
		return
	}
	ok = true
	return
}

// Read returns a little-endian word of width 1, 2 or 4 bytes.
// Reads outside of memory return 0.
func (m *Machine) Read(addr expr.Word, width int) (value expr.Word) {
	off, ok := m.offset(addr, width)
	if !ok {
		if m.Verbose {
			log.Printf("machine: read %#x/%d out of range", addr, width)
		}
		return
	}

	mem := m.Memory[off : off+width]
	switch width {
	case 1:
		value = expr.Word(mem[0])
	case 2:
		value = expr.Word(binary.LittleEndian.Uint16(mem))
	case 4:
		value = expr.Word(binary.LittleEndian.Uint32(mem))
	default:
		panic(f("machine: read width %d", width))
	}

	return
}

// Write stores a little-endian word of width 1, 2 or 4 bytes.
func (m *Machine) Write(addr expr.Word, width int, value expr.Word) (err error) {
	off, ok := m.offset(addr, width)
	if !ok {
		err = ErrAccess
		return
	}

	mem := m.Memory[off : off+width]
	switch width {
	case 1:
		mem[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(mem, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(mem, uint32(value))
	default:
		panic(f("machine: write width %d", width))
	}

	return
}

// index returns the general register index of a name: an ABI name, an
// alias, or xN.
func index(name string) (n int, ok bool) {
	if n, ok = _register_alias[name]; ok {
		return
	}

	for n = range _register_names {
		if _register_names[n] == name {
			ok = true
			return
		}
	}

	if num, found := strings.CutPrefix(name, "x"); found {
		v, err := strconv.Atoi(num)
		if err == nil && v >= 0 && v < len(_register_names) && strconv.Itoa(v) == num {
			return v, true
		}
	}

	return 0, false
}

// Register returns the value of a register by name, without the $ sigil.
func (m *Machine) Register(name string) (value expr.Word, ok bool) {
	if name == "pc" {
		return m.Pc, true
	}

	n, ok := index(name)
	if !ok {
		return
	}

	if n != 0 {
		value = m.Gpr[n]
	}
	return
}

// SetRegister assigns a register by name. Writes to x0 are discarded.
func (m *Machine) SetRegister(name string, value expr.Word) (ok bool) {
	if name == "pc" {
		m.Pc = value
		return true
	}

	n, ok := index(name)
	if ok && n != 0 {
		m.Gpr[n] = value
	}
	return
}

// Registers iterates the ABI register names and values, then pc.
func (m *Machine) Registers() iter.Seq2[string, expr.Word] {
	return func(yield func(string, expr.Word) bool) {
		for n, name := range _register_names {
			value := m.Gpr[n]
			if n == 0 {
				value = 0
			}
			if !yield(name, value) {
				return
			}
		}
		yield("pc", m.Pc)
	}
}

// Step executes a single instruction. Without an Exec hook, an
// instruction only advances pc. Done is set once pc leaves memory.
func (m *Machine) Step() (done bool, err error) {
	if _, ok := m.offset(m.Pc, INSN_SIZE); !ok {
		done = true
		return
	}

	if m.Verbose {
		log.Printf("machine: %#08x: %#08x", m.Pc, m.Read(m.Pc, INSN_SIZE))
	}

	m.Ticks++

	if m.Exec != nil {
		done, err = m.Exec(m)
		if done || err != nil {
			return
		}
	} else {
		m.Pc += INSN_SIZE
	}

	m.Gpr[0] = 0

	return
}
