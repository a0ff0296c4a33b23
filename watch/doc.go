// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package watch implements the watchpoint registry of the sdb monitor.
//
// A Pool is a fixed arena of watchpoint slots. Every slot is either free
// or active; allocation takes the most recently freed slot and puts it at
// the front of the active list. After every machine step, Check
// re-evaluates the active expressions and halts on the first one whose
// value changed.
package watch
