// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package monitor is the sdb command layer: it evaluates expressions,
// manages watchpoints, and steps a target until a watchpoint changes.
package monitor

import (
	"io"
	"iter"
	"log"

	"github.com/ezrec/sdb/expr"
	"github.com/ezrec/sdb/translate"
	"github.com/ezrec/sdb/watch"
)

// Target is the simulated machine under the monitor.
type Target interface {
	expr.Machine
	Step() (done bool, err error)
	Registers() iter.Seq2[string, expr.Word]
}

// Writer is implemented by targets whose memory can be modified.
type Writer interface {
	Write(addr expr.Word, width int, value expr.Word) error
}

// RegisterSetter is implemented by targets whose registers can be
// modified.
type RegisterSetter interface {
	SetRegister(name string, value expr.Word) bool
}

// Stop is the reason a Step returned.
type Stop int

//go:generate go tool stringer -type=Stop -trimprefix=STOP_
const (
	STOP_COUNT = Stop(iota) // Requested number of steps done.
	STOP_WATCH              // A watchpoint halted execution.
	STOP_END                // The target has finished.
)

// Monitor state.
type Monitor struct {
	Verbose bool      // If set, enables verbose logging.
	Output  io.Writer // Command output.

	Target Target          // Machine being debugged.
	Eval   *expr.Evaluator // Expression evaluator over Target.
	Watch  *watch.Pool     // Watchpoint registry.

	Hit  watch.Hit // Last watchpoint hit.
	Done bool      // Set once Target has finished.
}

// NewMonitor creates a monitor for target, writing output to w.
func NewMonitor(target Target, w io.Writer) (mon *Monitor) {
	mon = &Monitor{
		Output: w,
		Target: target,
		Eval:   expr.NewEvaluator(target),
		Watch:  watch.NewPool(watch.POOL_SIZE),
	}

	return
}

func (mon *Monitor) printf(format string, args ...any) {
	if mon.Output == nil {
		return
	}
	_, _ = translate.Fprintf(mon.Output, format, args...)
}

// verbose propagates the verbosity to the monitor components.
func (mon *Monitor) verbose() {
	mon.Eval.Verbose = mon.Verbose
	mon.Watch.Verbose = mon.Verbose
}

// Expr evaluates text against the target.
func (mon *Monitor) Expr(text string) (value expr.Word, err error) {
	mon.verbose()
	return mon.Eval.Expr(text)
}

// AddWatch registers a watchpoint on text, using its current value as
// the baseline. Expressions that do not evaluate are refused.
func (mon *Monitor) AddWatch(text string) (id int, err error) {
	value, err := mon.Expr(text)
	if err != nil {
		return
	}

	id, err = mon.Watch.Allocate(text)
	if err != nil {
		return
	}

	err = mon.Watch.Baseline(id, value)
	return
}

// DeleteWatch releases a watchpoint.
func (mon *Monitor) DeleteWatch(id int) (err error) {
	mon.verbose()
	return mon.Watch.Release(id)
}

// Step executes up to count instructions, or until the target is done
// when count is negative. After every instruction the watchpoints are
// checked, and a change stops execution.
func (mon *Monitor) Step(count int) (stop Stop, err error) {
	mon.verbose()

	for n := 0; count < 0 || n < count; n++ {
		if mon.Done {
			stop = STOP_END
			mon.printf("program has finished\n")
			return
		}

		var done bool
		done, err = mon.Target.Step()
		if err != nil {
			return
		}
		if done {
			mon.Done = true
			stop = STOP_END
			mon.printf("program has finished\n")
			return
		}

		var hit watch.Hit
		var halt bool
		hit, halt, err = mon.Watch.Check(mon.Eval)
		if err != nil {
			stop = STOP_WATCH
			return
		}
		if halt {
			mon.Hit = hit
			stop = STOP_WATCH
			mon.report(hit)
			return
		}
	}

	stop = STOP_COUNT
	return
}

// report prints a watchpoint hit.
func (mon *Monitor) report(hit watch.Hit) {
	if mon.Verbose {
		log.Printf("monitor: halt on watchpoint %d", hit.Id)
	}

	mon.printf("watchpoint %d: %v\n", hit.Id, hit.Expression)
	mon.printf("  old value = %#x\n", hit.Old)
	mon.printf("  new value = %#x\n", hit.New)
}
