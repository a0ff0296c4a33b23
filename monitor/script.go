// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package monitor

import (
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sdb/expr"
)

// RunScript executes a Starlark monitor script. src is as for
// starlark.ExecFile: nil reads filename, or a string, []byte or
// io.Reader. The script may call:
//
//	expr(text)              evaluate an expression
//	watch(text)             add a watchpoint, returning its id
//	unwatch(id)             delete a watchpoint
//	step(n=1)               step, returning "COUNT", "WATCH" or "END"
//	reg(name)               read a register
//	setreg(name, value)     write a register
//	peek(addr, width=4)     read memory
//	poke(addr, value, width=4)  write memory
//	command(line)           run a monitor command, returning True on quit
func (mon *Monitor) RunScript(filename string, src any) (err error) {
	thread := &starlark.Thread{
		Name: "sdb",
		Print: func(_ *starlark.Thread, msg string) {
			mon.printf("%v\n", msg)
		},
	}

	predeclared := starlark.StringDict{}
	for name, fn := range map[string]func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error){
		"expr":    mon.starExpr,
		"watch":   mon.starWatch,
		"unwatch": mon.starUnwatch,
		"step":    mon.starStep,
		"reg":     mon.starReg,
		"setreg":  mon.starSetReg,
		"peek":    mon.starPeek,
		"poke":    mon.starPoke,
		"command": mon.starCommand,
	} {
		predeclared[name] = starlark.NewBuiltin(name, fn)
	}

	if mon.Verbose {
		log.Printf("monitor: script %v", filename)
	}

	opts := syntax.FileOptions{}
	_, err = starlark.ExecFileOptions(&opts, thread, filename, src, predeclared)
	return
}

// word unpacks a 32-bit machine word from a Starlark int.
func word(fn *starlark.Builtin, v uint64) (w expr.Word, err error) {
	if v > 0xffff_ffff {
		err = &ErrUsage{Command: fn.Name(), Usage: f("%#x is not a 32-bit word", v)}
		return
	}
	w = expr.Word(v)
	return
}

func (mon *Monitor) starExpr(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}

	value, err := mon.Expr(text)
	if err != nil {
		return nil, err
	}

	return starlark.MakeUint64(uint64(value)), nil
}

func (mon *Monitor) starWatch(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}

	id, err := mon.AddWatch(text)
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(id), nil
}

func (mon *Monitor) starUnwatch(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var id int
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "id", &id); err != nil {
		return nil, err
	}

	if err := mon.DeleteWatch(id); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func (mon *Monitor) starStep(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	count := 1
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "n?", &count); err != nil {
		return nil, err
	}

	stop, err := mon.Step(count)
	if err != nil {
		return nil, err
	}

	return starlark.String(stop.String()), nil
}

func (mon *Monitor) starReg(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}

	value, ok := mon.Target.Register(name)
	if !ok {
		return nil, &expr.ErrEval{Token: expr.Token{Kind: expr.TOKEN_REGISTER, Text: name}, Err: expr.ErrRegister}
	}

	return starlark.MakeUint64(uint64(value)), nil
}

func (mon *Monitor) starSetReg(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var v uint64
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "value", &v); err != nil {
		return nil, err
	}

	value, err := word(fn, v)
	if err != nil {
		return nil, err
	}

	setter, ok := mon.Target.(RegisterSetter)
	if !ok {
		return nil, ErrReadOnly
	}

	if !setter.SetRegister(name, value) {
		return nil, &expr.ErrEval{Token: expr.Token{Kind: expr.TOKEN_REGISTER, Text: name}, Err: expr.ErrRegister}
	}

	return starlark.None, nil
}

func (mon *Monitor) starPeek(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a uint64
	width := expr.DEREF_WIDTH
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &a, "width?", &width); err != nil {
		return nil, err
	}

	addr, err := word(fn, a)
	if err != nil {
		return nil, err
	}

	if width != 1 && width != 2 && width != 4 {
		return nil, &ErrUsage{Command: fn.Name(), Usage: f("width %d is not 1, 2 or 4", width)}
	}

	return starlark.MakeUint64(uint64(mon.Target.Read(addr, width))), nil
}

func (mon *Monitor) starPoke(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a, v uint64
	width := expr.DEREF_WIDTH
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &a, "value", &v, "width?", &width); err != nil {
		return nil, err
	}

	addr, err := word(fn, a)
	if err != nil {
		return nil, err
	}

	value, err := word(fn, v)
	if err != nil {
		return nil, err
	}

	if width != 1 && width != 2 && width != 4 {
		return nil, &ErrUsage{Command: fn.Name(), Usage: f("width %d is not 1, 2 or 4", width)}
	}

	writer, ok := mon.Target.(Writer)
	if !ok {
		return nil, ErrReadOnly
	}

	if err := writer.Write(addr, width, value); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func (mon *Monitor) starCommand(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var line string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "line", &line); err != nil {
		return nil, err
	}

	quit, err := mon.Execute(line)
	if err != nil {
		return nil, err
	}

	return starlark.Bool(quit), nil
}
