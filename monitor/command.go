// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package monitor

import (
	"strconv"
	"strings"

	"github.com/ezrec/sdb/expr"
)

// command is a single monitor command.
type command struct {
	name    string
	usage   string
	help    string
	handler func(mon *Monitor, args string) (quit bool, err error)
}

var _commands []command

func init() {
	_commands = []command{
		{"help", "[command]", "Display information about all supported commands", cmdHelp},
		{"c", "", "Continue the execution of the program", cmdContinue},
		{"q", "", "Exit the monitor", cmdQuit},
		{"si", "[N]", "Step N instructions, default 1", cmdStep},
		{"info", "r|w", "Print registers or watchpoints", cmdInfo},
		{"x", "N EXPR", "Dump N words of memory starting at EXPR", cmdExamine},
		{"p", "EXPR", "Evaluate an expression", cmdPrint},
		{"w", "EXPR", "Halt when the value of EXPR changes", cmdWatch},
		{"d", "N", "Delete watchpoint N", cmdDelete},
	}
}

func lookup(name string) (cmd *command, ok bool) {
	for n := range _commands {
		if _commands[n].name == name {
			return &_commands[n], true
		}
	}
	return
}

// Execute runs a single command line. Empty lines are ignored.
func (mon *Monitor) Execute(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	name, args, _ := strings.Cut(line, " ")
	cmd, ok := lookup(name)
	if !ok {
		err = ErrCommand(name)
		return
	}

	return cmd.handler(mon, strings.TrimSpace(args))
}

func (cmd *command) usageError() error {
	return &ErrUsage{Command: cmd.name, Usage: cmd.usage}
}

func cmdHelp(mon *Monitor, args string) (quit bool, err error) {
	if len(args) != 0 {
		cmd, ok := lookup(args)
		if !ok {
			err = ErrCommand(args)
			return
		}
		mon.printf("%v %v - %v\n", cmd.name, cmd.usage, cmd.help)
		return
	}

	for _, cmd := range _commands {
		mon.printf("%v %v - %v\n", cmd.name, cmd.usage, cmd.help)
	}
	return
}

func cmdContinue(mon *Monitor, args string) (quit bool, err error) {
	_, err = mon.Step(-1)
	return
}

func cmdQuit(mon *Monitor, args string) (quit bool, err error) {
	quit = true
	return
}

func cmdStep(mon *Monitor, args string) (quit bool, err error) {
	count := 1
	if len(args) != 0 {
		count, err = strconv.Atoi(args)
		if err != nil || count < 1 {
			cmd, _ := lookup("si")
			err = cmd.usageError()
			return
		}
	}

	_, err = mon.Step(count)
	return
}

func cmdInfo(mon *Monitor, args string) (quit bool, err error) {
	switch args {
	case "r":
		for name, value := range mon.Target.Registers() {
			mon.printf("%-4v 0x%08x\n", name, value)
		}
	case "w":
		mon.printf("Num  Value       Left  What\n")
		for id, expression := range mon.Watch.List() {
			wp, _ := mon.Watch.Get(id)
			mon.printf("%-4v 0x%08x  %-5v %v\n", id, wp.Last, wp.Budget, expression)
		}
	default:
		cmd, _ := lookup("info")
		err = cmd.usageError()
	}
	return
}

func cmdExamine(mon *Monitor, args string) (quit bool, err error) {
	cmd, _ := lookup("x")

	num, text, ok := strings.Cut(args, " ")
	if !ok {
		err = cmd.usageError()
		return
	}

	count, err := strconv.Atoi(num)
	if err != nil || count < 1 {
		err = cmd.usageError()
		return
	}

	addr, err := mon.Expr(text)
	if err != nil {
		return
	}

	for n := range count {
		if n%4 == 0 {
			if n != 0 {
				mon.printf("\n")
			}
			mon.printf("0x%08x:", addr)
		}
		mon.printf(" 0x%08x", mon.Target.Read(addr, expr.DEREF_WIDTH))
		addr += expr.DEREF_WIDTH
	}
	mon.printf("\n")

	return
}

func cmdPrint(mon *Monitor, args string) (quit bool, err error) {
	if len(args) == 0 {
		cmd, _ := lookup("p")
		err = cmd.usageError()
		return
	}

	value, err := mon.Expr(args)
	if err != nil {
		return
	}

	mon.printf("%#x\n", value)
	return
}

func cmdWatch(mon *Monitor, args string) (quit bool, err error) {
	if len(args) == 0 {
		cmd, _ := lookup("w")
		err = cmd.usageError()
		return
	}

	id, err := mon.AddWatch(args)
	if err != nil {
		return
	}

	mon.printf("watchpoint %d: %v\n", id, args)
	return
}

func cmdDelete(mon *Monitor, args string) (quit bool, err error) {
	id, err := strconv.Atoi(args)
	if err != nil {
		cmd, _ := lookup("d")
		err = cmd.usageError()
		return
	}

	err = mon.DeleteWatch(id)
	if err != nil {
		return
	}

	mon.printf("deleted watchpoint %d\n", id)
	return
}
