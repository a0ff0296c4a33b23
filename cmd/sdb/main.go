// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/ezrec/sdb/expr"
	"github.com/ezrec/sdb/machine"
	"github.com/ezrec/sdb/monitor"
	"github.com/ezrec/sdb/translate"
)

const (
	PROMPT       = "(sdb) "
	HISTORY_FILE = ".sdb_history"
)

var f = translate.From

// diagnostics go to stderr in red; watchpoint hits are highlighted.
var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow)
)

func main() {
	var image string
	var script string
	var evaluate string
	var base uint
	var size uint
	var batch bool
	var verbose bool

	flag.StringVar(&image, "m", "", "memory image to load")
	flag.StringVar(&script, "i", "", "Starlark init script")
	flag.StringVar(&evaluate, "e", "", "evaluate an expression and exit")
	flag.UintVar(&base, "base", machine.MEMORY_BASE, "memory base address")
	flag.UintVar(&size, "size", machine.MEMORY_SIZE, "memory size in bytes")
	flag.BoolVar(&batch, "b", false, "Batch mode: run to completion, do not prompt")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if uint64(base) > 0xffff_ffff || size == 0 || uint64(base)+uint64(size) > 0x1_0000_0000 {
		log.Fatalf("%v: memory %#x+%#x does not fit in 32 bits", os.Args[0], base, size)
	}

	m := machine.NewMachine(expr.Word(base), int(size))
	m.Verbose = verbose

	if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		_, err = m.Load(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	mon := monitor.NewMonitor(m, &hitWriter{w: os.Stdout})
	mon.Verbose = verbose

	if len(script) != 0 {
		err := mon.RunScript(script, nil)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	}

	if len(evaluate) != 0 {
		value, err := mon.Expr(evaluate)
		if err != nil {
			log.Fatalf("%v: %v", evaluate, err)
		}
		translate.Fprintf(os.Stdout, "%#x\n", value)
		return
	}

	if batch {
		_, err := mon.Execute("c")
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	repl(mon)
}

// repl reads monitor commands until EOF or q.
func repl(mon *monitor.Monitor) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	ln.SetCompleter(func(line string) (c []string) {
		for _, name := range []string{"help", "c", "q", "si", "info r", "info w", "x", "p", "w", "d"} {
			if strings.HasPrefix(name, line) {
				c = append(c, name)
			}
		}
		return
	})

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, HISTORY_FILE)
	if inf, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(inf)
		inf.Close()
	}

	defer func() {
		if ouf, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(ouf)
			ouf.Close()
		}
	}()

	for {
		line, err := ln.Prompt(PROMPT)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		if err != nil {
			log.Print(err)
			return
		}

		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		ln.AppendHistory(line)

		quit, err := mon.Execute(line)
		if err != nil {
			os.Stderr.WriteString(red(f("error: %v", err)) + "\n")
			continue
		}
		if quit {
			return
		}
	}
}

// hitWriter highlights watchpoint reports in the monitor output.
type hitWriter struct {
	w io.Writer
}

func (hw *hitWriter) Write(p []byte) (n int, err error) {
	if strings.HasPrefix(string(p), "watchpoint ") || strings.HasPrefix(string(p), "  ") {
		_, err = yellow.Fprint(hw.w, string(p))
		n = len(p)
		return
	}
	return hw.w.Write(p)
}
