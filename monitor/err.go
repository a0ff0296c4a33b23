// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package monitor

import (
	"errors"

	"github.com/ezrec/sdb/translate"
)

var f = translate.From

var (
	ErrArgument = errors.New(f("argument invalid"))
	ErrReadOnly = errors.New(f("target is read-only"))
)

// ErrCommand names an unknown monitor command.
type ErrCommand string

func (err ErrCommand) Error() string {
	return f("unknown command '%v'", string(err))
}

// ErrUsage reports a command given the wrong arguments.
type ErrUsage struct {
	Command string
	Usage   string
}

func (err *ErrUsage) Error() string {
	return f("usage: %v %v", err.Command, err.Usage)
}

func (err *ErrUsage) Unwrap() error {
	return ErrArgument
}
