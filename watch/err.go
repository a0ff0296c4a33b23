// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package watch

import (
	"errors"

	"github.com/ezrec/sdb/translate"
)

var f = translate.From

var (
	ErrPoolExhausted = errors.New(f("no free watchpoint"))
	ErrNotFound      = errors.New(f("watchpoint not found"))
)

// ErrInactive names the watchpoint that was not active.
type ErrInactive int

func (err ErrInactive) Error() string {
	return f("watchpoint %d not active", int(err))
}

func (err ErrInactive) Unwrap() error {
	return ErrNotFound
}

// ErrCheck reports a watched expression that failed to evaluate.
type ErrCheck struct {
	Id         int
	Expression string
	Err        error
}

func (err *ErrCheck) Error() string {
	return f("watchpoint %d '%v' %v", err.Id, err.Expression, err.Err)
}

func (err *ErrCheck) Unwrap() error {
	return err.Err
}
