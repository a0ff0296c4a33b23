// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package watch

import (
	"iter"
	"log"

	"github.com/ezrec/sdb/expr"
)

const (
	POOL_SIZE   = 32 // Number of watchpoint slots.
	FIRE_BUDGET = 1  // Default number of times a watchpoint may halt.
)

// Evaluator evaluates watched expressions against the current machine.
type Evaluator interface {
	Expr(text string) (value expr.Word, err error)
}

// Watchpoint is a single slot of the pool.
type Watchpoint struct {
	Id         int       // Slot index, fixed at pool creation.
	Expression string    // Watched expression text.
	Last       expr.Word // Last observed value.
	Budget     int       // Remaining number of halts.
	InUse      bool      // Set while on the active list.
}

// reset returns the mutable fields to their defaults.
func (wp *Watchpoint) reset() {
	wp.Expression = ""
	wp.Last = 0
	wp.Budget = FIRE_BUDGET
	wp.InUse = false
}

// Hit describes the watchpoint that halted a Check pass.
type Hit struct {
	Id         int
	Expression string
	Old        expr.Word
	New        expr.Word
}

// Pool is a fixed-capacity arena of watchpoints, partitioned into a free
// stack and an active list.
type Pool struct {
	Verbose bool // If set, logs pool actions.

	slot []Watchpoint
	free []int // Free slot stack; the top is allocated next.
	head int   // Most recently allocated active slot, or -1.
	next []int // Active list links, or -1.
	prev []int
}

// NewPool creates a pool of size slots, all free. A negative size
// creates an empty pool.
func NewPool(size int) (pool *Pool) {
	size = max(size, 0)

	pool = &Pool{
		slot: make([]Watchpoint, size),
		free: make([]int, 0, size),
		head: -1,
		next: make([]int, size),
		prev: make([]int, size),
	}

	// Slot 0 is on top of the free stack.
	for id := size - 1; id >= 0; id-- {
		pool.slot[id].Id = id
		pool.slot[id].reset()
		pool.next[id] = -1
		pool.prev[id] = -1
		pool.free = append(pool.free, id)
	}

	return
}

// Cap returns the number of slots in the pool.
func (pool *Pool) Cap() int {
	return len(pool.slot)
}

// Len returns the number of active watchpoints.
func (pool *Pool) Len() int {
	return len(pool.slot) - len(pool.free)
}

// Allocate activates a free slot for expression, and returns its id.
func (pool *Pool) Allocate(expression string) (id int, err error) {
	if len(pool.free) == 0 {
		err = ErrPoolExhausted
		return
	}

	id = pool.free[len(pool.free)-1]
	pool.free = pool.free[:len(pool.free)-1]

	pool.prev[id] = -1
	pool.next[id] = pool.head
	if pool.head >= 0 {
		pool.prev[pool.head] = id
	}
	pool.head = id

	wp := &pool.slot[id]
	wp.Expression = expression
	wp.Budget = FIRE_BUDGET
	wp.InUse = true

	if pool.Verbose {
		log.Printf("watch: allocate %d '%v'", id, expression)
	}

	return
}

// Release returns an active watchpoint to the free stack.
func (pool *Pool) Release(id int) (err error) {
	if !pool.active(id) {
		err = ErrInactive(id)
		return
	}

	next, prev := pool.next[id], pool.prev[id]
	if prev >= 0 {
		pool.next[prev] = next
	} else {
		pool.head = next
	}
	if next >= 0 {
		pool.prev[next] = prev
	}
	pool.next[id] = -1
	pool.prev[id] = -1

	pool.slot[id].reset()
	pool.free = append(pool.free, id)

	if pool.Verbose {
		log.Printf("watch: release %d", id)
	}

	return
}

func (pool *Pool) active(id int) bool {
	return id >= 0 && id < len(pool.slot) && pool.slot[id].InUse
}

// Get returns a copy of an active watchpoint.
func (pool *Pool) Get(id int) (wp Watchpoint, ok bool) {
	if !pool.active(id) {
		return
	}
	return pool.slot[id], true
}

// Baseline sets the last observed value of an active watchpoint.
func (pool *Pool) Baseline(id int, value expr.Word) (err error) {
	if !pool.active(id) {
		err = ErrInactive(id)
		return
	}

	pool.slot[id].Last = value
	return
}

// Arm sets the remaining number of halts of an active watchpoint.
func (pool *Pool) Arm(id int, budget int) (err error) {
	if !pool.active(id) {
		err = ErrInactive(id)
		return
	}

	pool.slot[id].Budget = max(budget, 0)
	return
}

// List iterates the active watchpoint ids and expressions, most recently
// allocated first.
func (pool *Pool) List() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for id := pool.head; id >= 0; id = pool.next[id] {
			if !yield(id, pool.slot[id].Expression) {
				return
			}
		}
	}
}

// Free iterates the free slot ids, next to be allocated first.
func (pool *Pool) Free() iter.Seq[int] {
	return func(yield func(int) bool) {
		for n := len(pool.free) - 1; n >= 0; n-- {
			if !yield(pool.free[n]) {
				return
			}
		}
	}
}

// Check re-evaluates every active watchpoint in list order. The first one
// whose value differs from its last value, and that still has budget,
// spends one halt, takes the new value as its last value, and is returned
// with halt set. A watched expression that fails to evaluate also halts
// the pass, with an *ErrCheck.
func (pool *Pool) Check(ev Evaluator) (hit Hit, halt bool, err error) {
	for id := pool.head; id >= 0; id = pool.next[id] {
		wp := &pool.slot[id]

		var value expr.Word
		value, err = ev.Expr(wp.Expression)
		if err != nil {
			err = &ErrCheck{Id: id, Expression: wp.Expression, Err: err}
			halt = true
			return
		}

		if value == wp.Last || wp.Budget == 0 {
			continue
		}

		wp.Budget--
		hit = Hit{
			Id:         id,
			Expression: wp.Expression,
			Old:        wp.Last,
			New:        value,
		}
		wp.Last = value
		halt = true

		if pool.Verbose {
			log.Printf("watch: %d '%v' %#x -> %#x", id, wp.Expression, hit.Old, hit.New)
		}

		return
	}

	return
}
