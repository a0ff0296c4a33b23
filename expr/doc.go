// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package expr implements the watch-expression language of the sdb monitor.
//
// Expressions are small C-like integer formulas over the simulated machine:
// decimal and hexadecimal literals, $register references, the binary
// operators + - * / == != &&, parentheses, and a unary * that reads a
// 32-bit word from memory. Text is split into tokens by a priority-ordered
// rule table, and token ranges are evaluated recursively by locating the
// operator that must be applied last.
//
// All arithmetic is unsigned 32-bit and wraps on overflow.
package expr
