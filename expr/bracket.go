// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

// Matched returns true if tokens[p] opens a bracket whose matching close
// is exactly tokens[q].
func Matched(tokens []Token, p, q int) bool {
	if p < 0 || q >= len(tokens) || p >= q {
		return false
	}

	if tokens[p].Kind != TOKEN_LPAREN || tokens[q].Kind != TOKEN_RPAREN {
		return false
	}

	depth := 0
	for i := p; i <= q; i++ {
		switch tokens[i].Kind {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
			if depth == 0 {
				return i == q
			}
		}
	}

	return false
}

// closing returns the index of the bracket matching the open bracket at
// tokens[p], searching no further than hi. Returns -1 if there is none.
func closing(tokens []Token, p, hi int) int {
	for q := p + 1; q <= hi; q++ {
		if Matched(tokens, p, q) {
			return q
		}
	}
	return -1
}

// Locate returns the index of the root operator of tokens[lo:hi+1]: the
// right-most operator of the lowest precedence class outside of any
// bracketed span. Evaluating left and right of the root, recursively,
// gives left-associative evaluation.
func Locate(tokens []Token, lo, hi int) (op int, err error) {
	op = -1
	best := 0

	for i := lo; i <= hi; i++ {
		switch tokens[i].Kind {
		case TOKEN_LPAREN:
			q := closing(tokens, i, hi)
			if q < 0 {
				return -1, &ErrParse{Low: i, High: hi, Err: ErrBracket}
			}
			i = q
			continue
		case TOKEN_RPAREN:
			return -1, &ErrParse{Low: lo, High: i, Err: ErrBracket}
		}

		class, ok := tokens[i].Kind.precedence()
		if !ok {
			continue
		}

		if op < 0 || class <= best {
			op = i
			best = class
		}
	}

	if op < 0 {
		err = &ErrParse{Low: lo, High: hi, Err: ErrOperator}
	}

	return
}
