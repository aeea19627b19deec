package expr

import "errors"

var (
	// ErrInvalidPermutation is returned when a parsed expression's
	// left/right sides are not a bijection on their shared index set.
	ErrInvalidPermutation = errors.New("expr: invalid permutation")
	// ErrMalformedExpr covers everything else a parser rejects: missing
	// or duplicated "->", wrong operand count, non-alphabetic characters,
	// or an operand length disagreeing with the declared rank.
	ErrMalformedExpr = errors.New("expr: malformed expression")
)
