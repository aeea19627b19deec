package shape

import "errors"

// ErrRankMismatch reports two shapes that were expected to share a rank
// and do not. No function in this package returns it.
var ErrRankMismatch = errors.New("rank mismatch")
