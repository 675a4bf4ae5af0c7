package distribution

import "errors"

// ErrBrokenInvariant marks an internal ordering invariant that did not hold.
// It is never expected in practice and is reported instead of panicking.
var ErrBrokenInvariant = errors.New("distribution invariant broken")
