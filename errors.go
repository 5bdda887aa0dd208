package fks

import "errors"

// ErrUnableToFindHashFunction is the resolver's single failure kind (spec
// §7/C7): returned when the L1 trial budget is exhausted across every load
// factor down to minLoadFactor, or when the L2 trial budget is exhausted for
// some bucket.
var ErrUnableToFindHashFunction = errors.New("fks: unable to find hash function")
