// Package testutil centralizes the test-support helpers this module's test
// files share. The teacher inlines an assert(cond, fmt, args...) closure at
// the top of every _test.go (see chd_test.go/db_test.go's newAsserter(t)
// call) rather than exporting one; we centralize it here since several
// packages (fks, fksdb, cmd/fksgen) now need the identical helper.
package testutil

import "testing"

// Assert returns a closure matching the teacher's per-test assert idiom:
// assert(cond, fmt, args...) fails the test immediately when cond is false.
func Assert(t *testing.T) func(cond bool, f string, args ...interface{}) {
	t.Helper()
	return func(cond bool, f string, args ...interface{}) {
		if !cond {
			t.Helper()
			t.Fatalf(f, args...)
		}
	}
}
