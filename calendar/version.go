package calendar

import "math"

// Optimistic concurrency is a stateless pair of pure checks; the
// version itself lives on the Event record. Of two concurrent updates
// against the same version, at most one can pass CheckVersion once the
// first commit has advanced the counter.

// CheckVersion verifies that the version a caller read is still the
// current one. A mismatch returns *VersionConflictError carrying both
// values so the caller can reload and retry.
func CheckVersion(current, supplied int64) error {
	if current != supplied {
		return &VersionConflictError{Expected: supplied, Actual: current}
	}
	return nil
}

// NextVersion returns the strictly incremented successor version. The
// counter must never wrap silently; reaching the int64 ceiling is
// treated as unreachable and panics rather than wrapping.
func NextVersion(current int64) int64 {
	if current == math.MaxInt64 {
		panic("calendar: version counter overflow")
	}
	return current + 1
}
