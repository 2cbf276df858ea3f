package bvol

// debugAssert panics with msg if debug checks are enabled and cond is false.
// Callers should guard expensive conditions with debugChecks so they
// are compiled out of release builds.
func debugAssert(cond bool, msg string) {
	if debugChecks && !cond {
		panic("bvol: " + msg)
	}
}
