//go:build debug

package bvol

// debugChecks enables precondition and postcondition assertions.
const debugChecks = true
