//go:build !debug

package bvol

const debugChecks = false
