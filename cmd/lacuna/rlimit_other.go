//go:build !unix

package main

// raiseFileLimit is a no-op where rlimits do not exist.
func raiseFileLimit(uint64) {}
