//go:build unix

package main

import (
	"log"

	"golang.org/x/sys/unix"
)

// raiseFileLimit lifts the soft cap on open file handles towards want,
// bounded by the hard limit. Failure is logged, not fatal; the sweep can
// still run on small configurations.
func raiseFileLimit(want uint64) {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		log.Printf("could not read open file limit: %v", err)
		return
	}
	if limit.Cur >= want {
		return
	}
	limit.Cur = want
	if limit.Max < want {
		limit.Cur = limit.Max
	}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		log.Printf("could not raise open file limit: %v", err)
	}
}
