package compressing

import (
	"golang.org/x/sync/errgroup"
)

// Anything whose files can be verified against their checksums.
type IntegrityChecker interface {
	CheckIntegrity() error
}

/*
Runs CheckIntegrity on every checker concurrently and returns the first
failure. Each checker must own its input, so pass clones when the same
reader is shared with other goroutines. Nil checkers are skipped.
*/
func CheckIntegrityAll(checkers ...IntegrityChecker) error {
	var g errgroup.Group
	for _, c := range checkers {
		if c == nil {
			continue
		}
		c := c
		g.Go(c.CheckIntegrity)
	}
	return g.Wait()
}
