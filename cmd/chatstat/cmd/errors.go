package cmd

import (
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns ErrTimeout when it cannot acquire the file lock within the
// configured deadline.
func isDBLockError(err error) bool {
	return err != nil && errors.Is(err, bolt.ErrTimeout)
}

// diagnoseDBLock returns actionable guidance when the cache cannot be
// opened because another chatstat process holds it.
func diagnoseDBLock(dbPath string) string {
	return fmt.Sprintf("message cache %s is locked by another process\n"+
		"  → a `chatstat collect --watch` may still be running\n"+
		"  → find the process:  ps aux | grep 'chatstat'\n"+
		"  → stop it, then retry your command", dbPath)
}
