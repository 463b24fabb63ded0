package cli

import (
	"fmt"

	"github.com/gofrs/flock"

	"github.com/idilsaglam/tasks/internal/config"
)

// acquireLock takes an exclusive lock next to the task file when cfg.Lock is set.
// The store itself never locks; this serializes whole load-mutate-save runs.
func acquireLock(cfg *config.Config) (release func(), err error) {
	if !cfg.Lock {
		return func() {}, nil
	}
	fl := flock.New(cfg.LockPath())
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", cfg.LockPath(), err)
	}
	return func() { _ = fl.Unlock() }, nil
}
