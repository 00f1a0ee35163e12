package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/kernel/devtools-installer/internal/paths"
)

const lockRetryInterval = 100 * time.Millisecond

// lock takes the exclusive install lock for id. The returned function
// releases it.
func (a *Acquirer) lock(ctx context.Context, id string) (unlock func() error, err error) {
	lockPath := paths.LockPath(a.root, id)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create locks directory: %w", err)
	}

	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire install lock for %s: %w", id, err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire install lock for %s: %v", id, ctx.Err())
	}

	a.log.V(1).Info("acquired install lock", "id", id, "path", lockPath)
	return fl.Unlock, nil
}
