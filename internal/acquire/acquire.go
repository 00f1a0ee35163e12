// Package acquire downloads and unpacks extensions into the local cache.
//
// An extension lives in {root}/{id}. A directory that already exists is
// reused as-is unless a refresh is forced; otherwise the archive is
// downloaded to {root}/{id}.crx with a bounded number of attempts, unpacked
// and given uniform permissions before the directory is handed back.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"

	"github.com/kernel/devtools-installer/internal/crx"
	"github.com/kernel/devtools-installer/internal/fetch"
	"github.com/kernel/devtools-installer/internal/paths"
	"github.com/kernel/devtools-installer/pkg/util"
)

const (
	// DefaultAttempts is the total number of download attempts per acquisition.
	DefaultAttempts = 5

	// DefaultRetryDelay is the fixed wait between download attempts.
	DefaultRetryDelay = 200 * time.Millisecond

	// DefaultUpdateURL is the Chrome Web Store update endpoint.
	DefaultUpdateURL = "https://clients2.google.com/service/update2/crx"

	// DefaultProdVersion is the browser version reported to the store.
	DefaultProdVersion = "126"

	// ManifestFile marks a usable unpacked extension.
	ManifestFile = "manifest.json"

	extensionMode = 0755
)

// Unpacker extracts an archive into a directory.
type Unpacker interface {
	Unpack(ctx context.Context, archivePath, dir string) error
}

// Acquirer resolves extension identifiers to unpacked directories.
type Acquirer struct {
	root        string
	fetcher     fetch.Fetcher
	unpacker    Unpacker
	attempts    int
	retryDelay  time.Duration
	updateURL   string
	prodVersion string
	installLock bool
	log         logr.Logger
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f fetch.Fetcher) Option {
	return func(a *Acquirer) {
		a.fetcher = f
	}
}

// WithUnpacker replaces the CRX unpacker.
func WithUnpacker(u Unpacker) Option {
	return func(a *Acquirer) {
		a.unpacker = u
	}
}

// WithAttempts sets the default attempt budget. Values below one are ignored.
func WithAttempts(n int) Option {
	return func(a *Acquirer) {
		if n > 0 {
			a.attempts = n
		}
	}
}

// WithRetryDelay sets the wait between download attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(a *Acquirer) {
		if d >= 0 {
			a.retryDelay = d
		}
	}
}

// WithUpdateURL points downloads at another update endpoint.
func WithUpdateURL(u string) Option {
	return func(a *Acquirer) {
		if u != "" {
			a.updateURL = u
		}
	}
}

// WithProdVersion sets the browser version reported to the update endpoint.
func WithProdVersion(v string) Option {
	return func(a *Acquirer) {
		if v != "" {
			a.prodVersion = v
		}
	}
}

// WithInstallLock serializes acquisitions of the same identifier across
// processes using a lock file below the cache root.
func WithInstallLock(enabled bool) Option {
	return func(a *Acquirer) {
		a.installLock = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(a *Acquirer) {
		a.log = l
	}
}

// New returns an Acquirer caching extensions below root.
func New(root string, opts ...Option) *Acquirer {
	a := &Acquirer{
		root:        root,
		fetcher:     fetch.New(),
		unpacker:    crx.Unpacker{},
		attempts:    DefaultAttempts,
		retryDelay:  DefaultRetryDelay,
		updateURL:   DefaultUpdateURL,
		prodVersion: DefaultProdVersion,
		log:         logr.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Root returns the cache root.
func (a *Acquirer) Root() string {
	return a.root
}

// Dir returns where id is (or would be) unpacked.
func (a *Acquirer) Dir(id string) string {
	return paths.ExtensionDir(a.root, id)
}

// DownloadURL returns the update endpoint URL that redirects to the CRX for id.
func (a *Acquirer) DownloadURL(id string) string {
	return fmt.Sprintf(
		"%s?response=redirect&prodversion=%s&acceptformat=crx2,crx3,puff&x=id%%3D%s%%26installsource%%3Dondemand%%26uc",
		a.updateURL, a.prodVersion, id,
	)
}

// Acquire returns the unpacked directory for id, downloading it when it is
// not cached or when force is set. attempts <= 0 uses the configured budget.
//
// On failure the downloaded archive and any partial directory are left in
// place.
func (a *Acquirer) Acquire(ctx context.Context, id string, force bool, proxy *fetch.Proxy, attempts int) (string, error) {
	if err := paths.EnsureDir(a.root); err != nil {
		return "", err
	}

	if a.installLock {
		unlock, err := a.lock(ctx, id)
		if err != nil {
			return "", err
		}
		defer unlock()
	}

	dir := a.Dir(id)
	if util.Exists(dir) && !force {
		a.log.V(1).Info("using cached extension", "id", id, "path", dir)
		return dir, nil
	}

	if err := util.RemoveIfExists(dir); err != nil {
		return "", fmt.Errorf("failed to remove %s: %w", dir, err)
	}

	archive := paths.ArchivePath(a.root, id)
	if err := a.download(ctx, id, archive, proxy, attempts); err != nil {
		return "", err
	}

	if err := a.unpacker.Unpack(ctx, archive, dir); err != nil {
		if !util.Exists(filepath.Join(dir, ManifestFile)) {
			return "", &ArchiveError{ID: id, Path: archive, Err: err}
		}
		a.log.Info("unpack reported an error but the manifest is present, continuing", "id", id, "error", err.Error())
	}

	if err := util.NormalizePermissions(dir, extensionMode); err != nil {
		return "", err
	}

	if err := os.Remove(archive); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.log.Info("failed to remove downloaded archive", "path", archive, "error", err.Error())
	}

	a.log.V(1).Info("extension unpacked", "id", id, "path", dir)
	return dir, nil
}

func (a *Acquirer) download(ctx context.Context, id, archive string, proxy *fetch.Proxy, attempts int) error {
	if attempts <= 0 {
		attempts = a.attempts
	}

	url := a.DownloadURL(id)
	tries := 0
	op := func() error {
		tries++
		a.log.V(1).Info("downloading extension", "id", id, "attempt", tries, "proxy", proxy.String())
		return a.fetcher.Fetch(ctx, url, archive, proxy)
	}
	notify := func(err error, next time.Duration) {
		a.log.Info("download failed, retrying", "id", id, "remaining", attempts-tries, "delay", next.String(), "error", err.Error())
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if attempts > 1 {
		policy = backoff.WithMaxRetries(backoff.NewConstantBackOff(a.retryDelay), uint64(attempts-1))
	}
	err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("download of %s interrupted: %w", id, ctxErr)
	}
	return &TransientNetworkError{ID: id, Attempts: tries, Err: err}
}
