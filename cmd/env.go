package cmd

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kernel/devtools-installer/internal/acquire"
	"github.com/kernel/devtools-installer/internal/config"
	"github.com/kernel/devtools-installer/internal/fetch"
	"github.com/kernel/devtools-installer/internal/logging"
	"github.com/kernel/devtools-installer/internal/paths"
)

// env is what every command needs: the effective configuration, a logger
// and the cache root.
type env struct {
	cfg  *config.Config
	log  logr.Logger
	root string
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	applyFlag(fs, "home", fs.GetString, &cfg.Home)
	applyFlag(fs, "app-name", fs.GetString, &cfg.AppName)
	debug, _ := fs.GetBool("debug")

	dir, err := cfg.AppDataDir()
	if err != nil {
		return nil, err
	}
	root, err := paths.CacheRoot(dir)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:  cfg,
		log:  logging.New(os.Stderr, debug),
		root: root,
	}, nil
}

// applyFlag overrides dst with the flag value when the flag was given.
func applyFlag[T any](fs *pflag.FlagSet, name string, get func(string) (T, error), dst *T) {
	if !fs.Changed(name) {
		return
	}
	if v, err := get(name); err == nil {
		*dst = v
	}
}

func (e *env) acquirer() *acquire.Acquirer {
	fetcher := fetch.New(fetch.WithTimeout(e.cfg.Timeout))
	return acquire.New(e.root,
		acquire.WithFetcher(fetcher),
		acquire.WithAttempts(e.cfg.Attempts),
		acquire.WithRetryDelay(e.cfg.RetryDelay),
		acquire.WithUpdateURL(e.cfg.UpdateURL),
		acquire.WithProdVersion(e.cfg.ProdVersion),
		acquire.WithInstallLock(e.cfg.Lock),
		acquire.WithLogger(e.log.WithName("acquire")),
	)
}
