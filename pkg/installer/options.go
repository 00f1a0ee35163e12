package installer

import (
	"github.com/go-logr/logr"

	"github.com/kernel/devtools-installer/internal/proxy"
	"github.com/kernel/devtools-installer/pkg/host"
)

// Option configures an Installer.
type Option func(*Installer) error

// WithAcquirer sets where extensions are downloaded and unpacked.
func WithAcquirer(a Acquirer) Option {
	return func(i *Installer) error {
		i.acquirer = a
		return nil
	}
}

// WithHost selects the adapter for h. See host.Select.
func WithHost(h any) Option {
	return func(i *Installer) error {
		adapter, err := host.Select(h)
		if err != nil {
			return err
		}
		i.adapter = adapter
		return nil
	}
}

// WithAdapter sets an already selected host adapter.
func WithAdapter(a host.Adapter) Option {
	return func(i *Installer) error {
		i.adapter = a
		return nil
	}
}

// WithNameMap sets where host assigned names are recorded. The default is
// IDMap.json in the acquirer's cache root.
func WithNameMap(n NameMap) Option {
	return func(i *Installer) error {
		i.names = n
		return nil
	}
}

// WithProxyResolver sets how ProxyOption.Auto finds the proxy. The default
// reads the proxy environment variables.
func WithProxyResolver(r proxy.Resolver) Option {
	return func(i *Installer) error {
		i.resolver = r
		return nil
	}
}

// WithHostVersion sets the host runtime version checked against
// extensions.Reference.Electron. Empty skips the check.
func WithHostVersion(v string) Option {
	return func(i *Installer) error {
		i.hostVersion = v
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(i *Installer) error {
		i.log = l
		return nil
	}
}
