// Package proxy works out which proxy a download should go through.
//
// Hosts describe proxies the way PAC scripts do: a semicolon separated list
// of entries like "PROXY host:port" or "DIRECT". Only the first entry is used.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kernel/devtools-installer/internal/fetch"
)

// ProbeURL is the URL proxies are resolved for.
const ProbeURL = "https://clients2.google.com"

// ErrDirect is returned when the host reports that no proxy is in use.
var ErrDirect = errors.New("no proxy detected")

// Resolver answers which proxy the host would use for target, in PAC form.
type Resolver interface {
	ResolveProxy(ctx context.Context, target string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, target string) (string, error)

func (f ResolverFunc) ResolveProxy(ctx context.Context, target string) (string, error) {
	return f(ctx, target)
}

// EnvResolver resolves proxies from HTTPS_PROXY, HTTP_PROXY and NO_PROXY.
type EnvResolver struct {
	// Lookup defaults to http.ProxyFromEnvironment.
	Lookup func(*http.Request) (*url.URL, error)
}

// ResolveProxy returns the proxy URL for target, or "DIRECT".
func (r EnvResolver) ResolveProxy(ctx context.Context, target string) (string, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = http.ProxyFromEnvironment
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build proxy probe request: %w", err)
	}
	u, err := lookup(req)
	if err != nil {
		return "", fmt.Errorf("failed to read proxy environment: %w", err)
	}
	if u == nil {
		return "DIRECT", nil
	}
	return u.String(), nil
}

// Resolve asks r for the proxy used to reach the update service.
func Resolve(ctx context.Context, r Resolver) (*fetch.Proxy, error) {
	pac, err := r.ResolveProxy(ctx, ProbeURL)
	if err != nil {
		return nil, err
	}
	return ParsePAC(pac)
}

// ParsePAC turns the first entry of a PAC result into a proxy. A plain proxy
// URL is accepted as well. DIRECT yields ErrDirect.
func ParsePAC(pac string) (*fetch.Proxy, error) {
	entry, _, _ := strings.Cut(pac, ";")
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil, fmt.Errorf("empty proxy configuration")
	}

	if strings.Contains(entry, "://") {
		return fetch.ParseProxy(entry)
	}

	fields := strings.Fields(entry)
	keyword := strings.ToUpper(fields[0])
	if keyword == "DIRECT" {
		return nil, ErrDirect
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("invalid proxy entry %q", entry)
	}

	hostPort := fields[1]
	switch keyword {
	case "PROXY", "HTTP", "HTTPS":
		return fetch.ParseProxy("http://" + hostPort)
	case "SOCKS", "SOCKS5":
		return fetch.ParseProxy("socks5://" + hostPort)
	default:
		return nil, fmt.Errorf("unsupported proxy type %q", fields[0])
	}
}
