// Package registry maps request origins to isolated per-tenant comment stores.
// It is built once at startup and read-only afterwards; the per-tenant locks
// are the only mutable state.
package registry

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/example/soudan/internal/store"
)

// ErrBadOrigin covers every way a request can fail tenant resolution: missing
// Origin header, non-ASCII Origin, or an Origin no tenant is registered under.
// Callers report all three identically.
var ErrBadOrigin = errors.New("bad origin")

// StoreFactory opens the isolated store for one tenant domain.
type StoreFactory func(domain string) (store.CommentStore, error)

// Tenant is one registered domain with its store and serialization lock.
// Write paths must hold the write lock from the first store read through the
// final insert; read paths take the read lock and may overlap each other.
type Tenant struct {
	Origin string
	Store  store.CommentStore

	mu sync.RWMutex
}

func (t *Tenant) Lock()    { t.mu.Lock() }
func (t *Tenant) Unlock()  { t.mu.Unlock() }
func (t *Tenant) RLock()   { t.mu.RLock() }
func (t *Tenant) RUnlock() { t.mu.RUnlock() }

type Registry struct {
	tenants map[string]*Tenant
	domains []string
}

// New builds the registry, opening one store per configured domain.
func New(domains []string, open StoreFactory) (*Registry, error) {
	if len(domains) == 0 {
		return nil, errors.New("at least one tenant domain is required")
	}
	r := &Registry{tenants: make(map[string]*Tenant, len(domains))}
	for _, domain := range domains {
		if _, dup := r.tenants[domain]; dup {
			continue
		}
		s, err := open(domain)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open store for %s: %w", domain, err)
		}
		r.tenants[domain] = &Tenant{Origin: domain, Store: s}
		r.domains = append(r.domains, domain)
	}
	return r, nil
}

// Lookup resolves a raw Origin header value to its tenant by exact match.
func (r *Registry) Lookup(origin string) (*Tenant, error) {
	t, ok := r.tenants[origin]
	if !ok {
		return nil, ErrBadOrigin
	}
	return t, nil
}

// Resolve extracts the Origin header and looks up its tenant in one step.
// Both the read and write paths go through here.
func (r *Registry) Resolve(req *http.Request) (*Tenant, error) {
	origin, err := OriginFromRequest(req)
	if err != nil {
		return nil, err
	}
	return r.Lookup(origin)
}

// OriginFromRequest returns the Origin header value. A missing or non-ASCII
// Origin means the request did not come from a browser and is rejected.
func OriginFromRequest(req *http.Request) (string, error) {
	origin := req.Header.Get("Origin")
	if origin == "" {
		return "", ErrBadOrigin
	}
	for i := 0; i < len(origin); i++ {
		if origin[i] > unicode.MaxASCII {
			return "", ErrBadOrigin
		}
	}
	return origin, nil
}

// InScope reports whether url may be fetched on behalf of origin: some
// registered domain must extend the claimed origin and itself prefix the
// target url. This keeps the page verifier from fetching arbitrary hosts and
// keeps one tenant's pages from carrying another tenant's comments.
func (r *Registry) InScope(origin, url string) bool {
	for _, domain := range r.domains {
		if strings.HasPrefix(domain, origin) && strings.HasPrefix(url, domain) {
			return true
		}
	}
	return false
}

// Domains returns the registered domains in configuration order.
func (r *Registry) Domains() []string {
	return r.domains
}

// Close releases every tenant store.
func (r *Registry) Close() {
	for _, t := range r.tenants {
		_ = t.Store.Close()
	}
}
