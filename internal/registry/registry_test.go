package registry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/soudan/internal/store"
)

func memFactory(string) (store.CommentStore, error) {
	return store.NewMemoryCommentStore(), nil
}

func TestNew_RequiresDomains(t *testing.T) {
	if _, err := New(nil, memFactory); err == nil {
		t.Fatal("expected error for empty domain list")
	}
}

func TestLookup_ExactMatch(t *testing.T) {
	reg, err := New([]string{"https://example.com", "https://other.org"}, memFactory)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	tenant, err := reg.Lookup("https://example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if tenant.Origin != "https://example.com" {
		t.Fatalf("wrong tenant: %s", tenant.Origin)
	}

	if _, err := reg.Lookup("https://example.com/"); err != ErrBadOrigin {
		t.Fatalf("expected ErrBadOrigin for inexact match, got %v", err)
	}
	if _, err := reg.Lookup("https://unknown.net"); err != ErrBadOrigin {
		t.Fatalf("expected ErrBadOrigin for unregistered origin, got %v", err)
	}
}

func TestOriginFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/post-1", nil)
	if _, err := OriginFromRequest(req); err != ErrBadOrigin {
		t.Fatalf("expected ErrBadOrigin for missing header, got %v", err)
	}

	req.Header.Set("Origin", "https://example.com")
	origin, err := OriginFromRequest(req)
	if err != nil || origin != "https://example.com" {
		t.Fatalf("expected origin back, got %q, %v", origin, err)
	}

	req.Header.Set("Origin", "https://exämple.com")
	if _, err := OriginFromRequest(req); err != ErrBadOrigin {
		t.Fatalf("expected ErrBadOrigin for non-ascii origin, got %v", err)
	}
}

func TestInScope(t *testing.T) {
	reg, err := New([]string{"https://example.com"}, memFactory)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if !reg.InScope("https://example.com", "https://example.com/posts/1") {
		t.Fatal("expected url under the tenant domain to be in scope")
	}
	if reg.InScope("https://example.com", "https://evil.net/posts/1") {
		t.Fatal("expected foreign url to be out of scope")
	}
	if reg.InScope("https://evil.net", "https://example.com/posts/1") {
		t.Fatal("expected unregistered origin to be out of scope")
	}
	// The origin must prefix the domain, and the domain must prefix the url.
	if !reg.InScope("https://example", "https://example.com/posts/1") {
		t.Fatal("expected origin prefixing the domain to pass the scope check")
	}
}

func TestResolve(t *testing.T) {
	reg, err := New([]string{"https://example.com"}, memFactory)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/post-1", nil)
	req.Header.Set("Origin", "https://example.com")

	tenant, err := reg.Resolve(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tenant.Store == nil {
		t.Fatal("expected a store on the resolved tenant")
	}
}
