// Package pagedata verifies that a submission's target page really belongs to
// the claimed content by reading the page's own metadata.
package pagedata

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MetaTagName is the meta tag a hosted page must carry to accept comments.
const MetaTagName = "soudan-content-id"

// PageData holds everything a page declares about itself in meta tags.
// Only the content id today; wrapped in a struct so future tags (e.g. a
// locked-comments flag) slot in without touching callers.
type PageData struct {
	ContentID string
}

// Verifier fetches a page and extracts its PageData.
//
// A (nil, nil) return means "no data": the page either answered with a
// non-success status or lacks the meta tag. Callers cannot tell the two
// apart; both mean the url is not a valid comment target. A non-nil error
// means the fetch or parse itself failed and is a server fault.
type Verifier interface {
	FetchContentID(ctx context.Context, url string) (*PageData, error)
}

// HTTPVerifier fetches pages over plain HTTP with a bounded client, so a slow
// remote page cannot pin a request (and its tenant lock) indefinitely.
type HTTPVerifier struct {
	Client *http.Client
}

func NewHTTPVerifier() *HTTPVerifier {
	return &HTTPVerifier{Client: &http.Client{Timeout: 10 * time.Second}}
}

func (v *HTTPVerifier) FetchContentID(ctx context.Context, url string) (*PageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	contentID, ok := doc.Find(`meta[name="` + MetaTagName + `"]`).Attr("content")
	if !ok {
		return nil, nil
	}
	return &PageData{ContentID: contentID}, nil
}
