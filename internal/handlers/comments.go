package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/soudan/internal/events"
	"github.com/example/soudan/internal/pagedata"
	"github.com/example/soudan/internal/platform/api"
	"github.com/example/soudan/internal/platform/httpserver"
	"github.com/example/soudan/internal/registry"
	"github.com/example/soudan/internal/sanitize"
	"github.com/example/soudan/internal/store"
)

var validate = validator.New()

// commentPayload is the client-supplied part of a submission. The id and
// timestamp are never accepted from the client.
type commentPayload struct {
	Author    *string `json:"author"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Text      string  `json:"text" validate:"required"`
	ContentID string  `json:"contentId" validate:"required"`
	Parent    *int64  `json:"parent"`
}

type postCommentRequest struct {
	URL     string         `json:"url"`
	Comment commentPayload `json:"comment"`
}

// GetComments handles GET /{content_id}: the threaded read model for one
// piece of content, tenant-gated by the Origin header like every request.
func GetComments(reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		tenant, err := reg.Resolve(r)
		if err != nil {
			api.BadRequest(w, "BAD_ORIGIN", "bad origin", rid)
			return
		}

		contentID := chi.URLParam(r, "content_id")

		tenant.RLock()
		comments, err := tenant.Store.GetThreaded(r.Context(), contentID)
		tenant.RUnlock()
		if err != nil {
			log.Error("get threaded comments", zap.String("origin", tenant.Origin), zap.Error(err))
			api.Internal(w, "STORE_FAILED", rid)
			return
		}

		api.WriteJSON(w, http.StatusOK, renderComments(comments))
	}
}

// PostComment handles POST /: the submission pipeline. Steps run in a fixed
// order and any failure is terminal for the request.
func PostComment(reg *registry.Registry, san sanitize.Sanitizer, ver pagedata.Verifier, pub *events.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		// Parse
		var req postCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", rid)
			return
		}

		// Sanitize before validation so a comment that is all markup fails
		// the non-empty check.
		text, err := san.Sanitize(req.Comment.Text)
		if err != nil {
			log.Error("sanitize comment text", zap.Error(err))
			api.Internal(w, "SANITIZE_FAILED", rid)
			return
		}
		req.Comment.Text = text
		if req.Comment.Author != nil {
			author, err := san.Sanitize(*req.Comment.Author)
			if err != nil {
				log.Error("sanitize comment author", zap.Error(err))
				api.Internal(w, "SANITIZE_FAILED", rid)
				return
			}
			req.Comment.Author = &author
		}

		// Validate fields
		if err := validate.Struct(req.Comment); err != nil {
			api.BadRequest(w, "INVALID_FIELD", "invalid comment field(s)", rid)
			return
		}

		// Resolve origin
		origin, err := registry.OriginFromRequest(r)
		if err != nil {
			api.BadRequest(w, "BAD_ORIGIN", "bad origin", rid)
			return
		}

		// Scope check: never fetch a url outside a registered tenant, and
		// never let one origin write under another tenant's domain.
		if !reg.InScope(origin, req.URL) {
			api.BadRequest(w, "OUT_OF_SCOPE", "url out of scope", rid)
			return
		}

		// Verify the page claims this content id
		page, err := ver.FetchContentID(r.Context(), req.URL)
		if err != nil {
			log.Error("fetch page data", zap.String("url", req.URL), zap.Error(err))
			api.Internal(w, "PAGE_FETCH_FAILED", rid)
			return
		}
		if page == nil {
			api.BadRequest(w, "INVALID_URL", "url invalid", rid)
			return
		}
		if page.ContentID != req.Comment.ContentID {
			api.BadRequest(w, "CONTENT_MISMATCH", "content ids don't match", rid)
			return
		}

		// Resolve the tenant store
		tenant, err := reg.Lookup(origin)
		if err != nil {
			api.BadRequest(w, "BAD_ORIGIN", "bad origin", rid)
			return
		}

		// The write lock covers parent validation and the insert together,
		// so two concurrent replies cannot race the parent state.
		tenant.Lock()
		defer tenant.Unlock()

		if req.Comment.Parent != nil {
			comments, err := tenant.Store.GetThreaded(r.Context(), req.Comment.ContentID)
			if err != nil {
				log.Error("validate parent", zap.String("origin", tenant.Origin), zap.Error(err))
				api.Internal(w, "STORE_FAILED", rid)
				return
			}
			if !hasTopLevelParent(comments, *req.Comment.Parent) {
				api.BadRequest(w, "INVALID_PARENT", "invalid comment parent", rid)
				return
			}
		}

		c := store.Comment{
			Author:    req.Comment.Author,
			Email:     req.Comment.Email,
			Text:      req.Comment.Text,
			ContentID: req.Comment.ContentID,
			Parent:    req.Comment.Parent,
		}
		if err := tenant.Store.Create(r.Context(), c); err != nil {
			log.Error("create comment", zap.String("origin", tenant.Origin), zap.Error(err))
			api.Internal(w, "STORE_FAILED", rid)
			return
		}

		pub.CommentCreated(tenant.Origin, c.ContentID, c.Parent != nil)
		w.WriteHeader(http.StatusOK)
	}
}

// hasTopLevelParent reports whether parent is the id of a top-level comment.
// Reply ids are only ever nested and thus never match, which rejects
// replies-to-replies.
func hasTopLevelParent(comments []store.Comment, parent int64) bool {
	for _, c := range comments {
		if c.ID == parent && c.Parent == nil {
			return true
		}
	}
	return false
}
