package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/service"
)

// NewsService defines what the news handler needs from the service layer.
type NewsService interface {
	List(ctx context.Context, q service.NewsQuery) (domain.Page[service.ArticleView], error)
	Get(ctx context.Context, id string) (service.ArticleDetail, error)
	Feed(ctx context.Context, opts domain.ListOpts) (domain.Page[service.FeedItem], error)
	Bookmark(ctx context.Context, id string) error
	Unbookmark(ctx context.Context, id string) error
	Bookmarks(ctx context.Context) []service.ArticleView
}

// NewsHandler serves the news, feed and bookmark endpoints.
type NewsHandler struct {
	news   NewsService
	logger *slog.Logger
}

// NewNewsHandler creates a NewsHandler.
func NewNewsHandler(news NewsService, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{news: news, logger: logger}
}

// ListNews returns filtered articles.
// GET /api/news?category=Finance&q=fed
func (h *NewsHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.news.List(r.Context(), service.NewsQuery{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		ListOpts: parseListOpts(r),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list news")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetArticle returns one article with its related markets.
// GET /api/news/{id}
func (h *NewsHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	detail, err := h.news.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "article not found", "failed to get article")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Feed returns articles each carrying up to two markets.
// GET /api/feed
func (h *NewsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, err := h.news.Feed(r.Context(), parseListOpts(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to build feed")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListBookmarks returns bookmarked articles.
// GET /api/news/bookmarks
func (h *NewsHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	items := h.news.Bookmarks(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Bookmark marks an article.
// PUT /api/news/{id}/bookmark
func (h *NewsHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.setBookmark(w, r, true)
}

// Unbookmark clears an article's bookmark.
// DELETE /api/news/{id}/bookmark
func (h *NewsHandler) Unbookmark(w http.ResponseWriter, r *http.Request) {
	h.setBookmark(w, r, false)
}

func (h *NewsHandler) setBookmark(w http.ResponseWriter, r *http.Request, on bool) {
	id := pathParam(r, "id")
	var err error
	if on {
		err = h.news.Bookmark(r.Context(), id)
	} else {
		err = h.news.Unbookmark(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err, "article not found", "failed to update bookmark")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "bookmarked": on})
}
