package main

import (
	"log/slog"
	"net/http"

	"github.com/rx0a/rayspace/internal/pageservice"
)

// pageHandler renders site pages. Requests sent with X-Fragment: 1 get only the
// main content fragment, which is how in-page navigation swaps content.
func (app *application) pageHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)
	visitor := pageservice.Visitor{SignedIn: !user.IsAnonymous(), Name: user.Name}

	page, err := app.pageService.Resolve(r.Context(), r.URL.Path, visitor)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if page.PostID != 0 && r.Method == http.MethodGet {
		if _, err := app.postService.IncrementViews(r.Context(), page.PostID); err != nil {
			app.logger.Warn("could not record view", slog.Int("post_id", page.PostID), slog.String("error", err.Error()))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", "X-Fragment")
	w.WriteHeader(page.Status)

	if r.Method == http.MethodHead {
		return
	}

	err = app.pageService.Render(w, page, r.Header.Get("X-Fragment") == "1")
	if err != nil {
		app.logError(r, err)
	}
}
