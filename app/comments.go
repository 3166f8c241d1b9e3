package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rx0a/rayspace/internal/commentservice"
	"github.com/rx0a/rayspace/internal/common"
)

func (app *application) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := app.commentService.ListComments(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, comments, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type signGuestbookRequest struct {
	Comment string `json:"comment"`
}

func (app *application) signGuestbookHandler(w http.ResponseWriter, r *http.Request) {
	var input signGuestbookRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	comment, err := app.commentService.SignGuestbook(r.Context(), user.ID, user.Name, input.Comment)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) githubStarsHandler(w http.ResponseWriter, r *http.Request) {
	stars, err := app.githubService.Stars(r.Context())
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"stars": stars}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// statsHandler gathers the home page numbers. GitHub being unreachable leaves
// stars null rather than failing the whole response.
func (app *application) statsHandler(w http.ResponseWriter, r *http.Request) {
	views, err := app.postService.TotalViews(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	signee, err := app.commentService.RecentSignee(r.Context())
	if err != nil && !errors.Is(err, commentservice.ErrRecordNotFound) {
		app.serverErrorResponse(w, r, err)
		return
	}

	var stars *int
	if n, err := app.githubService.Stars(r.Context()); err != nil {
		app.logger.Warn("could not fetch github stars", slog.String("error", err.Error()), slog.String("request_id", requestID(r)))
	} else {
		stars = &n
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"total_views": views, "recent_signee": signee, "stars": stars}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
