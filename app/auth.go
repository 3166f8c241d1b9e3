package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rx0a/rayspace/internal/authservice"
)

func (app *application) userStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := app.authService.Status(app.getUserContext(r))

	err := app.writeJSON(w, http.StatusOK, status, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) startOAuthHandler(w http.ResponseWriter, r *http.Request) {
	url, state, err := app.authService.StartURL()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.authService.SetStateCookie(w, state)
	http.Redirect(w, r, url, http.StatusFound)
}

func (app *application) oauthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	expected := app.authService.ConsumeState(w, r)
	query := r.URL.Query()

	user, err := app.authService.Complete(r.Context(), query.Get("state"), expected, query.Get("code"))
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrInvalidState), errors.Is(err, authservice.ErrMissingCode):
			app.badRequestErrorResponse(w, r, err)
		case errors.Is(err, authservice.ErrOAuth):
			app.invalidOAuthResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.authService.SetSession(w, user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.logger.Info("user signed in", slog.String("user_id", user.ID), slog.Bool("admin", user.IsAdmin()))

	http.Redirect(w, r, "/guestbook", http.StatusFound)
}

func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	app.authService.ClearSession(w)

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "signed out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
