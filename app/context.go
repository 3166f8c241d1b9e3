package main

import (
	"context"
	"net/http"

	"github.com/rx0a/rayspace/internal/authservice"
)

type contextKey string

const (
	userContextKey      = contextKey("user")
	requestIDContextKey = contextKey("request_id")
)

func (app *application) createUserContext(r *http.Request, user *authservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func (app *application) getUserContext(r *http.Request) *authservice.User {
	user, ok := r.Context().Value(userContextKey).(*authservice.User)
	if !ok {
		return &authservice.AnonymousUser
	}
	return user
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
