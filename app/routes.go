package main

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/rx0a/rayspace/internal/authservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundHandler)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthCheckHandler)

	// posts
	router.HandlerFunc(http.MethodGet, "/api/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodGet, "/api/posts/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodPost, "/api/posts", app.requirePermission(app.createPostHandler, authservice.PermissionAdminPosts))
	router.HandlerFunc(http.MethodPut, "/api/posts/:id", app.requirePermission(app.updatePostHandler, authservice.PermissionAdminPosts))
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id", app.requirePermission(app.deletePostHandler, authservice.PermissionAdminPosts))
	router.HandlerFunc(http.MethodPut, "/api/update_views/:id", app.updateViewsHandler)

	// admin controller
	router.HandlerFunc(http.MethodGet, "/api/admin/posts", app.requirePermission(app.listPostsHandler, authservice.PermissionAdminPosts))
	router.HandlerFunc(http.MethodGet, "/api/admin/posts/:id", app.requirePermission(app.adminPostContentHandler, authservice.PermissionAdminPosts))
	router.HandlerFunc(http.MethodPost, "/api/admin/posts", app.requirePermission(app.createPostHandler, authservice.PermissionAdminPosts))
	router.HandlerFunc(http.MethodPut, "/api/admin/posts/:id", app.requirePermission(app.updatePostHandler, authservice.PermissionAdminPosts))
	router.HandlerFunc(http.MethodDelete, "/api/admin/posts/:id", app.requirePermission(app.deletePostHandler, authservice.PermissionAdminPosts))

	// tools controller
	router.HandlerFunc(http.MethodPost, "/api/tools/posts", app.requirePermission(app.createPostHandler, authservice.PermissionWritePosts))
	router.HandlerFunc(http.MethodDelete, "/api/tools/posts/:id", app.requirePermission(app.deletePostHandler, authservice.PermissionWritePosts))

	// guestbook
	router.HandlerFunc(http.MethodGet, "/api/comments", app.listCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/api/comments", app.requirePermission(app.signGuestbookHandler, authservice.PermissionWriteComments))

	// home page
	router.HandlerFunc(http.MethodGet, "/api/github_stars", app.githubStarsHandler)
	router.HandlerFunc(http.MethodGet, "/api/stats", app.statsHandler)

	// auth
	router.HandlerFunc(http.MethodGet, "/api/user_status", app.userStatusHandler)
	router.HandlerFunc(http.MethodGet, "/auth/start_github_oauth", app.startOAuthHandler)
	router.HandlerFunc(http.MethodGet, "/auth/github/callback", app.oauthCallbackHandler)
	router.HandlerFunc(http.MethodPost, "/auth/logout", app.logoutHandler)

	// content
	router.HandlerFunc(http.MethodGet, "/posts/:file", app.postFragmentHandler)
	router.Handler(http.MethodGet, "/assets/*filepath", http.StripPrefix("/assets", http.FileServer(http.Dir(app.config.AssetsDir))))

	return app.recoverPanic(app.logRequest(app.rateLimit(app.authenticate(router))))
}

// notFoundHandler serves site pages for every path the router does not know.
// Unknown API paths stay JSON.
func (app *application) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		app.notFoundErrorResponse(w, r)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		app.methodNotAllowedErrorResponse(w, r)
		return
	}

	app.pageHandler(w, r)
}
