package authservice

import (
	"time"
)

type Permission string
type Permissions []Permission

const (
	PermissionWriteComments Permission = "comments:write"
	PermissionWritePosts    Permission = "posts:write"
	PermissionAdminPosts    Permission = "posts:admin"

	SessionCookieName = "AdminUser"
	StateCookieName   = "oauth_state"

	SessionTime    time.Duration = 7 * 24 * time.Hour
	OAuthStateTime time.Duration = 10 * time.Minute
)

var (
	AnonymousUser = User{}
)

// User is the identity carried by a session: a GitHub account.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Permissions Permissions `json:"permissions"`
}

// AuthStatus is what /api/user_status reports.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	IsAdmin       bool   `json:"is_admin"`
	UserName      string `json:"user_name,omitempty"`
}

type Config struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	AdminUserID   string
	EditorUserIDs []string
	SecretKey     []byte
	Secure        bool
	// AuthURL and TokenURL override the GitHub endpoints when set.
	AuthURL  string
	TokenURL string
}
