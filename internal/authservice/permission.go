package authservice

func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == ""
}

func (u *User) HasPermission(permission Permission) bool {
	if u == nil {
		return false
	}

	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}

	return false
}

func (u *User) IsAdmin() bool {
	return u.HasPermission(PermissionAdminPosts)
}

// permissionsFor derives what a GitHub account may do on the site.
func (s *AuthService) permissionsFor(userID string) Permissions {
	if userID == "" {
		return nil
	}

	perms := Permissions{PermissionWriteComments}

	if userID == s.cfg.AdminUserID {
		return append(perms, PermissionWritePosts, PermissionAdminPosts)
	}

	for _, id := range s.cfg.EditorUserIDs {
		if id == userID {
			return append(perms, PermissionWritePosts)
		}
	}

	return perms
}
