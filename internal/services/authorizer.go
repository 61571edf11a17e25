package services

import "tjbot/internal/domain"

// IsAuthorized reports whether at least one of roles satisfies pattern.
func IsAuthorized(roles []string, pattern domain.RolePattern) bool {
	for _, role := range roles {
		if pattern.Matches(role) {
			return true
		}
	}
	return false
}
