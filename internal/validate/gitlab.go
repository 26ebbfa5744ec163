package validate

import "strings"

// Gitlab accepts a non-empty token without a live check; validating
// the token is owned by the glab CLI that ultimately consumes it
func Gitlab(token string) (bool, string) {
	if strings.TrimSpace(token) == "" {
		return false, "Token is required"
	}
	return true, "Token accepted without verification"
}
