package validate

import (
	"fmt"
	"net/http"

	"github.com/grandcamel/as-plugins-cli/internal/utils/api"
)

var jiraEndpoints = []string{
	"rest/api/3/myself",
	"rest/api/2/myself",
}

// Jira checks JIRA Cloud credentials against the myself endpoint,
// falling back from the v3 API to v2
func Jira(siteURL, email, token string) (bool, string) {
	client := newClient()
	authorization := api.BasicAuth(email, token)
	base := ensureScheme(siteURL)

	lastStatus := 0
	for _, endpoint := range jiraEndpoints {
		res, err := get(client, joinURL(base, endpoint), authorization)
		if err != nil {
			if isTimeout(err) {
				return false, "Connection timed out"
			}
			if isConnectionError(err) || isTLSError(err) {
				return false, "Could not connect to server"
			}
			continue
		}

		lastStatus = res.StatusCode
		switch res.StatusCode {
		case http.StatusOK:
			name := decodeDisplayName(res.Body)
			res.Body.Close()
			if name == "" {
				name = "Unknown"
			}
			return true, fmt.Sprintf("Connected as %s", name)
		case http.StatusUnauthorized:
			res.Body.Close()
			return false, "Invalid credentials (401 Unauthorized)"
		case http.StatusForbidden:
			res.Body.Close()
			return false, "Access denied - check API token permissions"
		}

		res.Body.Close()
	}

	switch lastStatus {
	case http.StatusNotFound:
		return false, "JIRA not found at this URL"
	case 0:
		return false, "Could not validate credentials"
	}
	return false, fmt.Sprintf("API returned status %d", lastStatus)
}
