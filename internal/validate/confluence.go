package validate

import (
	"fmt"
	"net/http"

	"github.com/grandcamel/as-plugins-cli/internal/utils/api"
)

// read-only endpoints tried in order; the v1 user endpoint is the
// most reliable and also yields a display name
var confluenceEndpoints = []struct {
	path     string
	userInfo bool
}{
	{"wiki/rest/api/user/current", true},
	{"wiki/api/v2/spaces?limit=1", false},
	{"wiki/rest/api/space?limit=1", false},
}

// Confluence checks Confluence Cloud credentials against a chain of
// read-only API endpoints
func Confluence(siteURL, email, token string) (bool, string) {
	client := newClient()
	authorization := api.BasicAuth(email, token)
	base := ensureScheme(siteURL)

	lastStatus := 0
	for _, endpoint := range confluenceEndpoints {
		res, err := get(client, joinURL(base, endpoint.path), authorization)
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
			if endpoint.userInfo && name != "" {
				return true, fmt.Sprintf("Connected as %s", name)
			}
			return true, "Connected"
		case http.StatusUnauthorized:
			res.Body.Close()
			return false, "Invalid credentials (401 Unauthorized)"
		}

		// a 403 may mean working credentials against a restricted
		// endpoint and a 404 an endpoint this deployment lacks; both
		// move on to the next endpoint, as does any other status
		res.Body.Close()
	}

	switch lastStatus {
	case http.StatusForbidden:
		return false, "Access denied - check API token permissions"
	case http.StatusNotFound:
		return false, "Confluence not found at this URL"
	case 0:
		return false, "Could not validate credentials"
	}
	return false, fmt.Sprintf("API returned status %d", lastStatus)
}
