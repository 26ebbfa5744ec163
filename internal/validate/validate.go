// Package validate confirms platform credentials against each
// service's API before they are saved.
//
// Validators never return errors; every failure path produces a
// human-readable diagnostic message instead.
package validate

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/grandcamel/as-plugins-cli/internal/platform"
	"github.com/grandcamel/as-plugins-cli/internal/utils/api"
)

const requestTimeout = 10 * time.Second

// Check validates the provided credentials for a platform with a
// live connectivity test
func Check(p platform.Platform, creds map[string]string) (bool, string) {
	switch p {
	case platform.Confluence:
		return Confluence(
			creds[platform.FieldConfluenceSiteURL],
			creds[platform.FieldConfluenceEmail],
			creds[platform.FieldConfluenceAPIToken],
		)
	case platform.Jira:
		return Jira(
			creds[platform.FieldJiraSiteURL],
			creds[platform.FieldJiraEmail],
			creds[platform.FieldJiraAPIToken],
		)
	case platform.Splunk:
		return Splunk(
			creds[platform.FieldSplunkURL],
			creds[platform.FieldSplunkUsername],
			creds[platform.FieldSplunkPassword],
			SplunkOptions{
				CACertPath: creds[platform.FieldSplunkCACertPath],
				VerifySSL:  creds[platform.FieldSplunkVerifySSL],
			},
		)
	case platform.Gitlab:
		return Gitlab(creds[platform.FieldGitlabToken])
	}
	return false, fmt.Sprintf("Unknown platform: %s", p)
}

func newClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

func get(client *http.Client, url, authorization string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(api.HeaderAuthorization, authorization)
	req.Header.Set(api.HeaderAccept, api.MediaTypeJSON)
	return client.Do(req)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}

func ensureScheme(url string) string {
	if !strings.HasPrefix(url, "http") {
		return "https://" + url
	}
	return url
}

func decodeDisplayName(r io.Reader) string {
	var payload struct {
		DisplayName string `json:"displayName"`
		Username    string `json:"username"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.DisplayName != "" {
		return payload.DisplayName
	}
	return payload.Username
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isTLSError(err error) bool {
	var (
		hostnameErr    x509.HostnameError
		unknownAuthErr x509.UnknownAuthorityError
		invalidCertErr x509.CertificateInvalidError
		recordErr      tls.RecordHeaderError
	)
	return errors.As(err, &hostnameErr) ||
		errors.As(err, &unknownAuthErr) ||
		errors.As(err, &invalidCertErr) ||
		errors.As(err, &recordErr)
}
