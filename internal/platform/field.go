package platform

import (
	"errors"
	"regexp"
	"strings"
)

// Kind is the normalization applied to a credential field value
// before it is accepted
type Kind string

// set of supported field kinds
const (
	KindNone         Kind = ""
	KindEmail        Kind = "email"
	KindURL          Kind = "url"
	KindAtlassianURL Kind = "atlassian_url"
)

// FieldSpec describes a single credential field of a platform
type FieldSpec struct {
	Name        string
	Label       string
	Placeholder string
	Kind        Kind
	Secret      bool
	Help        string
	Default     string
	Optional    bool
}

var (
	atlassianURLPattern = regexp.MustCompile(`^https://[a-zA-Z0-9-]+\.atlassian\.net$`)
	urlPattern          = regexp.MustCompile(`^https?://[a-zA-Z0-9.-]+(?::\d+)?(?:/.*)?$`)
	emailPattern        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Normalize cleans up the provided value and checks it against the
// field kind's expected shape, returning the value to store
func (k Kind) Normalize(value string) (string, error) {
	switch k {
	case KindAtlassianURL:
		return normalizeAtlassianURL(value)
	case KindURL:
		return normalizeURL(value)
	case KindEmail:
		return normalizeEmail(value)
	}
	return value, nil
}

func normalizeAtlassianURL(url string) (string, error) {
	if url == "" {
		return "", errors.New("URL is required")
	}

	url = ensureScheme(strings.TrimRight(strings.TrimSpace(url), "/"))

	if !strings.Contains(url, ".atlassian.net") {
		return "", errors.New("Must be an Atlassian Cloud URL (*.atlassian.net)")
	}

	if !atlassianURLPattern.MatchString(url) {
		return "", errors.New("Invalid Atlassian URL format")
	}
	return url, nil
}

func normalizeURL(url string) (string, error) {
	if url == "" {
		return "", errors.New("URL is required")
	}

	url = ensureScheme(strings.TrimRight(strings.TrimSpace(url), "/"))

	if !urlPattern.MatchString(url) {
		return "", errors.New("Invalid URL format")
	}
	return url, nil
}

func normalizeEmail(email string) (string, error) {
	if email == "" {
		return "", errors.New("Email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	if !emailPattern.MatchString(email) {
		return "", errors.New("Invalid email format")
	}
	return email, nil
}

func ensureScheme(url string) string {
	if !strings.HasPrefix(url, "http") {
		return "https://" + url
	}
	return url
}
