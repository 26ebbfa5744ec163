package validate

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/grandcamel/as-plugins-cli/internal/utils/api"
)

const splunkLoginPath = "services/auth/login"

// SplunkOptions configure TLS verification for the login check
type SplunkOptions struct {
	// CACertPath is a PEM bundle used to verify the server
	// certificate; it takes precedence over VerifySSL
	CACertPath string

	// VerifySSL is an explicit "true"/"false" verification override;
	// when blank, verification is attempted and silently retried
	// without it once if the server presents an untrusted certificate
	VerifySSL string
}

// Splunk checks Splunk credentials by posting them to the login
// endpoint under the management URL
func Splunk(baseURL, username, password string, opts SplunkOptions) (bool, string) {
	loginURL := joinURL(ensureScheme(baseURL), splunkLoginPath)

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("output_mode", "json")

	tlsConfig, retryInsecure, message := splunkTLSConfig(opts)
	if message != "" {
		return false, message
	}

	res, err := postForm(clientWith(tlsConfig), loginURL, form)
	if err != nil && isTLSError(err) && retryInsecure {
		res, err = postForm(clientWith(&tls.Config{InsecureSkipVerify: true}), loginURL, form)
	}
	if err != nil {
		switch {
		case isTimeout(err):
			return false, "Connection timed out"
		case isTLSError(err):
			return false, "SSL verification failed - provide SPLUNK_CA_CERT_PATH or set SPLUNK_VERIFY_SSL=false"
		case isConnectionError(err):
			return false, "Could not connect to server"
		}
		return false, fmt.Sprintf("Error: %s", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, "Connected"
	case http.StatusUnauthorized:
		return false, "Invalid credentials (401 Unauthorized)"
	}
	return false, fmt.Sprintf("API returned status %d", res.StatusCode)
}

func splunkTLSConfig(opts SplunkOptions) (*tls.Config, bool, string) {
	if opts.CACertPath != "" {
		pem, err := ioutil.ReadFile(opts.CACertPath)
		if err != nil {
			return nil, false, fmt.Sprintf("Could not read CA certificate: %s", opts.CACertPath)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, false, fmt.Sprintf("No certificates found in %s", opts.CACertPath)
		}
		return &tls.Config{RootCAs: pool}, false, ""
	}

	if opts.VerifySSL != "" {
		if verify, err := strconv.ParseBool(opts.VerifySSL); err == nil {
			return &tls.Config{InsecureSkipVerify: !verify}, false, ""
		}
	}

	return nil, true, ""
}

func clientWith(tlsConfig *tls.Config) *http.Client {
	client := newClient()
	if tlsConfig != nil {
		client.Transport = &http.Transport{TLSClientConfig: tlsConfig}
	}
	return client
}

func postForm(client *http.Client, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set(api.HeaderContentType, api.MediaTypeForm)
	return client.Do(req)
}
