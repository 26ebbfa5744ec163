package validate_test

import (
	"encoding/pem"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/grandcamel/as-plugins-cli/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splunkLoginHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/services/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "json", r.PostForm.Get("output_mode"))

		if r.PostForm.Get("username") == "admin" && r.PostForm.Get("password") == "changeme" {
			w.Write([]byte(`{"sessionKey":"abc"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func writeServerCert(t *testing.T, server *httptest.Server) string {
	t.Helper()

	block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})

	dir, err := ioutil.TempDir("", "splunk-ca")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "ca.pem")
	require.NoError(t, ioutil.WriteFile(path, block, 0600))
	return path
}

func TestSplunk(t *testing.T) {
	t.Run("should connect with valid credentials", func(t *testing.T) {
		server := httptest.NewServer(splunkLoginHandler(t))
		defer server.Close()

		ok, message := validate.Splunk(server.URL, "admin", "changeme", validate.SplunkOptions{})
		assert.True(t, ok)
		assert.Equal(t, "Connected", message)
	})

	t.Run("should reject invalid credentials", func(t *testing.T) {
		server := httptest.NewServer(splunkLoginHandler(t))
		defer server.Close()

		ok, message := validate.Splunk(server.URL, "admin", "wrong", validate.SplunkOptions{})
		assert.False(t, ok)
		assert.Equal(t, "Invalid credentials (401 Unauthorized)", message)
	})

	t.Run("should retry without verification when the certificate is untrusted", func(t *testing.T) {
		server := httptest.NewTLSServer(splunkLoginHandler(t))
		defer server.Close()

		ok, message := validate.Splunk(server.URL, "admin", "changeme", validate.SplunkOptions{})
		assert.True(t, ok)
		assert.Equal(t, "Connected", message)
	})

	t.Run("should fail when verification is explicitly required", func(t *testing.T) {
		server := httptest.NewTLSServer(splunkLoginHandler(t))
		defer server.Close()

		ok, message := validate.Splunk(server.URL, "admin", "changeme", validate.SplunkOptions{VerifySSL: "true"})
		assert.False(t, ok)
		assert.Equal(t, "SSL verification failed - provide SPLUNK_CA_CERT_PATH or set SPLUNK_VERIFY_SSL=false", message)
	})

	t.Run("should skip verification when explicitly disabled", func(t *testing.T) {
		server := httptest.NewTLSServer(splunkLoginHandler(t))
		defer server.Close()

		ok, message := validate.Splunk(server.URL, "admin", "changeme", validate.SplunkOptions{VerifySSL: "false"})
		assert.True(t, ok)
		assert.Equal(t, "Connected", message)
	})

	t.Run("should trust a provided ca certificate", func(t *testing.T) {
		server := httptest.NewTLSServer(splunkLoginHandler(t))
		defer server.Close()

		ok, message := validate.Splunk(server.URL, "admin", "changeme", validate.SplunkOptions{
			CACertPath: writeServerCert(t, server),
		})
		assert.True(t, ok)
		assert.Equal(t, "Connected", message)
	})

	t.Run("should report an unreadable ca certificate", func(t *testing.T) {
		ok, message := validate.Splunk("https://splunk.example.com:8089", "admin", "changeme", validate.SplunkOptions{
			CACertPath: "/no/such/ca.pem",
		})
		assert.False(t, ok)
		assert.Equal(t, "Could not read CA certificate: /no/such/ca.pem", message)
	})

	t.Run("should report a ca file without certificates", func(t *testing.T) {
		dir, err := ioutil.TempDir("", "splunk-ca")
		require.NoError(t, err)
		t.Cleanup(func() { os.RemoveAll(dir) })

		path := filepath.Join(dir, "empty.pem")
		require.NoError(t, ioutil.WriteFile(path, []byte("not a pem"), 0600))

		ok, message := validate.Splunk("https://splunk.example.com:8089", "admin", "changeme", validate.SplunkOptions{
			CACertPath: path,
		})
		assert.False(t, ok)
		assert.Equal(t, "No certificates found in "+path, message)
	})
}
