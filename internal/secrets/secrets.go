// Package secrets provides the port over the host OS secret storage.
//
// The wizard never encrypts anything itself; secret-at-rest
// protection is delegated to the keychain behind this interface.
package secrets

import "github.com/grandcamel/as-plugins-cli/internal/platform"

// Store is a narrow capability interface over a keyed secret store
type Store interface {
	IsAvailable() bool
	Put(service, account, secret string) bool
	Get(service, account string) (string, bool)
	Delete(service, account string) bool

	// CommandRef renders the shell command substitution written to
	// the env file in place of a plaintext secret
	CommandRef(service, account string) string
}

// ServiceName returns the secret store service name for a platform
func ServiceName(p platform.Platform) string {
	return "as-plugins-" + string(p)
}
