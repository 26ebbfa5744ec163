package mock

import (
	"fmt"

	"github.com/grandcamel/as-plugins-cli/internal/secrets"
)

// SecretStore is an in-memory mock secret store
type SecretStore struct {
	secrets.Store
	Available bool
	Secrets   map[string]string

	PutFn func(service, account, secret string) bool
}

// NewSecretStore creates a new available, empty mock secret store
func NewSecretStore() *SecretStore {
	return &SecretStore{Available: true, Secrets: map[string]string{}}
}

// IsAvailable reports the configured availability
func (s *SecretStore) IsAvailable() bool { return s.Available }

// Put stores the secret in memory, or calls PutFn when one is set
func (s *SecretStore) Put(service, account, secret string) bool {
	if s.PutFn != nil {
		return s.PutFn(service, account, secret)
	}
	s.Secrets[secretKey(service, account)] = secret
	return true
}

// Get reads a secret back out of memory
func (s *SecretStore) Get(service, account string) (string, bool) {
	secret, ok := s.Secrets[secretKey(service, account)]
	return secret, ok
}

// Delete removes a secret from memory
func (s *SecretStore) Delete(service, account string) bool {
	delete(s.Secrets, secretKey(service, account))
	return true
}

// CommandRef renders a recognizable fake command substitution
func (s *SecretStore) CommandRef(service, account string) string {
	return fmt.Sprintf("$(mock-secret %s %s)", service, account)
}

func secretKey(service, account string) string {
	return service + "/" + account
}
