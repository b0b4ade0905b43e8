package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
)

// CredentialsFileName is created in the user's home directory.
const CredentialsFileName = ".commitformat-credentials"

// Credentials is the content of the credentials file. Unknown keys written
// by other tools are preserved.
type Credentials struct {
	GitHubToken    string `json:"github_token,omitempty"`
	GitHubUsername string `json:"github_username,omitempty"`
	GitHubEmail    string `json:"github_email,omitempty"`

	extra map[string]json.RawMessage
}

var githubKeys = []string{"github_token", "github_username", "github_email"}

func (c *Credentials) HasGitHubToken() bool {
	return c != nil && c.GitHubToken != ""
}

// CredentialStore persists credentials as JSON with owner-only permissions.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

// NewCredentialStore stores credentials in ~/.commitformat-credentials.
func NewCredentialStore() (*CredentialStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, domainErrors.ErrCredentials.WithError(err)
	}
	return NewCredentialStoreAt(filepath.Join(home, CredentialsFileName)), nil
}

func NewCredentialStoreAt(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func (s *CredentialStore) Path() string { return s.path }

// Load returns the stored credentials. A missing or unreadable file reads as empty.
func (s *CredentialStore) Load() *Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *CredentialStore) load() *Credentials {
	creds := &Credentials{extra: map[string]json.RawMessage{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return creds
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return creds
	}
	_ = json.Unmarshal(data, creds)
	for _, k := range githubKeys {
		delete(raw, k)
	}
	creds.extra = raw
	return creds
}

// Save merges the non-empty fields of update into the stored credentials.
func (s *CredentialStore) Save(update Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.load()
	if update.GitHubToken != "" {
		creds.GitHubToken = update.GitHubToken
	}
	if update.GitHubUsername != "" {
		creds.GitHubUsername = update.GitHubUsername
	}
	if update.GitHubEmail != "" {
		creds.GitHubEmail = update.GitHubEmail
	}
	return s.write(creds)
}

// Clear removes the GitHub fields and deletes the file once nothing else is left.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.load()
	if len(creds.extra) == 0 {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return domainErrors.ErrCredentials.WithError(err)
		}
		return nil
	}
	return s.write(&Credentials{extra: creds.extra})
}

func (s *CredentialStore) write(creds *Credentials) error {
	out := make(map[string]any, len(creds.extra)+len(githubKeys))
	for k, v := range creds.extra {
		out[k] = v
	}
	for k, v := range map[string]string{
		"github_token":    creds.GitHubToken,
		"github_username": creds.GitHubUsername,
		"github_email":    creds.GitHubEmail,
	} {
		if v != "" {
			out[k] = v
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return domainErrors.ErrCredentials.WithError(err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return domainErrors.ErrCredentials.WithError(err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(s.path, 0o600); err != nil {
		return domainErrors.ErrCredentials.WithError(err)
	}
	return nil
}
