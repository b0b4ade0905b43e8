package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/models"
)

// InitFileName is the file written by `config init`.
const InitFileName = ".commitformatrc.json"

// starterConfig is what `config init` writes: the commit rules plus the AI and
// verifier switches, without secrets.
type starterConfig struct {
	Types             []models.CommitType `json:"types"`
	Scopes            []string            `json:"scopes"`
	AllowCustomScopes bool                `json:"allowCustomScopes"`
	MinSubjectLength  int                 `json:"minSubjectLength"`
	MaxSubjectLength  int                 `json:"maxSubjectLength"`
	Language          string              `json:"language"`
	AI                AIConfig            `json:"ai"`
	Verifier          VerifierConfig      `json:"verifier"`
}

// InitConfig writes a starter configuration into dir and returns its path.
// An existing file is kept unless force is set.
func InitConfig(dir string, cfg *Config, force bool) (string, error) {
	path := filepath.Join(dir, InitFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", domainErrors.ErrConfigExists.WithContext("path", path)
	}

	starter := starterConfig{
		Types:             cfg.Types,
		Scopes:            cfg.Scopes,
		AllowCustomScopes: cfg.AllowCustomScopes,
		MinSubjectLength:  cfg.MinSubjectLength,
		MaxSubjectLength:  cfg.MaxSubjectLength,
		Language:          cfg.Language,
		AI:                AIConfig{Enabled: cfg.AI.Enabled, Provider: cfg.AI.Provider, Model: cfg.AI.Model},
		Verifier:          cfg.Verifier,
	}

	data, err := json.MarshalIndent(starter, "", "  ")
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeInternal, "error encoding configuration", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeConfiguration, "error writing configuration", err).WithContext("path", path)
	}
	return path, nil
}

// WriteYAML prints the effective configuration with secrets masked.
func WriteYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Masked()); err != nil {
		return err
	}
	return enc.Close()
}
