package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// isolate clears every variable the loader reads so the host environment
// cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"COMMITFORMAT_LANGUAGE", "COMMITFORMAT_AI_PROVIDER", "COMMITFORMAT_AI_ENABLED",
		"COMMITFORMAT_AI_API_KEY", "COMMITFORMAT_AI_MODEL", "COMMITFORMAT_VERIFIER_ENGINE",
		"COMMITFORMAT_VERIFIER_MAX_DIFF_CHARS", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "MISTRAL_API_KEY",
	} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir, HomeDir: dir})
	require.NoError(t, err)

	assert.Empty(t, cfg.Path())
	assert.Equal(t, "en", cfg.Language)
	assert.Len(t, cfg.Types, 11)
	assert.Equal(t, "feat", cfg.Types[0].Value)
	assert.True(t, cfg.AllowCustomScopes)
	assert.Equal(t, 3, cfg.MinSubjectLength)
	assert.Equal(t, 100, cfg.MaxSubjectLength)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.True(t, cfg.Verifier.Enabled)
	assert.Equal(t, EngineModel, cfg.Verifier.Engine)
	assert.Equal(t, 8000, cfg.Verifier.MaxDiffChars)
	assert.Equal(t, 3, cfg.Verifier.MajorFileCount)
}

func TestLoadConfig_SearchOrder(t *testing.T) {
	isolate(t)
	work := t.TempDir()
	repo := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(home, ".commitformatrc.json"), `{"language": "fr"}`)
	writeFile(t, filepath.Join(repo, ".commitformatrc.yaml"), "language: es\n")

	t.Run("repository root before home", func(t *testing.T) {
		cfg, err := LoadConfig(LoadOptions{WorkDir: work, RepoRoot: repo, HomeDir: home})
		require.NoError(t, err)
		assert.Equal(t, "es", cfg.Language)
		assert.Equal(t, filepath.Join(repo, ".commitformatrc.yaml"), cfg.Path())
	})

	t.Run("extensionless rc in working directory wins", func(t *testing.T) {
		writeFile(t, filepath.Join(work, ".commitformatrc"), `{"language": "en", "scopes": ["api", "ui"]}`)
		cfg, err := LoadConfig(LoadOptions{WorkDir: work, RepoRoot: repo, HomeDir: home})
		require.NoError(t, err)
		assert.Equal(t, "en", cfg.Language)
		assert.Equal(t, []string{"api", "ui"}, cfg.Scopes)
	})

	t.Run("explicit path overrides the search", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "custom.json")
		writeFile(t, explicit, `{"maxSubjectLength": 72}`)
		cfg, err := LoadConfig(LoadOptions{Path: explicit, WorkDir: work})
		require.NoError(t, err)
		assert.Equal(t, 72, cfg.MaxSubjectLength)
		assert.Equal(t, explicit, cfg.Path())
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := LoadConfig(LoadOptions{Path: filepath.Join(work, "nope.json")})
		assert.ErrorIs(t, err, domainErrors.ErrConfigRead)
	})
}

func TestLoadConfig_PackageJSON(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{
  "name": "demo",
  "commitformat": {
    "scopes": ["billing"],
    "allowCustomScopes": false,
    "types": [{"value": "feat", "name": "feat", "description": "Feature"}]
  }
}`)

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "package.json"), cfg.Path())
	assert.Equal(t, []string{"billing"}, cfg.Scopes)
	assert.False(t, cfg.AllowCustomScopes)
	require.Len(t, cfg.Types, 1)
	assert.Equal(t, "Feature", cfg.Types[0].Description)
}

func TestLoadConfig_Environment(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".commitformatrc.json"), `{"ai": {"enabled": true, "provider": "gemini"}}`)

	t.Setenv("COMMITFORMAT_AI_PROVIDER", "anthropic")
	t.Setenv("COMMITFORMAT_VERIFIER_MAX_DIFF_CHARS", "12000")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-123456789")

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, "sk-ant-123456789", cfg.AI.APIKey)
	assert.Equal(t, 12000, cfg.Verifier.MaxDiffChars)

	t.Setenv("COMMITFORMAT_AI_API_KEY", "explicit-key")
	cfg, err = LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", cfg.AI.APIKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolate(t)
	tests := map[string]string{
		"unknown provider":   `{"ai": {"provider": "watson"}}`,
		"bad language":       `{"language": "de"}`,
		"inverted lengths":   `{"minSubjectLength": 50, "maxSubjectLength": 10}`,
		"unknown engine":     `{"verifier": {"engine": "oracle"}}`,
		"type without value": `{"types": [{"name": "x"}]}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, ".commitformatrc.json"), content)
			_, err := LoadConfig(LoadOptions{WorkDir: dir})
			assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
		})
	}

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".commitformatrc.json"), `{"language": `)
		_, err := LoadConfig(LoadOptions{WorkDir: dir})
		assert.ErrorIs(t, err, domainErrors.ErrConfigRead)
	})
}

func TestCommitRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scopes = []string{"api"}
	rules := cfg.CommitRules()

	assert.Equal(t, []string{"api"}, rules.Scopes)
	assert.Equal(t, 100, rules.MaxSubjectLength)
	rules.Scopes[0] = "changed"
	assert.Equal(t, "api", cfg.Scopes[0])
}

func TestInitConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.AI.APIKey = "secret"

	path, err := InitConfig(dir, cfg, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, InitFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["allowCustomScopes"])

	_, err = InitConfig(dir, cfg, false)
	assert.ErrorIs(t, err, domainErrors.ErrConfigExists)

	_, err = InitConfig(dir, cfg, true)
	assert.NoError(t, err)

	isolate(t)
	loaded, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Path())
	assert.Len(t, loaded.Types, 11)
}

func TestWriteYAML_MasksSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.APIKey = "sk-1234567890abcd"

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, cfg))

	out := buf.String()
	assert.Contains(t, out, "provider: gemini")
	assert.Contains(t, out, "*************abcd")
	assert.NotContains(t, out, "sk-1234567890abcd")
	assert.Equal(t, "sk-1234567890abcd", cfg.AI.APIKey)
}
