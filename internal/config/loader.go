package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
)

const (
	envPrefix      = "COMMITFORMAT"
	packageJSONKey = "commitformat"

	defaultGitHubClientID = "Ov23li8pO3QoYZ5vRDtY"
)

// configFileNames are tried in order inside every search directory.
var configFileNames = []string{
	".commitformatrc",
	".commitformatrc.json",
	".commitformatrc.yaml",
	".commitformatrc.yml",
	"commitformat.config.json",
}

// envAliases are readable names for keys whose automatic env name would be
// hard to guess (COMMITFORMAT_VERIFIER_MAXDIFFCHARS).
var envAliases = map[string]string{
	"ai.apiKey":               "COMMITFORMAT_AI_API_KEY",
	"ai.baseUrl":              "COMMITFORMAT_AI_BASE_URL",
	"allowCustomScopes":       "COMMITFORMAT_ALLOW_CUSTOM_SCOPES",
	"minSubjectLength":        "COMMITFORMAT_MIN_SUBJECT_LENGTH",
	"maxSubjectLength":        "COMMITFORMAT_MAX_SUBJECT_LENGTH",
	"historyCount":            "COMMITFORMAT_HISTORY_COUNT",
	"verifier.maxDiffChars":   "COMMITFORMAT_VERIFIER_MAX_DIFF_CHARS",
	"verifier.majorFileCount": "COMMITFORMAT_VERIFIER_MAJOR_FILE_COUNT",
	"verifier.ignoreWords":    "COMMITFORMAT_VERIFIER_IGNORE_WORDS",
	"github.clientId":         "COMMITFORMAT_GITHUB_CLIENT_ID",
}

// LoadOptions tells LoadConfig where to look.
type LoadOptions struct {
	// Path is an explicit file, e.g. from --config. It must exist.
	Path     string
	WorkDir  string
	RepoRoot string
	HomeDir  string
}

// LoadConfig resolves the configuration: the explicit path, else the first rc
// file found in the working directory, the repository root and the home
// directory, else the "commitformat" key of package.json. Defaults fill the
// gaps and COMMITFORMAT_* variables override everything.
func LoadConfig(opts LoadOptions) (*Config, error) {
	v := newViper()

	path, err := findConfigFile(opts)
	if err != nil {
		return nil, err
	}

	switch {
	case path != "":
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			// rc files without extension hold JSON or YAML; YAML reads both.
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("path", path)
		}
	default:
		if pkgPath, section := findPackageJSONSection(opts); section != nil {
			if err := v.MergeConfigMap(section); err != nil {
				return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("path", pkgPath)
			}
			path = pkgPath
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, domainErrors.ErrConfigInvalid.WithError(err).WithContext("path", path)
	}
	cfg.path = path
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("language", d.Language)
	v.SetDefault("types", d.Types)
	v.SetDefault("scopes", d.Scopes)
	v.SetDefault("allowCustomScopes", d.AllowCustomScopes)
	v.SetDefault("minSubjectLength", d.MinSubjectLength)
	v.SetDefault("maxSubjectLength", d.MaxSubjectLength)
	v.SetDefault("historyCount", d.HistoryCount)
	v.SetDefault("ai.enabled", d.AI.Enabled)
	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseUrl", "")
	v.SetDefault("verifier.enabled", d.Verifier.Enabled)
	v.SetDefault("verifier.engine", d.Verifier.Engine)
	v.SetDefault("verifier.maxDiffChars", d.Verifier.MaxDiffChars)
	v.SetDefault("verifier.majorFileCount", d.Verifier.MajorFileCount)
	v.SetDefault("verifier.ignoreWords", []string{})
	v.SetDefault("github.clientId", d.GitHub.ClientID)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		_ = v.BindEnv(key, env)
	}
	return v
}

func findConfigFile(opts LoadOptions) (string, error) {
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return "", domainErrors.ErrConfigRead.WithError(err).WithContext("path", opts.Path)
		}
		return opts.Path, nil
	}

	for _, dir := range searchDirs(opts.WorkDir, opts.RepoRoot, opts.HomeDir) {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}
	return "", nil
}

// findPackageJSONSection returns the "commitformat" object of the nearest
// package.json, or nil.
func findPackageJSONSection(opts LoadOptions) (string, map[string]interface{}) {
	for _, dir := range searchDirs(opts.WorkDir, opts.RepoRoot) {
		pkgPath := filepath.Join(dir, "package.json")
		if _, err := os.Stat(pkgPath); err != nil {
			continue
		}
		pkg := viper.New()
		pkg.SetConfigFile(pkgPath)
		if err := pkg.ReadInConfig(); err != nil {
			continue
		}
		if section := pkg.GetStringMap(packageJSONKey); len(section) > 0 {
			return pkgPath, section
		}
	}
	return "", nil
}

func searchDirs(dirs ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range dirs {
		if d == "" {
			continue
		}
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func normalize(cfg *Config) {
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Verifier.Engine = strings.ToLower(strings.TrimSpace(cfg.Verifier.Engine))
	if cfg.AI.APIKey == "" {
		if env, ok := providerKeyEnv[cfg.AI.Provider]; ok {
			cfg.AI.APIKey = os.Getenv(env)
		}
	}
	if cfg.Scopes == nil {
		cfg.Scopes = []string{}
	}
}
