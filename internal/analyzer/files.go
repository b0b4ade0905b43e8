package analyzer

import (
	"path"
	"strings"

	"github.com/thomas-vilte/commitformat/internal/models"
)

var (
	docExtensions = map[string]bool{
		".md": true, ".mdx": true, ".rst": true, ".adoc": true, ".txt": true,
	}

	docBaseNames = []string{"readme", "changelog", "contributing", "license", "authors", "notice", "code_of_conduct"}

	configExtensions = map[string]bool{
		".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
		".cfg": true, ".conf": true, ".lock": true, ".xml": true, ".properties": true,
		".gradle": true, ".mod": true, ".sum": true, ".env": true,
	}

	configBaseNames = map[string]bool{
		"dockerfile": true, "makefile": true, "justfile": true, "go.mod": true, "go.sum": true,
		"package.json": true, "package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
		"cargo.toml": true, "cargo.lock": true, "gemfile": true, "gemfile.lock": true,
		"pom.xml": true, "build.gradle": true, "requirements.txt": true, "pyproject.toml": true,
		"setup.py": true, "setup.cfg": true, "tsconfig.json": true, "composer.json": true,
		".gitignore": true, ".gitattributes": true, ".editorconfig": true, ".dockerignore": true,
		".npmrc": true, ".nvmrc": true, ".prettierrc": true, ".eslintrc": true,
	}

	configDirs = []string{".github/", ".circleci/", ".gitlab/", ".husky/", ".vscode/", ".devcontainer/"}

	languages = map[string]string{
		".go":    "go",
		".js":    "javascript",
		".jsx":   "javascript",
		".mjs":   "javascript",
		".cjs":   "javascript",
		".ts":    "typescript",
		".tsx":   "typescript",
		".py":    "python",
		".java":  "java",
		".kt":    "kotlin",
		".kts":   "kotlin",
		".cs":    "csharp",
		".rs":    "rust",
		".rb":    "ruby",
		".php":   "php",
		".c":     "c",
		".h":     "c",
		".cc":    "cpp",
		".cpp":   "cpp",
		".hpp":   "cpp",
		".swift": "swift",
		".scala": "scala",
	}
)

// classifyFile decides the kind of a file from its path alone.
func classifyFile(p string) models.FileKind {
	lower := strings.ToLower(p)
	base := path.Base(lower)
	ext := path.Ext(base)

	if isTestPath(lower, base) {
		return models.KindTest
	}

	if docExtensions[ext] && !configBaseNames[base] {
		return models.KindDocs
	}
	if strings.HasPrefix(lower, "docs/") || strings.Contains(lower, "/docs/") {
		return models.KindDocs
	}
	for _, name := range docBaseNames {
		if strings.TrimSuffix(base, ext) == name {
			return models.KindDocs
		}
	}

	if configBaseNames[base] || configExtensions[ext] {
		return models.KindConfig
	}
	for _, dir := range configDirs {
		if strings.HasPrefix(lower, dir) {
			return models.KindConfig
		}
	}
	if strings.HasPrefix(base, ".") && ext == base {
		// dotfiles such as .prettierrc.local
		return models.KindConfig
	}

	return models.KindCode
}

func isTestPath(lower, base string) bool {
	switch {
	case strings.Contains(base, "_test."),
		strings.Contains(base, ".test."),
		strings.Contains(base, ".spec."),
		strings.HasPrefix(base, "test_"),
		strings.HasSuffix(strings.TrimSuffix(base, path.Ext(base)), "_spec"):
		return true
	}
	for _, dir := range []string{"tests/", "__tests__/", "spec/", "testdata/"} {
		if strings.HasPrefix(lower, dir) || strings.Contains(lower, "/"+dir) {
			return true
		}
	}
	return false
}

func detectLanguage(p string) string {
	return languages[strings.ToLower(path.Ext(p))]
}

// fileStatus reads the status from the header shape of a parsed file.
func fileStatus(f *rawFile) models.FileStatus {
	switch {
	case f.oldPath == devNull || f.hasHeader("new file mode"):
		return models.FileAdded
	case f.newPath == devNull || f.hasHeader("deleted file mode"):
		return models.FileDeleted
	case f.hasHeader("rename from") || f.hasHeader("rename to"),
		f.oldPath != "" && f.newPath != "" && f.oldPath != f.newPath:
		return models.FileRenamed
	default:
		return models.FileModified
	}
}

// filePath is the path a file is known by after the change.
func filePath(f *rawFile, status models.FileStatus) string {
	if status == models.FileDeleted || f.newPath == "" || f.newPath == devNull {
		return f.oldPath
	}
	return f.newPath
}
