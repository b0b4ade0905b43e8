package verifier

import (
	"path"
	"regexp"
	"strings"

	"github.com/thomas-vilte/commitformat/internal/models"
)

var (
	backtickRegex   = regexp.MustCompile("`([^`\n]+)`")
	// identifier chains such as cart.computeTotal, Cart::total or Cart#total,
	// optionally followed by an empty call.
	referenceRegex  = regexp.MustCompile(`[A-Za-z_$][\w$]*(?:(?:\.|::|#)[A-Za-z_$][\w$]*)*(\(\))?`)
	identifierRegex = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

	camelCaseRegex   = regexp.MustCompile(`^[a-z][a-z0-9]*[A-Z][A-Za-z0-9]*$`)
	// a hump followed by a word of at least three letters, as in UserService
	pascalHumpRegex  = regexp.MustCompile(`[a-z0-9][A-Z][a-z0-9]{2,}`)
	trailingAcronym  = regexp.MustCompile(`[a-z0-9][A-Z]{2,}$`)
	acronymWordRegex = regexp.MustCompile(`[A-Z][A-Z][a-z]{2,}`)
	// surnames such as McDonald or DeVito read like PascalCase
	surnameRegex     = regexp.MustCompile(`^(?:Mc|Mac|De|Di|Da|Du|Le|La|Van|Von)[A-Z][a-z]+$`)
	snakeCaseRegex   = regexp.MustCompile(`^_*[A-Za-z][A-Za-z0-9]*(?:_+[A-Za-z0-9]+)+_*$`)
	chainSepRegex    = regexp.MustCompile(`\.|::|#`)
)

// defaultIgnoreWords are product and platform names written in code-like case.
var defaultIgnoreWords = []string{
	"GitHub", "GitLab", "BitBucket", "JavaScript", "TypeScript", "CoffeeScript",
	"OAuth", "iOS", "iPadOS", "macOS", "iPhone", "iPad", "eBay", "jQuery",
	"PostgreSQL", "MySQL", "MariaDB", "MongoDB", "GraphQL", "NoSQL", "SQLite",
	"OpenAI", "ChatGPT", "YouTube", "LinkedIn", "PowerShell", "WordPress",
	"PayPal", "DevOps", "VSCode", "IntelliJ", "PyPI", "NuGet", "DynamoDB",
	"CloudFront", "CloudFormation", "FastAPI", "NestJS", "NextJS", "NodeJS",
	"OpenAPI", "WebSocket", "WebSockets", "TailwindCSS", "DockerHub",
}

// referenceSet is the ordered set of code entities a commit message names.
type referenceSet struct {
	names []string
	seen  map[string]bool
}

func (r *referenceSet) add(name string) {
	if r.seen[name] {
		return
	}
	r.seen[name] = true
	r.names = append(r.names, name)
}

func (r *referenceSet) has(name string) bool { return r.seen[name] }

// entityExtractor finds the code entities referenced by commit text.
type entityExtractor struct {
	symbols map[string]bool
	// excluded holds file stems, path segments and ignore words.
	excluded map[string]bool
}

func newEntityExtractor(analysis *models.DiffAnalysis, ignore map[string]bool) *entityExtractor {
	e := &entityExtractor{
		symbols:  make(map[string]bool),
		excluded: make(map[string]bool),
	}
	for _, name := range analysis.SymbolNames() {
		e.symbols[name] = true
	}
	for word := range ignore {
		e.excluded[word] = true
	}
	for _, f := range analysis.Files {
		for _, p := range []string{f.Path, f.OldPath} {
			if p == "" {
				continue
			}
			for _, seg := range strings.Split(p, "/") {
				e.excluded[seg] = true
				e.excluded[strings.TrimSuffix(seg, path.Ext(seg))] = true
			}
		}
	}
	return e
}

// isExcluded reports whether a name is a file, path or brand word. Modified
// symbols are never excluded.
func (e *entityExtractor) isExcluded(name string) bool {
	return !e.symbols[name] && e.excluded[name]
}

// extract returns the entities of text in order of first appearance.
func (e *entityExtractor) extract(text string) *referenceSet {
	refs := &referenceSet{seen: make(map[string]bool)}

	// backtick spans are code by construction
	for _, m := range backtickRegex.FindAllStringSubmatch(text, -1) {
		if name, ok := spanName(m[1]); ok && !e.isExcluded(name) {
			refs.add(name)
		}
	}
	text = backtickRegex.ReplaceAllString(text, " ")

	for _, m := range referenceRegex.FindAllStringSubmatch(text, -1) {
		chain := strings.TrimSuffix(m[0], "()")
		call := m[1] != ""
		parts := chainSepRegex.Split(chain, -1)
		last := parts[len(parts)-1]

		// qualifiers count only when they are modified symbols themselves
		for _, q := range parts[:len(parts)-1] {
			if e.symbols[q] {
				refs.add(q)
			}
		}
		if e.isExcluded(last) {
			continue
		}
		if call || e.symbols[last] || isCodeLike(last) {
			refs.add(last)
		}
	}
	return refs
}

// spanName reduces a backtick span like `cart.computeTotal(items)` to computeTotal.
func spanName(span string) (string, bool) {
	span = strings.TrimSpace(span)
	if i := strings.IndexByte(span, '('); i >= 0 {
		span = span[:i]
	}
	parts := chainSepRegex.Split(span, -1)
	name := parts[len(parts)-1]
	return name, identifierRegex.MatchString(name)
}

// isCodeLike reports whether a word is written the way identifiers are:
// camelCase, PascalCase with several humps, or snake_case. Short humps as in
// PhD or LaTeX and surname prefixes do not make a word PascalCase.
func isCodeLike(word string) bool {
	switch {
	case camelCaseRegex.MatchString(word):
		return true
	case snakeCaseRegex.MatchString(word):
		return true
	case word[0] < 'A' || word[0] > 'Z':
		return false
	case surnameRegex.MatchString(word):
		return false
	}
	return pascalHumpRegex.MatchString(word) || trailingAcronym.MatchString(word) || acronymWordRegex.MatchString(word)
}

// containsToken reports whether name occurs in text as a whole identifier.
func containsToken(text, name string) bool {
	return tokenIndex(text, name) >= 0
}

// tokenIndex returns the byte offset of the first whole-identifier occurrence
// of name in text, or -1.
func tokenIndex(text, name string) int {
	if name == "" {
		return -1
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], name)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(name)
		if (start == 0 || !isIdentByte(text[start-1])) && (end == len(text) || !isIdentByte(text[end])) {
			return start
		}
		offset = start + 1
	}
	return -1
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
