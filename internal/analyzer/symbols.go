package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/thomas-vilte/commitformat/internal/models"
)

// symbolRule matches one kind of declaration. The name is always group 1.
type symbolRule struct {
	re  *regexp.Regexp
	typ models.SymbolType
	// nested overrides typ when the line is indented, e.g. def inside a class
	nested models.SymbolType
	// topLevel rejects indented lines
	topLevel bool
	public   func(line, name string) bool
}

func rule(pattern string, typ models.SymbolType) symbolRule {
	return symbolRule{re: regexp.MustCompile(pattern), typ: typ}
}

func (r symbolRule) nestedAs(t models.SymbolType) symbolRule {
	r.nested = t
	return r
}

func (r symbolRule) onlyTopLevel() symbolRule {
	r.topLevel = true
	return r
}

func (r symbolRule) withPublic(fn func(line, name string) bool) symbolRule {
	r.public = fn
	return r
}

var (
	exportedName = func(_, name string) bool {
		return name != "" && unicode.IsUpper([]rune(name)[0])
	}
	hasExport = func(line, _ string) bool {
		return strings.Contains(line, "export ")
	}
	hasPublic = func(line, _ string) bool {
		return strings.Contains(line, "public ")
	}
	hasPub = func(line, _ string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "pub ")
	}
	notUnderscored = func(_, name string) bool {
		return !strings.HasPrefix(name, "_")
	}
	notPrivate = func(line, _ string) bool {
		return !strings.Contains(line, "private ") && !strings.Contains(line, "protected ")
	}
	notStatic = func(line, _ string) bool {
		return !strings.HasPrefix(strings.TrimSpace(line), "static ")
	}
)

var goRules = []symbolRule{
	rule(`^func\s+\([^)]*\)\s*([A-Za-z_]\w*)\s*[\[(]`, models.SymbolMethod).withPublic(exportedName),
	rule(`^func\s+([A-Za-z_]\w*)\s*[\[(]`, models.SymbolFunction).withPublic(exportedName),
	rule(`^\s*type\s+([A-Za-z_]\w*)\s*(?:\[[^\]]*\]\s*)?interface\b`, models.SymbolInterface).withPublic(exportedName),
	rule(`^\s*type\s+([A-Za-z_]\w*)\s*(?:\[[^\]]*\]\s*)?struct\b`, models.SymbolClass).withPublic(exportedName),
	rule(`^\s*type\s+([A-Za-z_]\w*)\b`, models.SymbolOther).withPublic(exportedName),
	// entries of a grouped type ( ... ) block
	rule(`^\s+([A-Za-z_]\w*)\s+(?:\[[^\]]*\]\s*)?interface\s*\{`, models.SymbolInterface).withPublic(exportedName),
	rule(`^\s+([A-Za-z_]\w*)\s+(?:\[[^\]]*\]\s*)?struct\s*\{`, models.SymbolClass).withPublic(exportedName),
	rule(`^(?:var|const)\s+([A-Za-z_]\w*)\b`, models.SymbolVariable).onlyTopLevel().withPublic(exportedName),
}

var jsRules = []symbolRule{
	rule(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*[<(]`, models.SymbolFunction).withPublic(hasExport),
	rule(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`, models.SymbolClass).withPublic(hasExport),
	rule(`^\s*(?:export\s+)?(?:declare\s+)?interface\s+([A-Za-z_$][\w$]*)`, models.SymbolInterface).withPublic(hasExport),
	rule(`^\s*(?:export\s+)?(?:declare\s+)?(?:const\s+)?(?:type|enum)\s+([A-Za-z_$][\w$]*)\s*[=<{]`, models.SymbolOther).withPublic(hasExport),
	rule(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*(?::[^=]+)?=>|[A-Za-z_$][\w$]*\s*=>)`, models.SymbolFunction).withPublic(hasExport),
	rule(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)`, models.SymbolVariable).onlyTopLevel().withPublic(hasExport),
	rule(`^\s+(?:(?:public|private|protected|static|async|readonly|override|abstract|get|set)\s+)*([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\([^)]*\)\s*(?::\s*[^{;]+)?\{\s*$`, models.SymbolMethod).withPublic(notPrivate),
}

var pythonRules = []symbolRule{
	rule(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`, models.SymbolFunction).nestedAs(models.SymbolMethod).withPublic(notUnderscored),
	rule(`^\s*class\s+([A-Za-z_]\w*)\s*[(:]`, models.SymbolClass).withPublic(notUnderscored),
	rule(`^([A-Z][A-Z0-9_]*)\s*(?::[^=]+)?=[^=]`, models.SymbolVariable).onlyTopLevel(),
}

var jvmRules = []symbolRule{
	rule(`^\s*(?:(?:public|private|protected|internal|static|final|abstract|sealed|partial|data|open|inner)\s+)*(?:class|record|object)\s+([A-Za-z_]\w*)`, models.SymbolClass).withPublic(hasPublic),
	rule(`^\s*(?:(?:public|private|protected|internal|static|sealed|partial|fun)\s+)*interface\s+([A-Za-z_]\w*)`, models.SymbolInterface).withPublic(hasPublic),
	rule(`^\s*(?:(?:public|private|protected|internal|static)\s+)*enum\s+(?:class\s+)?([A-Za-z_]\w*)`, models.SymbolOther).withPublic(hasPublic),
	rule(`^\s*(?:(?:public|private|protected|internal|override|open|suspend|inline|operator|abstract)\s+)*fun\s+(?:<[^>]+>\s*)?(?:[\w.]+\.)?([A-Za-z_]\w*)\s*\(`, models.SymbolFunction).nestedAs(models.SymbolMethod).withPublic(notPrivate),
	rule(`^\s*(?:(?:public|private|protected|internal|static|final|abstract|override|virtual|async|synchronized|native|sealed|extern|unsafe|new)\s+)+[\w<>\[\],.?]+(?:\s*<[^>]*>)?\s+([A-Za-z_]\w*)\s*\(`, models.SymbolMethod).withPublic(hasPublic),
}

var rustRules = []symbolRule{
	rule(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:const\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+([A-Za-z_]\w*)`, models.SymbolFunction).nestedAs(models.SymbolMethod).withPublic(hasPub),
	rule(`^\s*(?:pub(?:\([^)]*\))?\s+)?struct\s+([A-Za-z_]\w*)`, models.SymbolClass).withPublic(hasPub),
	rule(`^\s*(?:pub(?:\([^)]*\))?\s+)?trait\s+([A-Za-z_]\w*)`, models.SymbolInterface).withPublic(hasPub),
	rule(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:enum|type|union)\s+([A-Za-z_]\w*)`, models.SymbolOther).withPublic(hasPub),
	rule(`^(?:pub(?:\([^)]*\))?\s+)?(?:const|static)\s+(?:mut\s+)?([A-Za-z_]\w*)\s*:`, models.SymbolVariable).onlyTopLevel().withPublic(hasPub),
}

var rubyRules = []symbolRule{
	rule(`^\s*def\s+(?:self\.)?([A-Za-z_]\w*[?!]?)`, models.SymbolMethod).withPublic(notUnderscored),
	rule(`^\s*class\s+([A-Z]\w*)`, models.SymbolClass),
	rule(`^\s*module\s+([A-Z]\w*)`, models.SymbolOther),
	rule(`^([A-Z][A-Z0-9_]*)\s*=[^=]`, models.SymbolVariable).onlyTopLevel(),
}

var phpRules = []symbolRule{
	rule(`^\s*(?:(?:abstract|final|readonly)\s+)*class\s+([A-Za-z_]\w*)`, models.SymbolClass),
	rule(`^\s*(?:interface|trait)\s+([A-Za-z_]\w*)`, models.SymbolInterface),
	rule(`^\s*enum\s+([A-Za-z_]\w*)`, models.SymbolOther),
	rule(`^\s*(?:(?:public|private|protected|static|abstract|final)\s+)*function\s+&?([A-Za-z_]\w*)\s*\(`, models.SymbolFunction).nestedAs(models.SymbolMethod).withPublic(notPrivate),
}

var cRules = []symbolRule{
	rule(`^(?:typedef\s+)?(?:struct|class|union)\s+([A-Za-z_]\w*)\s*(?:[:{]|$)`, models.SymbolClass),
	rule(`^(?:typedef\s+)?enum\s+(?:class\s+)?([A-Za-z_]\w*)`, models.SymbolOther),
	rule(`^(?:(?:static|inline|extern|virtual|constexpr)\s+)*[A-Za-z_][\w:<>,]*(?:\s+[A-Za-z_][\w:<>,]*)*[\s*&]+(?:[A-Za-z_]\w*::)?([A-Za-z_]\w*)\s*\([^;]*$`, models.SymbolFunction).onlyTopLevel().withPublic(notStatic),
	rule(`^#define\s+([A-Za-z_]\w*)`, models.SymbolVariable),
}

// genericRules cover files in languages without a dedicated table.
var genericRules = []symbolRule{
	rule(`^\s*(?:export\s+|pub\s+|public\s+)?(?:async\s+)?(?:func|function|def|fn|fun|sub|proc)\s+([A-Za-z_]\w*)`, models.SymbolFunction),
	rule(`^\s*(?:export\s+|pub\s+|public\s+)?(?:class|struct|object)\s+([A-Za-z_]\w*)`, models.SymbolClass),
	rule(`^\s*(?:export\s+|pub\s+|public\s+)?(?:interface|trait|protocol)\s+([A-Za-z_]\w*)`, models.SymbolInterface),
}

var rulesByLanguage = map[string][]symbolRule{
	"go":         goRules,
	"javascript": jsRules,
	"typescript": jsRules,
	"python":     pythonRules,
	"java":       jvmRules,
	"kotlin":     jvmRules,
	"csharp":     jvmRules,
	"scala":      jvmRules,
	"rust":       rustRules,
	"ruby":       rubyRules,
	"php":        phpRules,
	"c":          cRules,
	"cpp":        cRules,
	"swift":      genericRules,
}

// keywords that declaration-shaped patterns can capture by accident
var notSymbols = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true, "return": true,
	"else": true, "function": true, "new": true, "typeof": true, "sizeof": true, "do": true,
	"try": true, "with": true, "elif": true, "match": true, "case": true, "await": true,
	"constructor": true, "super": true, "this": true, "self": true, "delete": true, "throw": true,
}

// extractSymbol returns the declaration found on line, if any.
func extractSymbol(language, line string) (models.ModifiedSymbol, bool) {
	if isCommentLine(line) {
		return models.ModifiedSymbol{}, false
	}

	rules, ok := rulesByLanguage[language]
	if !ok {
		rules = genericRules
	}
	indented := len(line) > 0 && (line[0] == ' ' || line[0] == '\t')

	for _, r := range rules {
		if r.topLevel && indented {
			continue
		}
		m := r.re.FindStringSubmatch(line)
		if m == nil || m[1] == "" || notSymbols[m[1]] {
			continue
		}

		sym := models.ModifiedSymbol{Name: m[1], Type: r.typ, Public: true}
		if indented && r.nested != "" {
			sym.Type = r.nested
		}
		if r.public != nil {
			sym.Public = r.public(line, m[1])
		}
		return sym, true
	}
	return models.ModifiedSymbol{}, false
}

func isCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	for _, prefix := range []string{"//", "/*", "*", "#!", "<!--", `"""`, "'''", "--"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	// '#' opens a comment everywhere except C preprocessor directives
	return strings.HasPrefix(t, "#") && !strings.HasPrefix(t, "#define")
}

// symbolCollector merges declarations of one file, keeping first-seen order.
type symbolCollector struct {
	file    string
	order   []string
	symbols map[string]*models.ModifiedSymbol
	// sides records on which diff side a declaration line was changed
	sides   map[string][2]bool
	// bodies holds declarations whose bodies changed around unchanged headers
	bodies  map[string]bool
}

func newSymbolCollector(file string) *symbolCollector {
	return &symbolCollector{
		file:    file,
		symbols: make(map[string]*models.ModifiedSymbol),
		sides:   make(map[string][2]bool),
		bodies:  make(map[string]bool),
	}
}

func (c *symbolCollector) track(sym models.ModifiedSymbol) {
	if _, ok := c.symbols[sym.Name]; !ok {
		sym.File = c.file
		c.symbols[sym.Name] = &sym
		c.order = append(c.order, sym.Name)
	} else if sym.Public {
		c.symbols[sym.Name].Public = true
	}
}

func (c *symbolCollector) add(sym models.ModifiedSymbol, added bool) {
	c.track(sym)

	sides := c.sides[sym.Name]
	if added {
		sides[0] = true
	} else {
		sides[1] = true
	}
	c.sides[sym.Name] = sides
}

func (c *symbolCollector) addBody(sym models.ModifiedSymbol) {
	c.track(sym)
	c.bodies[sym.Name] = true
}

// scanHunk records the declarations a hunk touches, in diff order. A changed
// declaration line counts on its own side. Other changed lines count for the
// nearest declaration above them that the hunk shows unchanged, either on a
// context line or in the hunk header.
func (c *symbolCollector) scanHunk(language string, h hunk) {
	enclosing, ok := sectionSymbol(language, h.section)

	for _, line := range h.lines {
		sym, isDecl := extractSymbol(language, line.text)

		switch {
		case line.op == ' ' && isDecl:
			enclosing, ok = sym, opensBody(sym, line.text)
		case line.op == ' ':
			if closesScope(line.text) {
				ok = false
			}
		case isDecl:
			c.add(sym, line.op == '+')
			// lines below a changed declaration belong to it
			ok = false
		case !ok || strings.TrimSpace(line.text) == "" || isCommentLine(line.text):
		default:
			c.addBody(enclosing)
		}
	}
}

// sectionSymbol reads the declaration git names after the hunk range.
func sectionSymbol(language, section string) (models.ModifiedSymbol, bool) {
	if strings.TrimSpace(section) == "" {
		return models.ModifiedSymbol{}, false
	}
	sym, ok := extractSymbol(language, section)
	if !ok {
		sym, ok = extractSymbol(language, strings.TrimLeft(section, " \t"))
	}
	return sym, ok && opensBody(sym, section)
}

// opensBody reports whether a declaration line leaves a body open below it.
// One-line declarations like "func noop() {}" or "const x = 1" do not.
func opensBody(sym models.ModifiedSymbol, line string) bool {
	t := strings.TrimSpace(line)
	if strings.HasSuffix(t, "}") || strings.HasSuffix(t, ";") {
		return false
	}
	if sym.Type == models.SymbolVariable {
		return strings.HasSuffix(t, "{") || strings.HasSuffix(t, "(") || strings.HasSuffix(t, "[")
	}
	return true
}

// closesScope reports whether an unchanged line sits at column zero, which
// ends the declaration above it. Closing parens of multi-line signatures and
// blank lines do not.
func closesScope(line string) bool {
	if strings.TrimSpace(line) == "" || isCommentLine(line) {
		return false
	}
	return line[0] != ' ' && line[0] != '\t' && line[0] != ')'
}

func (c *symbolCollector) result() []models.ModifiedSymbol {
	out := make([]models.ModifiedSymbol, 0, len(c.order))
	for _, name := range c.order {
		sym := *c.symbols[name]
		switch sides := c.sides[name]; {
		case c.bodies[name], sides[0] && sides[1]:
			sym.Change = models.SymbolModified
		case sides[0]:
			sym.Change = models.SymbolAdded
		default:
			sym.Change = models.SymbolRemoved
		}
		out = append(out, sym)
	}
	return out
}
