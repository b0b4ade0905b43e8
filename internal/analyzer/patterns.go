package analyzer

import (
	"math"
	"regexp"
	"sort"

	"github.com/thomas-vilte/commitformat/internal/models"
)

var (
	fixPathRegex  = regexp.MustCompile(`(?i)(^|[/_.-])(fix|fixes|bug|bugs|bugfix|hotfix|patch|issue)([/_.-]|$)`)
	fixTokenRegex = regexp.MustCompile(`(?i)\b(fix(es|ed)?|bug|nil|null|none|undefined|guard|panic|overflow|race|leak|crash|off-by-one|errors?\.Is|err\s*!=\s*nil)\b`)
)

// specificity breaks ties between equal scores; higher wins.
var specificity = map[models.ChangeType]int{
	models.ChangeTest:     6,
	models.ChangeDocs:     5,
	models.ChangeFix:      4,
	models.ChangeFeature:  3,
	models.ChangeRefactor: 2,
	models.ChangeChore:    1,
	models.ChangeUnknown:  0,
}

// signals are the facts the scoring table reads.
type signals struct {
	files int
	kinds map[models.FileKind]int

	codeInsertions int
	codeDeletions  int

	// declarations in code files, split by diff side
	plusNames  map[string]bool
	minusNames map[string]bool

	addedSymbols   int
	removedSymbols int

	newCodeFiles int
	pureRenames  int
	fixHint      bool
}

func newSignals() *signals {
	return &signals{
		kinds:      make(map[models.FileKind]int),
		plusNames:  make(map[string]bool),
		minusNames: make(map[string]bool),
	}
}

func (s *signals) observeFile(fc models.FileChange, f *rawFile, c *symbolCollector) {
	s.files++
	s.kinds[fc.Kind]++

	if fc.Status == models.FileRenamed && fc.Churn() == 0 {
		s.pureRenames++
	}
	if fc.Kind != models.KindCode {
		return
	}

	s.codeInsertions += fc.Insertions
	s.codeDeletions += fc.Deletions
	if fc.Status == models.FileAdded {
		s.newCodeFiles++
	}
	if fixPathRegex.MatchString(fc.Path) {
		s.fixHint = true
	}
	for _, line := range f.lines {
		if s.fixHint {
			break
		}
		s.fixHint = fixTokenRegex.MatchString(line.text)
	}

	for _, sym := range c.result() {
		sides := c.sides[sym.Name]
		if sides[0] {
			s.plusNames[sym.Name] = true
		}
		if sides[1] {
			s.minusNames[sym.Name] = true
		}
		switch sym.Change {
		case models.SymbolAdded:
			s.addedSymbols++
		case models.SymbolRemoved:
			s.removedSymbols++
		}
	}
}

// only reports whether every file is of one of the given kinds.
func (s *signals) only(kinds ...models.FileKind) bool {
	n := 0
	for _, k := range kinds {
		n += s.kinds[k]
	}
	return s.files > 0 && n == s.files
}

func sameNames(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if !b[name] {
			return false
		}
	}
	return true
}

// within reports whether a and b differ by at most pct of the larger one.
func within(a, b int, pct float64) bool {
	hi := math.Max(float64(a), float64(b))
	if hi == 0 {
		return true
	}
	return math.Abs(float64(a-b))/hi <= pct
}

// classify scores every label and ranks the ones that fired.
func classify(s *signals) []models.ChangePattern {
	if s.files == 0 {
		return []models.ChangePattern{{Type: models.ChangeUnknown, Confidence: 0}}
	}

	scores := make(map[models.ChangeType]float64)
	bump := func(t models.ChangeType, v float64) {
		if v > scores[t] {
			scores[t] = v
		}
	}

	switch {
	case s.only(models.KindDocs):
		bump(models.ChangeDocs, 0.95)
	case s.kinds[models.KindDocs] > 0:
		bump(models.ChangeDocs, 0.3)
	}

	switch {
	case s.only(models.KindTest):
		bump(models.ChangeTest, 0.95)
	case s.kinds[models.KindTest] > 0 && s.only(models.KindTest, models.KindDocs):
		bump(models.ChangeTest, 0.8)
	case s.kinds[models.KindTest] > 0:
		bump(models.ChangeTest, 0.3)
	}

	switch {
	case s.only(models.KindConfig):
		bump(models.ChangeChore, 0.8)
	case s.kinds[models.KindConfig] > 0 && s.only(models.KindConfig, models.KindDocs, models.KindTest):
		bump(models.ChangeChore, 0.6)
	}

	if s.pureRenames == s.files {
		bump(models.ChangeRefactor, 0.85)
	}

	if s.kinds[models.KindCode] > 0 {
		scoreCode(s, bump)
	}

	if len(scores) == 0 {
		bump(models.ChangeChore, 0.1)
	}

	patterns := make([]models.ChangePattern, 0, len(scores))
	for t, v := range scores {
		patterns = append(patterns, models.ChangePattern{Type: t, Confidence: math.Round(v*100) / 100})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return specificity[patterns[i].Type] > specificity[patterns[j].Type]
	})
	return patterns
}

// scoreCode applies the rows of the table that look at code files.
func scoreCode(s *signals, bump func(models.ChangeType, float64)) {
	churn := s.codeInsertions + s.codeDeletions
	declared := len(s.plusNames) + len(s.minusNames)

	// new declarations only
	switch {
	case s.addedSymbols > 0 && s.removedSymbols == 0:
		bump(models.ChangeFeature, 0.85)
	case s.addedSymbols > s.removedSymbols:
		bump(models.ChangeFeature, 0.6)
	case s.newCodeFiles > 0:
		bump(models.ChangeFeature, 0.5)
	}

	// the same set of declarations on both sides, or a one-for-one exchange
	if declared > 0 {
		switch {
		case sameNames(s.plusNames, s.minusNames) && within(s.codeInsertions, s.codeDeletions, 0.2):
			bump(models.ChangeRefactor, 0.85)
		case sameNames(s.plusNames, s.minusNames):
			bump(models.ChangeRefactor, 0.8)
		case len(s.plusNames) == len(s.minusNames) && s.addedSymbols == s.removedSymbols:
			bump(models.ChangeRefactor, 0.65)
		}
	}

	// declarations dropped with nothing new in their place
	if s.removedSymbols > 0 && s.addedSymbols == 0 {
		bump(models.ChangeRefactor, 0.7)
	}

	// bodies changed without new or dropped declarations
	if s.addedSymbols == 0 && s.removedSymbols == 0 && churn > 0 {
		switch {
		case s.fixHint:
			bump(models.ChangeFix, 0.75)
		case churn <= 30:
			bump(models.ChangeFix, 0.5)
			bump(models.ChangeRefactor, 0.3)
		default:
			bump(models.ChangeRefactor, 0.45)
			bump(models.ChangeFix, 0.3)
		}
		if declared == 0 && s.codeInsertions >= 3*s.codeDeletions && s.codeInsertions > 20 {
			bump(models.ChangeFeature, 0.55)
		}
	}
}
