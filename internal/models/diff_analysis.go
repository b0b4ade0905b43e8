package models

type (
	// ChangeType is a change-pattern label describing the nature of a diff.
	ChangeType string

	// SymbolType is the syntactic category of a modified symbol.
	SymbolType string

	// SymbolChange tells on which side of the diff a symbol was declared.
	SymbolChange string

	FileStatus string

	FileKind string
)

const (
	ChangeFeature  ChangeType = "feature"
	ChangeFix      ChangeType = "fix"
	ChangeRefactor ChangeType = "refactor"
	ChangeDocs     ChangeType = "docs"
	ChangeTest     ChangeType = "test"
	ChangeChore    ChangeType = "chore"
	ChangeUnknown  ChangeType = "unknown"
)

const (
	SymbolFunction  SymbolType = "function"
	SymbolClass     SymbolType = "class"
	SymbolMethod    SymbolType = "method"
	SymbolVariable  SymbolType = "variable"
	SymbolInterface SymbolType = "interface"
	SymbolOther     SymbolType = "other"
)

const (
	SymbolAdded    SymbolChange = "added"
	SymbolRemoved  SymbolChange = "removed"
	SymbolModified SymbolChange = "modified"
)

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

const (
	KindCode   FileKind = "code"
	KindTest   FileKind = "test"
	KindDocs   FileKind = "docs"
	KindConfig FileKind = "config"
)

type (
	DiffSummary struct {
		FilesChanged int `json:"filesChanged" yaml:"filesChanged"`
		Insertions   int `json:"insertions" yaml:"insertions"`
		Deletions    int `json:"deletions" yaml:"deletions"`
	}

	// ChangePattern is one ranked classification of a diff.
	ChangePattern struct {
		Type       ChangeType `json:"type" yaml:"type"`
		Confidence float64    `json:"confidence" yaml:"confidence"`
	}

	// ModifiedSymbol is a named code entity whose declaration appears on an
	// added or removed line. Identity is the literal Name; the remaining
	// fields are hints for the verifier.
	ModifiedSymbol struct {
		Name   string       `json:"name" yaml:"name"`
		Type   SymbolType   `json:"type" yaml:"type"`
		File   string       `json:"file,omitempty" yaml:"file,omitempty"`
		Change SymbolChange `json:"change,omitempty" yaml:"change,omitempty"`
		Public bool         `json:"public,omitempty" yaml:"public,omitempty"`
	}

	FileChange struct {
		Path       string     `json:"path" yaml:"path"`
		OldPath    string     `json:"oldPath,omitempty" yaml:"oldPath,omitempty"`
		Status     FileStatus `json:"status" yaml:"status"`
		Insertions int        `json:"insertions" yaml:"insertions"`
		Deletions  int        `json:"deletions" yaml:"deletions"`
		Kind       FileKind   `json:"kind" yaml:"kind"`
		Language   string     `json:"language,omitempty" yaml:"language,omitempty"`
	}

	// DiffAnalysis is the structured summary of one diff. It is built once per
	// run and treated as read-only afterwards.
	DiffAnalysis struct {
		Summary         DiffSummary      `json:"summary" yaml:"summary"`
		ChangePatterns  []ChangePattern  `json:"changePatterns" yaml:"changePatterns"`
		ModifiedSymbols []ModifiedSymbol `json:"modifiedSymbols" yaml:"modifiedSymbols"`
		Files           []FileChange     `json:"files" yaml:"files"`
	}
)

// Churn is the number of changed lines in the file.
func (f FileChange) Churn() int {
	return f.Insertions + f.Deletions
}

// PrimaryPattern returns changePatterns[0], or unknown when there is none.
func (a *DiffAnalysis) PrimaryPattern() ChangePattern {
	if a == nil || len(a.ChangePatterns) == 0 {
		return ChangePattern{Type: ChangeUnknown}
	}
	return a.ChangePatterns[0]
}

// PatternScore returns the confidence assigned to t, or 0.
func (a *DiffAnalysis) PatternScore(t ChangeType) float64 {
	if a == nil {
		return 0
	}
	for _, p := range a.ChangePatterns {
		if p.Type == t {
			return p.Confidence
		}
	}
	return 0
}

// SymbolNames returns the distinct symbol names in first-seen order.
func (a *DiffAnalysis) SymbolNames() []string {
	if a == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(a.ModifiedSymbols))
	names := make([]string, 0, len(a.ModifiedSymbols))
	for _, s := range a.ModifiedSymbols {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		names = append(names, s.Name)
	}
	return names
}

func (a *DiffAnalysis) HasSymbol(name string) bool {
	if a == nil {
		return false
	}
	for _, s := range a.ModifiedSymbols {
		if s.Name == name {
			return true
		}
	}
	return false
}

// File returns the file change recorded for path.
func (a *DiffAnalysis) File(path string) (FileChange, bool) {
	if a == nil {
		return FileChange{}, false
	}
	for _, f := range a.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileChange{}, false
}
