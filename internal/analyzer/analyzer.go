// Package analyzer turns unified diff text into a structured DiffAnalysis:
// per-file change counts, declared symbols touched by the diff and a ranked
// classification of the change.
package analyzer

import (
	"github.com/thomas-vilte/commitformat/internal/models"
)

// Analyzer is stateless; one value can serve concurrent runs.
type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Analyze(diffText string) *models.DiffAnalysis {
	return Analyze(diffText)
}

type fileEntry struct {
	change  models.FileChange
	symbols *symbolCollector
	raw     []*rawFile
}

// Analyze never fails. Sections that cannot be parsed are skipped, and input
// without any usable section yields an empty analysis classified as unknown.
func Analyze(diffText string) *models.DiffAnalysis {
	var (
		entries []*fileEntry
		byPath  = make(map[string]*fileEntry)
	)

	for _, chunk := range splitChunks(diffText) {
		f, ok := parseChunk(chunk)
		if !ok {
			continue
		}

		status := fileStatus(f)
		path := filePath(f, status)
		if path == "" || path == devNull {
			continue
		}

		// staged and unstaged diffs of the same file arrive as two sections
		e, seen := byPath[path]
		if !seen {
			e = &fileEntry{
				change: models.FileChange{
					Path:     path,
					Status:   status,
					Kind:     classifyFile(path),
					Language: detectLanguage(path),
				},
				symbols: newSymbolCollector(path),
			}
			if status == models.FileRenamed {
				e.change.OldPath = f.oldPath
			}
			byPath[path] = e
			entries = append(entries, e)
		}
		e.raw = append(e.raw, f)

		for _, line := range f.lines {
			if line.added {
				e.change.Insertions++
			} else {
				e.change.Deletions++
			}
		}
		if e.change.Kind == models.KindCode || e.change.Kind == models.KindTest {
			for _, h := range f.hunks {
				e.symbols.scanHunk(e.change.Language, h)
			}
		}
	}

	analysis := &models.DiffAnalysis{
		ModifiedSymbols: []models.ModifiedSymbol{},
		Files:           make([]models.FileChange, 0, len(entries)),
	}
	sig := newSignals()

	for _, e := range entries {
		analysis.Files = append(analysis.Files, e.change)
		analysis.Summary.Insertions += e.change.Insertions
		analysis.Summary.Deletions += e.change.Deletions
		analysis.ModifiedSymbols = append(analysis.ModifiedSymbols, e.symbols.result()...)

		merged := &rawFile{}
		for _, f := range e.raw {
			merged.lines = append(merged.lines, f.lines...)
		}
		sig.observeFile(e.change, merged, e.symbols)
	}

	analysis.Summary.FilesChanged = len(entries)
	analysis.ChangePatterns = classify(sig)

	return analysis
}
