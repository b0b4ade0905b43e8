package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+\d+(?:,(\d+))? @@ ?(.*)$`)

type (
	// changedLine is one added or removed line, without its +/- marker.
	changedLine struct {
		text  string
		added bool
	}

	// hunkLine is one body line of a hunk; op is '+', '-' or ' '.
	hunkLine struct {
		text string
		op   byte
	}

	// hunk keeps the section text git prints after the @@ range, usually the
	// enclosing function, and the lines in diff order.
	hunk struct {
		section string
		lines   []hunkLine
	}

	// rawFile is the parser-independent view of one file section.
	rawFile struct {
		oldPath  string
		newPath  string
		extended []string
		lines    []changedLine
		hunks    []hunk
	}
)

// splitChunks cuts a diff into one chunk per file. "diff --git" lines always
// start a chunk; without them a "---" line followed by "+++" does, unless it
// falls inside a hunk whose line counts are not yet consumed.
func splitChunks(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var (
		chunks  []string
		current []string
		// pending lines still owed to the current hunk, per side
		oldLeft, newLeft int
	)

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n")+"\n")
		}
		current = nil
	}

	for i, line := range lines {
		inHunk := oldLeft > 0 || newLeft > 0

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			oldLeft, newLeft = 0, 0
		case !inHunk && strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ "):
			if !chunkHasGitHeaderOnly(current) {
				flush()
			}
		case strings.HasPrefix(line, "@@ "):
			if m := hunkHeaderRegex.FindStringSubmatch(line); m != nil {
				oldLeft, newLeft = hunkLen(m[1]), hunkLen(m[2])
			}
		case inHunk:
			switch {
			case strings.HasPrefix(line, "+"):
				newLeft--
			case strings.HasPrefix(line, "-"):
				oldLeft--
			case strings.HasPrefix(line, `\`):
			default:
				oldLeft--
				newLeft--
			}
			if oldLeft < 0 {
				oldLeft = 0
			}
			if newLeft < 0 {
				newLeft = 0
			}
		}

		current = append(current, line)
	}
	flush()

	return chunks
}

// chunkHasGitHeaderOnly reports whether the chunk so far is a git header
// block still waiting for its ---/+++ pair.
func chunkHasGitHeaderOnly(chunk []string) bool {
	if len(chunk) == 0 || !strings.HasPrefix(chunk[0], "diff --git ") {
		return false
	}
	for _, l := range chunk {
		if strings.HasPrefix(l, "@@ ") {
			return false
		}
	}
	return true
}

func hunkLen(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseChunk reads one file section with go-diff, falling back to a lenient
// line scanner. ok is false when no path can be recovered.
func parseChunk(chunk string) (*rawFile, bool) {
	f, err := parseWithGoDiff(chunk)
	if err != nil || (f.oldPath == "" && f.newPath == "") {
		f = parseLenient(chunk)
	}

	if f.oldPath == "" && f.newPath == "" {
		return nil, false
	}
	return f, true
}

func parseWithGoDiff(chunk string) (*rawFile, error) {
	fd, err := diff.ParseFileDiff([]byte(chunk))
	if err != nil {
		return nil, err
	}

	f := &rawFile{
		oldPath:  cleanPath(fd.OrigName),
		newPath:  cleanPath(fd.NewName),
		extended: fd.Extended,
	}
	applyGitHeader(f)

	for _, h := range fd.Hunks {
		f.hunks = append(f.hunks, hunk{section: h.Section})
		for _, line := range strings.Split(string(h.Body), "\n") {
			appendLine(f, line)
		}
	}
	return f, nil
}

func parseLenient(chunk string) *rawFile {
	f := &rawFile{}
	inHunk := false

	for _, line := range strings.Split(chunk, "\n") {
		switch {
		case !inHunk && strings.HasPrefix(line, "--- "):
			f.oldPath = cleanPath(headerPath(line[4:]))
		case !inHunk && strings.HasPrefix(line, "+++ "):
			f.newPath = cleanPath(headerPath(line[4:]))
		case strings.HasPrefix(line, "@@"):
			inHunk = true
			h := hunk{}
			if m := hunkHeaderRegex.FindStringSubmatch(line); m != nil {
				h.section = m[3]
			}
			f.hunks = append(f.hunks, h)
		case inHunk:
			appendLine(f, line)
		default:
			f.extended = append(f.extended, line)
		}
	}

	applyGitHeader(f)
	return f
}

// appendLine records a hunk body line on the current hunk, and on the
// changed lines when it is an addition or a removal.
func appendLine(f *rawFile, line string) {
	if line == "" || len(f.hunks) == 0 {
		return
	}
	op := line[0]
	switch op {
	case '+':
		f.lines = append(f.lines, changedLine{text: line[1:], added: true})
	case '-':
		f.lines = append(f.lines, changedLine{text: line[1:]})
	case ' ':
	default:
		return
	}
	h := &f.hunks[len(f.hunks)-1]
	h.lines = append(h.lines, hunkLine{text: line[1:], op: op})
}

// applyGitHeader fills paths that only the extended git header carries, as
// for pure renames and empty or binary files.
func applyGitHeader(f *rawFile) {
	for _, line := range f.extended {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			oldPath, newPath := gitHeaderPaths(strings.TrimPrefix(line, "diff --git "))
			if f.oldPath == "" {
				f.oldPath = oldPath
			}
			if f.newPath == "" {
				f.newPath = newPath
			}
		case strings.HasPrefix(line, "rename from "):
			f.oldPath = cleanPath(strings.TrimPrefix(line, "rename from "))
		case strings.HasPrefix(line, "rename to "):
			f.newPath = cleanPath(strings.TrimPrefix(line, "rename to "))
		}
	}
}

func (f *rawFile) hasHeader(prefix string) bool {
	for _, line := range f.extended {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// gitHeaderPaths splits "a/x b/y". Paths with spaces are ambiguous there, so
// the split point is the " b/" that leaves two equal halves when possible.
func gitHeaderPaths(s string) (string, string) {
	s = strings.TrimSpace(s)
	if half := len(s) / 2; len(s)%2 == 1 && s[half] == ' ' && strings.HasPrefix(s[half+1:], "b/") {
		return cleanPath(s[:half]), cleanPath(s[half+1:])
	}
	if i := strings.LastIndex(s, " b/"); i > 0 {
		return cleanPath(s[:i]), cleanPath(s[i+1:])
	}
	return "", ""
}

// headerPath drops the timestamp some tools append after a tab.
func headerPath(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func cleanPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"`)
	if p == devNull {
		return p
	}
	for _, prefix := range []string{"a/", "b/"} {
		if strings.HasPrefix(p, prefix) {
			return p[len(prefix):]
		}
	}
	return p
}
