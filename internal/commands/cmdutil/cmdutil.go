// Package cmdutil holds input and output helpers shared by the commands.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinPath selects standard input wherever a file path is expected.
const StdinPath = "-"

// ReadInput reads path, or stdin when path is "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == StdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", domainErrors.ErrReadDiff.WithError(err).WithContext("path", path)
	}
	return string(data), nil
}

// CommitMessageFromFile strips what git strips from COMMIT_EDITMSG: comment
// lines and everything below the scissors line.
func CommitMessageFromFile(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ------------------------ >8 ------------------------") {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// skippedPrefixes mark messages git writes itself. They are not checked.
var skippedPrefixes = []string{"Merge ", "Revert \"", "fixup! ", "squash! ", "amend! "}

// IsGeneratedMessage reports whether message is a merge, revert or
// autosquash message.
func IsGeneratedMessage(message string) bool {
	for _, p := range skippedPrefixes {
		if strings.HasPrefix(message, p) {
			return true
		}
	}
	return false
}

// WriteStructured prints v as JSON or YAML.
func WriteStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// ValidFormat reports whether format is one of text, json or yaml.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON || format == FormatYAML
}
