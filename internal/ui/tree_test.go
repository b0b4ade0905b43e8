package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomas-vilte/commitformat/internal/models"
)

func TestPrintFilesTree(t *testing.T) {
	t.Run("directories before files", func(t *testing.T) {
		var out bytes.Buffer
		files := []models.FileChange{
			{Path: "main.go", Insertions: 1},
			{Path: "internal/cart/cart.go", Insertions: 5, Deletions: 2},
			{Path: "internal/api.go", Insertions: 3},
			{Path: "docs/old.md", OldPath: "docs/legacy.md", Status: models.FileRenamed},
		}

		PrintFilesTree(&out, files, "Files")

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		var names []string
		for _, line := range lines[1:] {
			fields := strings.Fields(strings.NewReplacer("├──", "", "└──", "", "│", "").Replace(line))
			names = append(names, fields[0])
		}
		assert.Equal(t, []string{"docs/", "old.md", "internal/", "cart/", "cart.go", "api.go", "main.go"}, names)
		assert.Contains(t, out.String(), "← docs/legacy.md")
		assert.Contains(t, out.String(), "(+5, -2)")
	})

	t.Run("no files", func(t *testing.T) {
		var out bytes.Buffer
		PrintFilesTree(&out, nil, "Files")
		assert.Empty(t, out.String())
	})
}
