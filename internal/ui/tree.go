package ui

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/thomas-vilte/commitformat/internal/models"
)

// treeNode represents a node in the file tree
type treeNode struct {
	name     string
	isFile   bool
	change   *models.FileChange
	children map[string]*treeNode
}

// PrintFilesTree shows the changed files of an analysis in tree format
func PrintFilesTree(w io.Writer, files []models.FileChange, headerMessage string) {
	if len(files) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", headerMessage)
	printTree(w, buildFileTree(files), "", true)
}

// buildFileTree builds a directory tree
func buildFileTree(changes []models.FileChange) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for i := range changes {
		change := &changes[i]
		parts := strings.Split(change.Path, "/")
		current := root

		for j, part := range parts {
			isFile := j == len(parts)-1
			if current.children[part] == nil {
				current.children[part] = &treeNode{
					name:     part,
					isFile:   isFile,
					children: make(map[string]*treeNode),
				}
				if isFile {
					current.children[part].change = change
				}
			}
			current = current.children[part]
		}
	}
	return root
}

// printTree prints the tree recursively
func printTree(w io.Writer, node *treeNode, prefix string, isLast bool) {
	if node.name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := node.name
		if !node.isFile {
			name = Info.Sprint(name + "/")
		}

		stats := ""
		if node.isFile && node.change != nil {
			statsColor := color.New(color.FgGreen)
			if node.change.Deletions > node.change.Insertions {
				statsColor = color.New(color.FgRed)
			}
			stats = statsColor.Sprintf(" (+%d, -%d)", node.change.Insertions, node.change.Deletions)
			if node.change.Status == models.FileRenamed && node.change.OldPath != "" {
				stats += Dim.Sprintf(" ← %s", node.change.OldPath)
			}
		}

		_, _ = fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, stats)
	}

	childPrefix := prefix
	if node.name != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	keys := sortFileTree(node.children)
	for i, key := range keys {
		printTree(w, node.children[key], childPrefix, i == len(keys)-1)
	}
}

// sortFileTree orders directories first, then files, each alphabetically
func sortFileTree(nodes map[string]*treeNode) []string {
	keys := slices.Collect(maps.Keys(nodes))
	sort.Slice(keys, func(i, j int) bool {
		a, b := nodes[keys[i]], nodes[keys[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
