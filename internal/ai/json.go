package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRegex = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\n?(.*?)```")
	jsonStringRegex  = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
)

// ExtractJSON attempts to extract a valid JSON block from text, handling markdown code blocks
// and possible extra text that models with "Thinking" mode might generate.
// Among several candidates the longest valid one wins.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	var bestMarkdown string
	for _, m := range fencedBlockRegex.FindAllStringSubmatch(text, -1) {
		sanitized := SanitizeJSON(strings.TrimSpace(m[1]))
		if json.Valid([]byte(sanitized)) && len(sanitized) > len(bestMarkdown) {
			bestMarkdown = sanitized
		}
	}
	if bestMarkdown != "" {
		return bestMarkdown
	}

	var bestBlock string
	for i := 0; i < len(text); {
		startIdx := strings.IndexAny(text[i:], "{[")
		if startIdx == -1 {
			break
		}
		startIdx += i

		endIdx := matchingBracket(text, startIdx)
		if endIdx < 0 {
			i = startIdx + 1
			continue
		}

		sanitized := SanitizeJSON(text[startIdx : endIdx+1])
		if json.Valid([]byte(sanitized)) && len(sanitized) > len(bestBlock) {
			bestBlock = sanitized
		}
		i = endIdx + 1
	}

	if bestBlock != "" {
		return bestBlock
	}

	return SanitizeJSON(text)
}

// matchingBracket returns the index closing the bracket at start, or -1.
func matchingBracket(text string, start int) int {
	opener := text[start]
	closer := byte('}')
	if opener == '[' {
		closer = ']'
	}

	count := 0
	inString := false
	escaped := false

	for j := start; j < len(text); j++ {
		char := text[j]
		if escaped {
			escaped = false
			continue
		}
		if char == '\\' {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if char == opener {
			count++
		} else if char == closer {
			count--
			if count == 0 {
				return j
			}
		}
	}
	return -1
}

// SanitizeJSON cleans malformed JSON that LLMs sometimes generate,
// such as unescaped newlines within String Literals.
func SanitizeJSON(s string) string {
	return jsonStringRegex.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "\n", "\\n")
	})
}

// PreviewLimit is how many characters of a model response go into error context.
const PreviewLimit = 200

// Preview shortens a model response to at most limit runes for error
// context, appending "..." when it cut something.
func Preview(text string, limit int) string {
	n := 0
	for i := range text {
		if n == limit {
			return text[:i] + "..."
		}
		n++
	}
	return text
}
