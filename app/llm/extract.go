package llm

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls a JSON payload out of model output. Models wrap
// responses in markdown fences or prose, so it tries a fenced block
// first, then the first array, then the first object. Returns the
// raw JSON text and whether anything was found.
func ExtractJSON(text string) (string, bool) {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if candidate != "" {
			return candidate, true
		}
	}

	if candidate, ok := extractDelimited(text, '[', ']'); ok {
		return candidate, true
	}
	if candidate, ok := extractDelimited(text, '{', '}'); ok {
		return candidate, true
	}

	return "", false
}

// extractDelimited returns the first balanced region between open and
// close, skipping delimiters inside JSON strings.
func extractDelimited(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
