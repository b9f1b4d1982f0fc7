package agent

import (
	"strings"

	"github.com/tidwall/gjson"
)

// extractObject returns the outermost JSON object embedded in text, dropping
// Markdown fences or prose around it. It returns "" when no valid object is
// found.
func extractObject(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return ""
	}

	obj := text[start : end+1]
	if !gjson.Valid(obj) {
		return ""
	}

	return obj
}

// preview reads path from a possibly truncated JSON object, as produced
// mid-stream by a structured-output model.
func preview(partial, path string) gjson.Result {
	start := strings.IndexByte(partial, '{')
	if start < 0 {
		return gjson.Result{}
	}
	return gjson.Get(closeJSON(partial[start:]), path)
}

// closeJSON terminates an open string and closes every open object and
// array so a truncated document can be queried.
func closeJSON(partial string) string {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)

	for i := 0; i < len(partial); i++ {
		ch := partial[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder

	if inString {
		if escaped {
			partial = partial[:len(partial)-1]
		}
		b.WriteString(partial)
		b.WriteByte('"')
	} else {
		partial = strings.TrimRight(partial, " \t\r\n,")
		b.WriteString(partial)
		if strings.HasSuffix(partial, ":") {
			b.WriteString("null")
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}

	return b.String()
}

// stringsAt returns the non-empty string elements of the array at path.
func stringsAt(res gjson.Result) []string {
	var out []string
	for _, item := range res.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
