// Package parser turns raw model and CLI output into text the validator can
// consume.
//
// ExtractCandidate isolates the JSON document a model produced. It strips a
// surrounding code fence first, then falls back to bracket matching when the
// document is wrapped in prose.
package parser

import (
	"strings"
)

const fence = "```"

// ExtractCandidate returns the most likely JSON document inside text.
//
// Strategy:
//  1. If the text is wrapped in a code fence (``` or ```json), return the
//     fenced body.
//  2. If the text starts with '{', return it unchanged. Backticks inside its
//     string values are content, not a fence.
//  3. If the text contains a fenced block elsewhere, return the first one.
//  4. If the text contains a '{', return the first balanced {...} object.
//  5. Otherwise return the trimmed text unchanged so the JSON decoder can
//     report a precise error.
func ExtractCandidate(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	if body, ok := StripFence(trimmed); ok {
		return body
	}
	if trimmed[0] == '{' {
		return trimmed
	}
	if body, ok := firstFencedBlock(trimmed); ok {
		return body
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end, ok := matchBraces(trimmed[start:]); ok {
			return trimmed[start : start+end+1]
		}
	}
	return trimmed
}

// StripFence removes a code fence that wraps the whole of text. The info
// string after the opening fence (e.g. "json") is dropped, as is anything
// after the closing fence. A missing closing fence is tolerated.
func StripFence(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, fence) {
		return text, false
	}

	body := trimmed[len(fence):]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		// Single line: ```{...}```
		body = strings.TrimLeft(body, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body), true
}

// firstFencedBlock returns the body of the first complete fenced block.
func firstFencedBlock(text string) (string, bool) {
	open := strings.Index(text, fence)
	if open < 0 {
		return "", false
	}
	rest := text[open+len(fence):]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", false
	}
	rest = rest[nl+1:]
	end := strings.Index(rest, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// matchBraces returns the index of the closing '}' that matches the
// opening '{' at position 0, correctly handling string literals
// (including escaped quotes), nested objects, and arrays.
// Returns (index, true) on success or (0, false) if unmatched.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	depth := 0
	inString := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}
