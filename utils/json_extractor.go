package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// ErrNoJSONFound is returned when no valid JSON object/array is found in the input
var ErrNoJSONFound = errors.New("no valid JSON object or array found in response")

// ExtractJSON salvages the JSON payload out of a model response that may
// carry markdown fences, commentary, or garbage characters around it.
//
// The salvage ladder, cheapest first:
//  1. strip markdown code fences
//  2. bracket-matched extraction of the first complete object/array
//  3. the fence-stripped response as-is
//  4. first-to-last brace slice of the raw response
//  5. control-character scrub of the fence-stripped response
//
// Returns the cleaned JSON string or an error if nothing on the ladder
// yields valid JSON.
func ExtractJSON(response string) (string, error) {
	if response == "" {
		return "", ErrNoJSONFound
	}

	cleaned := extractFromMarkdown(response)

	jsonStr := extractJSONByBrackets(cleaned)
	if jsonStr != "" {
		if json.Valid([]byte(jsonStr)) {
			return jsonStr, nil
		}
		log.Printf("[JSON Extractor] Bracket matching found invalid JSON")
	}

	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	jsonStr = aggressiveExtract(response)
	if jsonStr != "" && json.Valid([]byte(jsonStr)) {
		log.Printf("[JSON Extractor] Aggressive extraction salvaged valid JSON (%d chars)", len(jsonStr))
		return jsonStr, nil
	}

	jsonStr = tryFixJSON(cleaned)
	if jsonStr != "" && json.Valid([]byte(jsonStr)) {
		log.Printf("[JSON Extractor] Control-character scrub salvaged valid JSON (%d chars)", len(jsonStr))
		return jsonStr, nil
	}

	log.Printf("[JSON Extractor] No valid JSON found in %d-char response", len(response))
	return "", fmt.Errorf("%w: response length=%d", ErrNoJSONFound, len(response))
}

// ExtractJSONTo extracts JSON from response and unmarshals it into the target
func ExtractJSONTo(response string, target interface{}) error {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		log.Printf("[JSON Extractor] Unmarshal failed: %v", err)
		return err
	}
	return nil
}

// extractFromMarkdown removes markdown code block formatting
func extractFromMarkdown(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}

	// Inline fences in the middle of prose
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	matches := re.FindStringSubmatch(s)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	return strings.TrimSpace(s)
}

// extractJSONByBrackets uses depth-tracked bracket matching, string-literal
// aware, to find the first complete JSON object or array.
func extractJSONByBrackets(s string) string {
	startObj := strings.Index(s, "{")
	startArr := strings.Index(s, "[")

	var start int
	var openChar, closeChar rune

	switch {
	case startObj == -1 && startArr == -1:
		return ""
	case startObj == -1 || (startArr != -1 && startArr < startObj):
		start = startArr
		openChar = '['
		closeChar = ']'
	default:
		start = startObj
		openChar = '{'
		closeChar = '}'
	}

	depth := 0
	inString := false
	escaped := false
	end := -1

	for i := start; i < len(s); i++ {
		c := rune(s[i])

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				end = i + 1
				break
			}
		}
	}

	if end == -1 {
		return ""
	}
	return s[start:end]
}

// aggressiveExtract slices from the first opening to the last closing
// bracket, object then array.
func aggressiveExtract(s string) string {
	firstBrace := strings.Index(s, "{")
	lastBrace := strings.LastIndex(s, "}")
	if firstBrace != -1 && lastBrace > firstBrace {
		candidate := s[firstBrace : lastBrace+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}

	firstBracket := strings.Index(s, "[")
	lastBracket := strings.LastIndex(s, "]")
	if firstBracket != -1 && lastBracket > firstBracket {
		candidate := s[firstBracket : lastBracket+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}

	return ""
}

// tryFixJSON trims leading/trailing garbage around the braces and strips
// control characters models occasionally emit mid-string.
func tryFixJSON(s string) string {
	lastBrace := strings.LastIndex(s, "}")
	if lastBrace > 0 {
		s = s[:lastBrace+1]
	}
	firstBrace := strings.Index(s, "{")
	if firstBrace > 0 {
		s = s[firstBrace:]
	}

	var cleaned strings.Builder
	for _, r := range s {
		if r >= 32 && r < 127 || r == '\n' || r == '\r' || r == '\t' {
			cleaned.WriteRune(r)
		}
	}
	return cleaned.String()
}
