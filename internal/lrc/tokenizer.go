package lrc

import (
	"regexp"
	"sort"
	"strings"
)

// digit groups accept any unicode decimal digit, non-ascii ones then fail
// to parse as an invalid timestamp
var (
	// [ar: Artist Name] - key is letters only, at least one space after the colon
	metadataRe = regexp.MustCompile(`^\[([A-Za-z]+):[\s\v\p{Z}\x{85}]+(.*)\]$`)

	// [mm:ss], [mm:ss.f], [mm:ss.ff], [mm:ss.fff]
	timestampRe = regexp.MustCompile(`\[(\p{Nd}{1,2}):(\p{Nd}{1,2})(?:\.(\p{Nd}{1,3}))?\]`)

	// <mm:ss.fff> inline word timing
	enhancedRe = regexp.MustCompile(`<(\p{Nd}{1,2}):(\p{Nd}{1,2})(?:\.(\p{Nd}{1,3}))?>`)
)

type bracketMatch struct {
	start    int
	end      int
	groups   []int
	enhanced bool
}

// TokenizeLine splits one physical line into tokens. A line matching the
// metadata grammar yields exactly one metadata token; anything else is
// scanned for standard and enhanced timestamp brackets with the text in
// between kept as text tokens.
func TokenizeLine(line string) ([]Token, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	if meta := metadataRe.FindStringSubmatch(trimmed); meta != nil {
		return []Token{metadataToken(meta[1], meta[2])}, nil
	}

	matches := findBrackets(trimmed)

	tokens := make([]Token, 0, len(matches)*2+1)
	last := 0

	for _, m := range matches {
		if m.start > last {
			tokens = append(tokens, textToken(trimmed[last:m.start]))
		}

		ts, err := stampFromGroups(trimmed, m.groups)
		if err != nil {
			return nil, &InvalidTimestampError{Raw: trimmed[m.start:m.end]}
		}

		if m.enhanced {
			tokens = append(tokens, enhancedToken(ts))
		} else {
			tokens = append(tokens, timestampToken(ts))
		}

		last = m.end
	}

	if last < len(trimmed) {
		tokens = append(tokens, textToken(trimmed[last:]))
	}

	return tokens, nil
}

// Tokenize runs TokenizeLine over every line of text. The result has one
// entry per line; blank lines produce empty entries. A leading UTF-8 BOM
// is ignored.
func Tokenize(text string) ([][]Token, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	lines := splitLines(text)
	out := make([][]Token, 0, len(lines))

	for _, line := range lines {
		tokens, err := TokenizeLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, tokens)
	}

	return out, nil
}

// findBrackets collects both bracket families and orders them by start
// offset. The families use different delimiters so they never overlap.
func findBrackets(line string) []bracketMatch {
	var matches []bracketMatch

	for _, idx := range timestampRe.FindAllStringSubmatchIndex(line, -1) {
		matches = append(matches, bracketMatch{start: idx[0], end: idx[1], groups: idx})
	}
	for _, idx := range enhancedRe.FindAllStringSubmatchIndex(line, -1) {
		matches = append(matches, bracketMatch{start: idx[0], end: idx[1], groups: idx, enhanced: true})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	return matches
}

func stampFromGroups(line string, idx []int) (TimeStamp, error) {
	minutes := line[idx[2]:idx[3]]
	seconds := line[idx[4]:idx[5]]

	frac := ""
	if idx[6] >= 0 {
		frac = line[idx[6]:idx[7]]
	}

	return NewTimeStamp(minutes, seconds, frac)
}

// splitLines splits on LF, dropping a CR before it. A trailing newline
// does not produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
