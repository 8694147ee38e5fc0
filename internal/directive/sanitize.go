package directive

import (
	"bytes"
	"strings"
)

// Sanitize removes every TRANSACTION and TRANSFER marker from text, valid or not, matching the
// keyword case-insensitively. Other bracketed text is left alone. Text without markers is
// returned unchanged; otherwise the result is trimmed.
//
// Removing a marker never leaves a doubled space, trailing spaces, a space before closing
// punctuation, or an empty line where the marker stood alone.
func Sanitize(text string) string {
	markers := findMarkers(text, true)
	if len(markers) == 0 {
		return text
	}

	out := make([]byte, 0, len(text))
	out = append(out, text[:markers[0].start]...)

	for i, m := range markers {
		next := len(text)
		if i+1 < len(markers) {
			next = markers[i+1].start
		}

		out = joinAfterRemoval(out, text[m.end:next])
	}

	return strings.TrimSpace(string(out))
}

// joinAfterRemoval appends rest to out, where a marker used to sit between the two.
func joinAfterRemoval(out []byte, rest string) []byte {
	outTrim := bytes.TrimRight(out, " \t")
	restTrim := strings.TrimLeft(rest, " \t")

	switch {
	case atLineStart(outTrim) && atLineEnd(restTrim):
		out = outTrim
		rest = dropNewline(restTrim)

		// The marker's line sat between two blank lines; keep only one of them.
		if endsWithBlankLine(out) && atLineEnd(strings.TrimLeft(rest, " \t")) {
			rest = dropNewline(strings.TrimLeft(rest, " \t"))
		}
	case atLineStart(outTrim):
		out = outTrim
		rest = restTrim
	case atLineEnd(restTrim):
		out = outTrim
		rest = restTrim
	case restTrim != "" && strings.IndexByte(".,;:!?)", restTrim[0]) >= 0:
		out = outTrim
		rest = restTrim
	case len(outTrim) < len(out):
		rest = restTrim
	}

	return append(out, rest...)
}

func atLineStart(b []byte) bool {
	return len(b) == 0 || b[len(b)-1] == '\n'
}

// endsWithBlankLine reports whether b, which is at a line start, ends with an empty line.
func endsWithBlankLine(b []byte) bool {
	b = bytes.TrimSuffix(b, []byte("\n"))
	b = bytes.TrimSuffix(b, []byte("\r"))
	b = bytes.TrimRight(b, " \t")

	return len(b) == 0 || b[len(b)-1] == '\n'
}

func atLineEnd(s string) bool {
	return s == "" || s[0] == '\n' || strings.HasPrefix(s, "\r\n")
}

func dropNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}

	return strings.TrimPrefix(s, "\n")
}
