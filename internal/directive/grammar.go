package directive

import (
	"strconv"
	"strings"
)

type keyword struct {
	name string
	kind Kind
}

var keywords = []keyword{
	{name: "TRANSACTION", kind: KindTransaction},
	{name: "TRANSFER", kind: KindTransfer},
}

// marker is one bracketed span located in the text. text[start:end] includes both brackets.
type marker struct {
	start int
	end   int
	kind  Kind
	body  string
}

// findMarkers returns every marker span in order of appearance.
// The keyword is matched exactly unless fold is set.
func findMarkers(text string, fold bool) []marker {
	var markers []marker

	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '[')
		if open < 0 {
			break
		}

		open += i

		m, ok := matchMarker(text, open, fold)
		if !ok {
			i = open + 1
			continue
		}

		markers = append(markers, m)
		i = m.end
	}

	return markers
}

// matchMarker tries to read a marker starting at the '[' at text[open].
// Shape: '[' ws* KEYWORD ws* ':' body ']'. The body runs to the first ']'.
func matchMarker(text string, open int, fold bool) (marker, bool) {
	pos := skipBlanks(text, open+1)

	for _, kw := range keywords {
		end := pos + len(kw.name)
		if end > len(text) {
			continue
		}

		word := text[pos:end]
		if word != kw.name && (!fold || !strings.EqualFold(word, kw.name)) {
			continue
		}

		colon := skipBlanks(text, end)
		if colon >= len(text) || text[colon] != ':' {
			continue
		}

		closing := strings.IndexByte(text[colon+1:], ']')
		if closing < 0 {
			return marker{}, false
		}

		closing += colon + 1

		return marker{
			start: open,
			end:   closing + 1,
			kind:  kw.kind,
			body:  text[colon+1 : closing],
		}, true
	}

	return marker{}, false
}

func skipBlanks(text string, pos int) int {
	for pos < len(text) && isBlank(text[pos]) {
		pos++
	}

	return pos
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// field is one key=value pair of a marker body.
type field struct {
	key   string
	value string
}

// splitFields breaks a marker body into key=value pairs. Keys are lower-cased, values trimmed.
// Values cannot contain commas, so a segment without '=' means the body is malformed.
func splitFields(body string) ([]field, *ParseError) {
	segments := strings.Split(body, ",")
	fields := make([]field, 0, len(segments))
	seen := make(map[string]bool, len(segments))

	for _, seg := range segments {
		key, value, ok := strings.Cut(seg, "=")
		if !ok {
			if strings.TrimSpace(seg) == "" {
				return nil, &ParseError{Reason: "empty field"}
			}

			return nil, &ParseError{Reason: "expected key=value, got " + strconv.Quote(strings.TrimSpace(seg))}
		}

		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, &ParseError{Reason: "field without a name"}
		}

		if seen[key] {
			return nil, &ParseError{Field: key, Reason: "given more than once"}
		}

		seen[key] = true
		fields = append(fields, field{key: key, value: strings.TrimSpace(value)})
	}

	return fields, nil
}

func isWord(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}

	return true
}
