package directive

import "fmt"

// ParseError describes a marker that was recognised by its keyword but whose fields were rejected.
// The marker is dropped; the rest of the text is still scanned.
type ParseError struct {
	Kind   Kind
	Marker string // Full marker text, brackets included
	Offset int    // Byte offset of the opening bracket
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s marker at offset %d: %s", e.Kind, e.Offset, e.Reason)
	}

	return fmt.Sprintf("%s marker at offset %d: field %q: %s", e.Kind, e.Offset, e.Field, e.Reason)
}
