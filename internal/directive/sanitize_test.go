package directive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/finbot/internal/directive"
)

func TestSanitize(t *testing.T) {
	type testCase struct {
		name string
		in   string
		want string
	}

	tests := []testCase{
		{
			name: "InteriorMarker",
			in:   "Got it [TRANSACTION: amount=5, category=food, type=expense, description=coffee] enjoy!",
			want: "Got it enjoy!",
		},
		{
			name: "NoMarkersUnchanged",
			in:   "  Nothing to log here [really]\n\n",
			want: "  Nothing to log here [really]\n\n",
		},
		{
			name: "CaseInsensitiveKeyword",
			in:   "Done [transfer: amount=5, from=a, to=b] now",
			want: "Done now",
		},
		{
			name: "MalformedMarkerStillRemoved",
			in:   "Oops [TRANSACTION: amount=abc, category=food, type=expense, description=x] sorry",
			want: "Oops sorry",
		},
		{
			name: "OtherBracketsKept",
			in:   "See [note] and [TRANSFER: amount=1, from=a, to=b] [TODO]",
			want: "See [note] and [TODO]",
		},
		{
			name: "BeforePunctuation",
			in:   "Logged [TRANSACTION: amount=5, category=food, type=expense, description=x].",
			want: "Logged.",
		},
		{
			name: "MarkerOnItsOwnLine",
			in:   "Here you go:\n[TRANSACTION: amount=5, category=food, type=expense, description=x]\nAnything else?",
			want: "Here you go:\nAnything else?",
		},
		{
			name: "BlankLinesElsewhereKept",
			in:   "First paragraph.\n\nSecond [TRANSFER: amount=1, from=a, to=b] paragraph.",
			want: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name: "OnlyMarkers",
			in:   " [TRANSACTION: amount=1, category=a, type=expense, description=x][TRANSFER: amount=1, from=a, to=b] ",
			want: "",
		},
		{
			name: "AdjacentMarkersBetweenWords",
			in:   "A [TRANSACTION: amount=1, category=a, type=expense, description=x][TRANSFER: amount=1, from=a, to=b] B",
			want: "A B",
		},
		{
			name: "LeadingMarker",
			in:   "[TRANSACTION: amount=1, category=a, type=expense, description=x] Logged it.",
			want: "Logged it.",
		},
		{
			name: "MarkerEndsLine",
			in:   "Spent $5 [TRANSACTION: amount=5, category=food, type=expense, description=x]\n- item",
			want: "Spent $5\n- item",
		},
		{
			name: "MarkerEndsLineCRLF",
			in:   "Spent $5 [TRANSACTION: amount=5, category=food, type=expense, description=x]\r\n- item",
			want: "Spent $5\r\n- item",
		},
		{
			name: "MarkerBetweenParagraphs",
			in:   "Para one.\n\n[TRANSFER: amount=1, from=a, to=b]\n\nPara two.",
			want: "Para one.\n\nPara two.",
		},
		{
			name: "MarkerAfterParagraphBreak",
			in:   "Para one.\n\n[TRANSFER: amount=1, from=a, to=b]\nPara two.",
			want: "Para one.\n\nPara two.",
		},
		{
			name: "MarkerLinesBetweenParagraphs",
			in: "Para one.\n\n[TRANSFER: amount=1, from=a, to=b]\n" +
				"[TRANSACTION: amount=1, category=a, type=expense, description=x]\n\nPara two.",
			want: "Para one.\n\nPara two.",
		},
		{
			name: "UnterminatedMarkerKept",
			in:   "Broken [TRANSACTION: amount=1",
			want: "Broken [TRANSACTION: amount=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, directive.Sanitize(tt.in))
		})
	}
}
