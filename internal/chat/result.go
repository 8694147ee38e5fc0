package chat

import (
	"fmt"

	"github.com/MrJamesThe3rd/finbot/internal/directive"
	"github.com/MrJamesThe3rd/finbot/internal/reconcile"
)

// Result is the outcome of one assistant reply.
type Result struct {
	// Reply is the assistant text as received, markers included.
	Reply string

	// Content is Reply with every marker removed. This is what the user sees.
	Content string

	// Outcomes holds one entry per well-formed marker, in the order they appeared.
	Outcomes []reconcile.Outcome

	// Skipped lists markers whose fields could not be parsed. They are not reconciled.
	Skipped []*directive.ParseError

	// Partial is set when reconciliation stopped early. Directives after the last outcome were
	// never attempted.
	Partial bool
}

// Committed counts the directives that reached the ledger.
func (r *Result) Committed() int {
	n := 0

	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}

	return n
}

// Warnings collects the advisory limit warnings raised by committed entries.
func (r *Result) Warnings() []*reconcile.LimitWarning {
	var warnings []*reconcile.LimitWarning

	for _, o := range r.Outcomes {
		if o.Entry != nil && o.Entry.Warning != nil {
			warnings = append(warnings, o.Entry.Warning)
		}
	}

	return warnings
}

// Summary describes how many markers were logged, e.g. "3 of 4 items logged". Markers that could
// not be read count as items that were not logged. It is empty when the reply carried no markers.
func (r *Result) Summary() string {
	total := len(r.Outcomes) + len(r.Skipped)
	committed := r.Committed()

	switch {
	case total == 0:
		return ""
	case total == 1 && committed == 1:
		return "1 item logged"
	case committed == total:
		return fmt.Sprintf("%d items logged", total)
	}

	return fmt.Sprintf("%d of %d items logged", committed, total)
}
