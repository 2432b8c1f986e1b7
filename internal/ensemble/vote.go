package ensemble

import (
	"fmt"

	"github.com/stopgate/stopgate/internal/models"
)

// Tally is the set of votes collected from one consultation. Reduction is
// pure and invariant to arrival order.
type Tally struct {
	Votes []models.Vote
}

// Counts returns how many votes favor resuming and stopping.
func (t Tally) Counts() (resume, stop int) {
	for _, v := range t.Votes {
		if v.ShouldContinue {
			resume++
		} else {
			stop++
		}
	}
	return resume, stop
}

// ShouldContinue applies the majority rule. Ties resolve to continue: a
// missed resume wastes the user's time, an unnecessary one costs a single
// idle turn.
func (t Tally) ShouldContinue() bool {
	resume, stop := t.Counts()
	return resume >= stop
}

// Reason summarizes the winning side for the decision's reason string.
func (t Tally) Reason() string {
	resume, stop := t.Counts()
	winner := t.ShouldContinue()

	rationale := ""
	for _, v := range t.Votes {
		if v.ShouldContinue == winner && v.Rationale != "" {
			rationale = v.Rationale
			break
		}
	}

	verdict := "stop"
	if winner {
		verdict = "resume"
	}
	if rationale == "" {
		return fmt.Sprintf("ensemble voted %d-%d to %s", resume, stop, verdict)
	}
	return fmt.Sprintf("ensemble voted %d-%d to %s: %s", resume, stop, verdict, rationale)
}
