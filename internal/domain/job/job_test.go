package job

import (
	"testing"

	"github.com/tanhanwei/steamseek/internal/domain"
)

func TestClone_IsolatesResults(t *testing.T) {
	rec := Record{
		SessionID: "s1",
		State:     Completed,
		Results: []domain.GameResult{
			{AppID: 10, Name: "First"},
			{AppID: 20, Name: "Second"},
		},
	}

	snap := rec.Clone()
	snap.Results[0].Name = "Mutated"

	if rec.Results[0].Name != "First" {
		t.Errorf("mutation of clone leaked into original: %q", rec.Results[0].Name)
	}
}

func TestClone_NilResults(t *testing.T) {
	snap := Record{SessionID: "s1"}.Clone()
	if snap.Results != nil {
		t.Errorf("expected nil results, got %v", snap.Results)
	}
}

func TestMatchesQuery(t *testing.T) {
	rec := Record{OriginalQuery: "Roguelike Deckbuilder"}

	if !rec.MatchesQuery("  roguelike deckbuilder ") {
		t.Error("expected case-insensitive trimmed match")
	}
	if rec.MatchesQuery("roguelike") {
		t.Error("partial query should not match")
	}
}

func TestStateTerminal(t *testing.T) {
	if Idle.Terminal() || Running.Terminal() {
		t.Error("idle/running must not be terminal")
	}
	if !Completed.Terminal() || !Failed.Terminal() {
		t.Error("completed/failed must be terminal")
	}
}

func TestStatusOf(t *testing.T) {
	rec := Record{
		State:       Completed,
		Progress:    100,
		CurrentStep: "Complete",
		Results:     []domain.GameResult{{AppID: 10}, {AppID: 20}},
		Narrative:   "two picks worth a look",
	}

	st := StatusOf(rec)
	if st.ResultCount != 2 {
		t.Errorf("result count = %d, want 2", st.ResultCount)
	}
	if !st.NarrativeReady {
		t.Error("narrative ready should be true")
	}
	if !st.ReadyForViewing {
		t.Error("completed unserved job should be ready for viewing")
	}

	rec.ResultsServed = true
	if StatusOf(rec).ReadyForViewing {
		t.Error("served job must not be ready for viewing")
	}

	rec.State = Running
	rec.ResultsServed = false
	if StatusOf(rec).ReadyForViewing {
		t.Error("running job must not be ready for viewing")
	}
}
