package backend

import "testing"

func seededState() (*RegionSet, *regionIDSource) {
	state := &RegionSet{}
	ids := &regionIDSource{}
	applyAnnotationOp(state, OpSeedLabels{Labels: []LabelDef{
		{Name: "run", Color: "#ff0000"},
		{Name: "walk", Color: "#00ff00"},
	}}, ids)
	applyAnnotationOp(state, OpSetActiveLabel{Name: "run"}, ids)
	return state, ids
}

func TestCreateRegion(t *testing.T) {
	state, ids := seededState()
	if changed := applyAnnotationOp(state, OpCreateRegion{Start: 10, End: 20}, ids); changed {
		t.Errorf("creating a region without a label should change nothing")
	}
	if !applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 20, End: 10}, ids) {
		t.Fatalf("expected creation to apply")
	}
	if len(state.Regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(state.Regions))
	}
	r := state.Regions[0]
	if r.Start != 10 || r.End != 20 {
		t.Errorf("expected reversed bounds to normalize to [10,20], got [%d,%d]", r.Start, r.End)
	}
	if r.ID != "region-0" {
		t.Errorf("expected first region id region-0, got %q", r.ID)
	}
	if !r.Selected {
		t.Errorf("newly created region should be selected")
	}

	if !applyAnnotationOp(state, OpCreateRegion{Label: "walk", Start: 50, End: 60, Instant: true}, ids) {
		t.Fatalf("expected instant creation to apply")
	}
	instant := state.Regions[1]
	if instant.Start != 50 || instant.End != 50 {
		t.Errorf("instant region should collapse to its start, got [%d,%d]", instant.Start, instant.End)
	}
	if instant.ID != "region-1" {
		t.Errorf("expected second region id region-1, got %q", instant.ID)
	}
	if state.Regions[0].Selected {
		t.Errorf("creating a region should unselect the previous selection")
	}
	if !instant.Selected {
		t.Errorf("newest region should be selected")
	}

	if !applyAnnotationOp(state, OpCreateRegion{Label: "sprint", Start: 70, End: 80}, ids) {
		t.Fatalf("expected creation with unknown label to apply")
	}
	if !state.hasLabel("sprint") {
		t.Errorf("creating with an unknown label should register it")
	}
}

func TestMoveRegion(t *testing.T) {
	state, ids := seededState()
	applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 10, End: 20}, ids)
	applyAnnotationOp(state, OpCreateRegion{Label: "walk", Start: 30, End: 30, Instant: true}, ids)
	applyAnnotationOp(state, OpSelectRegion{ID: "region-0"}, ids)

	if !applyAnnotationOp(state, OpMoveRegion{Index: 0, ID: "region-0", Start: 25, End: 15}, ids) {
		t.Fatalf("expected move to apply")
	}
	moved := state.Regions[0]
	if moved.Start != 15 || moved.End != 25 {
		t.Errorf("expected move to normalize to [15,25], got [%d,%d]", moved.Start, moved.End)
	}
	if !moved.Selected {
		t.Errorf("moving a region must not change its selection")
	}

	if applyAnnotationOp(state, OpMoveRegion{Index: 5, ID: "region-0", Start: 1, End: 2}, ids) {
		t.Errorf("move with out-of-range index should be dropped")
	}
	if applyAnnotationOp(state, OpMoveRegion{Index: 0, ID: "region-9", Start: 1, End: 2}, ids) {
		t.Errorf("move with mismatched id should be dropped")
	}
	if got := state.Regions[0]; got.Start != 15 || got.End != 25 {
		t.Errorf("dropped moves must not alter bounds, got [%d,%d]", got.Start, got.End)
	}

	if !applyAnnotationOp(state, OpMoveRegion{Index: 1, ID: "region-1", Start: 40, End: 90}, ids) {
		t.Fatalf("expected instant move to apply")
	}
	if inst := state.Regions[1]; inst.Start != 40 || inst.End != 40 {
		t.Errorf("instant region must stay zero-length after moves, got [%d,%d]", inst.Start, inst.End)
	}
}

func TestSelectionAndHighlight(t *testing.T) {
	state, ids := seededState()
	applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 10, End: 20}, ids)
	applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 30, End: 40}, ids)

	if !applyAnnotationOp(state, OpSelectRegion{ID: "region-0"}, ids) {
		t.Fatalf("expected selection to apply")
	}
	if !state.Regions[0].Selected || state.Regions[1].Selected {
		t.Errorf("selection must be exclusive")
	}
	if applyAnnotationOp(state, OpSelectRegion{ID: "region-7"}, ids) {
		t.Errorf("selecting an unknown region should be dropped")
	}
	if !state.Regions[0].Selected {
		t.Errorf("dropped selection must not clear the existing one")
	}

	if !applyAnnotationOp(state, OpHighlightRegion{ID: "region-1", Highlighted: true}, ids) {
		t.Fatalf("expected highlight to apply")
	}
	if applyAnnotationOp(state, OpHighlightRegion{ID: "region-1", Highlighted: true}, ids) {
		t.Errorf("re-applying the same highlight should change nothing")
	}
	if !applyAnnotationOp(state, OpUnselectAll{}, ids) {
		t.Fatalf("expected unselect-all to apply")
	}
	if state.Regions[0].Selected || state.Regions[1].Selected {
		t.Errorf("unselect-all must clear every selection")
	}
	if applyAnnotationOp(state, OpUnselectAll{}, ids) {
		t.Errorf("unselect-all with nothing selected should change nothing")
	}
}

func TestRemoveRegion(t *testing.T) {
	state, ids := seededState()
	applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 10, End: 20}, ids)
	applyAnnotationOp(state, OpCreateRegion{Label: "walk", Start: 30, End: 40}, ids)
	if !applyAnnotationOp(state, OpRemoveRegion{ID: "region-0"}, ids) {
		t.Fatalf("expected removal to apply")
	}
	if len(state.Regions) != 1 || state.Regions[0].ID != "region-1" {
		t.Fatalf("expected only region-1 to remain")
	}
	if applyAnnotationOp(state, OpRemoveRegion{ID: "region-0"}, ids) {
		t.Errorf("removing a missing region should be dropped")
	}
	applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 50, End: 60}, ids)
	if state.Regions[1].ID != "region-2" {
		t.Errorf("region ids must not be reused after removal, got %q", state.Regions[1].ID)
	}
}

func TestSetRange(t *testing.T) {
	state, ids := seededState()
	if state.HasRange {
		t.Fatalf("fresh state should have no range")
	}
	if !applyAnnotationOp(state, OpSetRange{Start: 500, End: 100}, ids) {
		t.Fatalf("expected range to apply")
	}
	if state.RangeStart != 100 || state.RangeEnd != 500 {
		t.Errorf("expected reversed range to normalize to [100,500], got [%d,%d]", state.RangeStart, state.RangeEnd)
	}
	if applyAnnotationOp(state, OpSetRange{Start: 100, End: 500}, ids) {
		t.Errorf("delivering an identical range should change nothing")
	}
	if applyAnnotationOp(state, OpSetRange{Start: 500, End: 100}, ids) {
		t.Errorf("delivering an equivalent reversed range should change nothing")
	}

	applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 200, End: 300}, ids)
	if !applyAnnotationOp(state, OpResetRange{}, ids) {
		t.Fatalf("expected reset to apply")
	}
	if state.HasRange {
		t.Errorf("reset should drop the stored range")
	}
	if len(state.Regions) != 1 {
		t.Errorf("reset must preserve regions, got %d", len(state.Regions))
	}
	if applyAnnotationOp(state, OpResetRange{}, ids) {
		t.Errorf("resetting without a range should change nothing")
	}
}

func TestLabelOps(t *testing.T) {
	state, ids := seededState()
	if !applyAnnotationOp(state, OpAddLabel{Name: "rest"}, ids) {
		t.Fatalf("expected label add to apply")
	}
	if applyAnnotationOp(state, OpAddLabel{Name: "rest"}, ids) {
		t.Errorf("adding a duplicate label should change nothing")
	}
	if state.LabelColor("rest") == "" {
		t.Errorf("labels added without a color should receive one")
	}
	if applyAnnotationOp(state, OpSetActiveLabel{Name: "nope"}, ids) {
		t.Errorf("activating an unknown label should be dropped")
	}
	if state.ActiveLabel != "run" {
		t.Errorf("dropped activation must not clear the active label, got %q", state.ActiveLabel)
	}
	if !applyAnnotationOp(state, OpSetActiveLabel{Name: ""}, ids) {
		t.Fatalf("clearing the active label should apply")
	}
	applyAnnotationOp(state, OpSetActiveLabel{Name: "walk"}, ids)
	if !applyAnnotationOp(state, OpSeedLabels{Labels: []LabelDef{{Name: "run"}}}, ids) {
		t.Fatalf("expected reseed to apply")
	}
	if state.ActiveLabel != "" {
		t.Errorf("reseeding away the active label should clear it, got %q", state.ActiveLabel)
	}
}

func TestClear(t *testing.T) {
	state, ids := seededState()
	applyAnnotationOp(state, OpCreateRegion{Label: "run", Start: 10, End: 20}, ids)
	applyAnnotationOp(state, OpSetRange{Start: 0, End: 100}, ids)
	if !applyAnnotationOp(state, OpClear{}, ids) {
		t.Fatalf("expected clear to apply")
	}
	if len(state.Regions) != 0 || state.HasRange {
		t.Errorf("clear should drop regions and range")
	}
	if len(state.Labels) == 0 {
		t.Errorf("clear must preserve labels")
	}
	if applyAnnotationOp(state, OpClear{}, ids) {
		t.Errorf("clearing an empty state should change nothing")
	}
}
