package backend

import (
	"context"
	"fmt"
	"log"

	"git.sr.ht/~gioverse/skel/stream"
)

// Region is one annotated interval of a trace. Instant regions mark a
// single point in time and always have Start == End.
type Region struct {
	ID          string
	Label       string
	Start, End  int64
	Instant     bool
	Selected    bool
	Highlighted bool
}

// Duration returns the length of the region in nanoseconds.
func (r Region) Duration() int64 {
	return r.End - r.Start
}

// LabelDef describes one assignable region label.
type LabelDef struct {
	Name  string
	Color string
}

// RegionSet is a snapshot of all annotation state. Each applied
// operation produces a new snapshot with a higher Seq.
type RegionSet struct {
	Seq         uint64
	Regions     []Region
	Labels      []LabelDef
	ActiveLabel string
	// RangeStart and RangeEnd bound the visible time window. HasRange
	// is false until the first range operation arrives, in which case
	// viewers should fall back to the full data extent.
	RangeStart, RangeEnd int64
	HasRange             bool
}

func (rs RegionSet) clone() RegionSet {
	out := rs
	out.Regions = append([]Region(nil), rs.Regions...)
	out.Labels = append([]LabelDef(nil), rs.Labels...)
	return out
}

// LabelColor returns the configured color for a label name, or "" when
// the label is unknown.
func (rs RegionSet) LabelColor(name string) string {
	for _, l := range rs.Labels {
		if l.Name == name {
			return l.Color
		}
	}
	return ""
}

// AnnotationOp is one mutation of annotation state. The concrete types
// below form the complete set of operations the store understands.
type AnnotationOp interface {
	isAnnotationOp()
}

// OpCreateRegion adds a region carrying the given label. Reversed
// bounds are normalized and instant regions collapse to their start.
type OpCreateRegion struct {
	Label      string
	Start, End int64
	Instant    bool
}

// OpMoveRegion rewrites the bounds of the region at Index. ID must
// match the region currently stored there, which guards against
// gestures finishing after the region list has changed.
type OpMoveRegion struct {
	Index      int
	ID         string
	Start, End int64
}

// OpSelectRegion makes the identified region the only selected one.
type OpSelectRegion struct {
	ID string
}

// OpUnselectAll clears every region's selected flag.
type OpUnselectAll struct{}

// OpHighlightRegion toggles the hover highlight of a region.
type OpHighlightRegion struct {
	ID          string
	Highlighted bool
}

// OpRemoveRegion deletes a region.
type OpRemoveRegion struct {
	ID string
}

// OpSetRange replaces the visible time window.
type OpSetRange struct {
	Start, End int64
}

// OpResetRange drops the stored time window, returning the view to the
// full data extent. Regions are unaffected.
type OpResetRange struct{}

// OpSetActiveLabel chooses the label applied to newly created regions.
// An empty name clears the active label, which disables creation.
type OpSetActiveLabel struct {
	Name string
}

// OpAddLabel registers a new label. Adding an existing name is a no-op.
type OpAddLabel struct {
	Name  string
	Color string
}

// OpSeedLabels replaces the label set wholesale, preserving the active
// label when it survives the replacement.
type OpSeedLabels struct {
	Labels []LabelDef
}

// OpClear drops all regions and the stored range, keeping labels. It
// marks the start of a new trace session.
type OpClear struct{}

// OpRefresh forces a fresh snapshot without changing state.
type OpRefresh struct{}

func (OpCreateRegion) isAnnotationOp()    {}
func (OpMoveRegion) isAnnotationOp()      {}
func (OpSelectRegion) isAnnotationOp()    {}
func (OpUnselectAll) isAnnotationOp()     {}
func (OpHighlightRegion) isAnnotationOp() {}
func (OpRemoveRegion) isAnnotationOp()    {}
func (OpSetRange) isAnnotationOp()        {}
func (OpResetRange) isAnnotationOp()      {}
func (OpSetActiveLabel) isAnnotationOp()  {}
func (OpAddLabel) isAnnotationOp()        {}
func (OpSeedLabels) isAnnotationOp()      {}
func (OpClear) isAnnotationOp()           {}
func (OpRefresh) isAnnotationOp()         {}

// defaultLabelColors cycles when labels arrive without a configured
// color.
var defaultLabelColors = []string{
	"#2a8d46",
	"#c3572f",
	"#3b6bc4",
	"#9146b8",
	"#b88a2e",
	"#2e9b96",
}

// regionIDSource issues session-unique region identifiers.
type regionIDSource struct {
	next int
}

func (r *regionIDSource) newID() string {
	id := fmt.Sprintf("region-%d", r.next)
	r.next++
	return id
}

func normalizeBounds(start, end int64, instant bool) (int64, int64) {
	if instant {
		return start, start
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}

func (rs *RegionSet) findRegion(id string) int {
	for i := range rs.Regions {
		if rs.Regions[i].ID == id {
			return i
		}
	}
	return -1
}

func (rs *RegionSet) hasLabel(name string) bool {
	for _, l := range rs.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// applyAnnotationOp mutates state in place and reports whether anything
// changed. Operations referring to regions that no longer exist are
// logged and dropped so that stale gesture callbacks cannot corrupt the
// region list.
func applyAnnotationOp(state *RegionSet, op AnnotationOp, ids *regionIDSource) (changed bool) {
	switch op := op.(type) {
	case OpCreateRegion:
		if op.Label == "" {
			log.Printf("dropping region creation with no label")
			return false
		}
		if !state.hasLabel(op.Label) {
			state.Labels = append(state.Labels, LabelDef{
				Name:  op.Label,
				Color: defaultLabelColors[len(state.Labels)%len(defaultLabelColors)],
			})
		}
		start, end := normalizeBounds(op.Start, op.End, op.Instant)
		for i := range state.Regions {
			state.Regions[i].Selected = false
		}
		state.Regions = append(state.Regions, Region{
			ID:       ids.newID(),
			Label:    op.Label,
			Start:    start,
			End:      end,
			Instant:  op.Instant,
			Selected: true,
		})
		return true
	case OpMoveRegion:
		if op.Index < 0 || op.Index >= len(state.Regions) {
			log.Printf("dropping move for out-of-range region index %d", op.Index)
			return false
		}
		r := &state.Regions[op.Index]
		if r.ID != op.ID {
			log.Printf("dropping move for region %q: index %d now holds %q", op.ID, op.Index, r.ID)
			return false
		}
		r.Start, r.End = normalizeBounds(op.Start, op.End, r.Instant)
		return true
	case OpSelectRegion:
		idx := state.findRegion(op.ID)
		if idx == -1 {
			log.Printf("dropping selection of unknown region %q", op.ID)
			return false
		}
		for i := range state.Regions {
			state.Regions[i].Selected = i == idx
		}
		return true
	case OpUnselectAll:
		for i := range state.Regions {
			if state.Regions[i].Selected {
				state.Regions[i].Selected = false
				changed = true
			}
		}
		return changed
	case OpHighlightRegion:
		idx := state.findRegion(op.ID)
		if idx == -1 {
			return false
		}
		if state.Regions[idx].Highlighted == op.Highlighted {
			return false
		}
		state.Regions[idx].Highlighted = op.Highlighted
		return true
	case OpRemoveRegion:
		idx := state.findRegion(op.ID)
		if idx == -1 {
			log.Printf("dropping removal of unknown region %q", op.ID)
			return false
		}
		state.Regions = append(state.Regions[:idx], state.Regions[idx+1:]...)
		return true
	case OpSetRange:
		start, end := normalizeBounds(op.Start, op.End, false)
		if state.HasRange && state.RangeStart == start && state.RangeEnd == end {
			return false
		}
		state.RangeStart = start
		state.RangeEnd = end
		state.HasRange = true
		return true
	case OpResetRange:
		if !state.HasRange {
			return false
		}
		state.HasRange = false
		state.RangeStart = 0
		state.RangeEnd = 0
		return true
	case OpSetActiveLabel:
		if op.Name != "" && !state.hasLabel(op.Name) {
			log.Printf("dropping activation of unknown label %q", op.Name)
			return false
		}
		if state.ActiveLabel == op.Name {
			return false
		}
		state.ActiveLabel = op.Name
		return true
	case OpAddLabel:
		if op.Name == "" || state.hasLabel(op.Name) {
			return false
		}
		color := op.Color
		if color == "" {
			color = defaultLabelColors[len(state.Labels)%len(defaultLabelColors)]
		}
		state.Labels = append(state.Labels, LabelDef{Name: op.Name, Color: color})
		return true
	case OpSeedLabels:
		state.Labels = append(state.Labels[:0], op.Labels...)
		for i := range state.Labels {
			if state.Labels[i].Color == "" {
				state.Labels[i].Color = defaultLabelColors[i%len(defaultLabelColors)]
			}
		}
		if state.ActiveLabel != "" && !state.hasLabel(state.ActiveLabel) {
			state.ActiveLabel = ""
		}
		return true
	case OpClear:
		if len(state.Regions) == 0 && !state.HasRange {
			return false
		}
		state.Regions = nil
		state.HasRange = false
		state.RangeStart = 0
		state.RangeEnd = 0
		return true
	case OpRefresh:
		return false
	default:
		log.Printf("unknown annotation op %T", op)
		return false
	}
}

// Annotations owns all region and label state for the running session.
// State changes flow through [Apply] and are serialized by a single
// goroutine, which publishes a fresh [RegionSet] snapshot after each
// effective operation.
type Annotations struct {
	pool     *stream.MutationPool[string, RegionSet]
	mutation *stream.Mutation[RegionSet]
	ops      chan AnnotationOp
}

func NewAnnotations(mutator *stream.Mutator) *Annotations {
	a := &Annotations{
		ops: make(chan AnnotationOp, 64),
	}
	a.pool = stream.NewMutationPool[string, RegionSet](mutator)
	a.mutation, _ = stream.Mutate(a.pool, "annotations", a.run)
	return a
}

func (a *Annotations) run(ctx context.Context) <-chan RegionSet {
	out := make(chan RegionSet)
	go func() {
		defer close(out)
		var (
			state RegionSet
			ids   regionIDSource
		)
		emit := func() {
			state.Seq++
			select {
			case out <- state.clone():
			case <-ctx.Done():
			}
		}
		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case op := <-a.ops:
				changed := applyAnnotationOp(&state, op, &ids)
				if _, refresh := op.(OpRefresh); changed || refresh {
					emit()
				}
			}
		}
	}()
	return out
}

// Apply submits an operation for asynchronous application. Operations
// are applied in submission order.
func (a *Annotations) Apply(op AnnotationOp) {
	a.ops <- op
}

// Stream emits a snapshot after every effective operation. Suitable for
// use with [stream.New].
func (a *Annotations) Stream(ctx context.Context) <-chan RegionSet {
	return a.mutation.Stream(ctx)
}
