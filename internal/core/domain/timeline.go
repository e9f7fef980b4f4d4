package domain

// Timeline is the derived view of which journal entries are currently
// active. It is recomputed from scratch on every read and never
// persisted.
type Timeline struct {
	// Order holds indexes of substantive entries in the order they
	// first became active.
	Order []int
	// Head is the cursor into Order; entries at Order[:Head] are active.
	Head int
}

// Active returns the indexes of the currently active entries in
// original journal order.
func (tl Timeline) Active() []int {
	return tl.Order[:tl.Head]
}

// ResolveTimeline folds the full entry list, including undo/redo
// markers, into the set of active entry indexes. Undo and redo counts
// clamp at the ends of history; a substantive entry written while the
// cursor is behind the tip discards the redo history above it.
func ResolveTimeline(entries []JournalEntry) Timeline {
	tl := Timeline{}
	for i, e := range entries {
		switch cmd := e.Command.(type) {
		case Undo:
			tl.Head -= cmd.Steps
			if tl.Head < 0 {
				tl.Head = 0
			}
		case Redo:
			tl.Head += cmd.Steps
			if tl.Head > len(tl.Order) {
				tl.Head = len(tl.Order)
			}
		default:
			if !IsSubstantive(e.Command) {
				continue
			}
			if tl.Head < len(tl.Order) {
				tl.Order = tl.Order[:tl.Head]
			}
			tl.Order = append(tl.Order, i)
			tl.Head = len(tl.Order)
		}
	}
	return tl
}
