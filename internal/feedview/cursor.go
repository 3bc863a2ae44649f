package feedview

// TrendingCursor is the wire sentinel that continues trending pagination.
// Internally the cursor is a tagged phase; the raw string survives only at
// the API boundary.
const TrendingCursor = "trending"

type cursorPhase int

const (
	phasePersonalized cursorPhase = iota
	phaseTrending
)

// cursor is the two-phase pagination position: phase 1 walks personalized
// feed entries (lastID holds the last entry id seen), phase 2 walks the
// trending cache.
type cursor struct {
	phase  cursorPhase
	lastID string
}

// parseCursor maps the wire cursor to its tagged form. Absent and literal
// "null" cursors start personalized paging from the top.
func parseCursor(raw string) cursor {
	switch raw {
	case "", "null":
		return cursor{phase: phasePersonalized}
	case TrendingCursor:
		return cursor{phase: phaseTrending}
	default:
		return cursor{phase: phasePersonalized, lastID: raw}
	}
}
