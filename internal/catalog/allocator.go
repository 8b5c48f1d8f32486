package catalog

// Kind selects one of the three entity collections.
type Kind int

// Entity kinds.
const (
	KindComic Kind = iota
	KindSeries
	KindEvent
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindComic:
		return "comic"
	case KindSeries:
		return "series"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Allocator issues monotonically increasing integer ids per entity kind.
// The counters are never persisted: they are re-derived from the maximum id
// present in loaded data, so a hand-edited backup or a skipped id cannot
// make the allocator drift.
type Allocator struct {
	last map[Kind]int64
}

// NewAllocator returns an allocator with all counters at zero, so the first
// id issued for each kind is 1.
func NewAllocator() *Allocator {
	return &Allocator{last: make(map[Kind]int64)}
}

// Next returns the next id for the kind, strictly greater than every id
// issued or seeded so far in this process.
func (a *Allocator) Next(kind Kind) int64 {
	a.last[kind]++
	return a.last[kind]
}

// Seed raises the kind's counter to max if it is currently lower. Called
// with the largest id found in loaded data; seeding backwards is ignored so
// repeated loads cannot reissue an id.
func (a *Allocator) Seed(kind Kind, max int64) {
	if max > a.last[kind] {
		a.last[kind] = max
	}
}

// Reset sets the kind's counter exactly. Only recompaction uses this: after
// renumbering a collection to 1..N the counter must continue from N even
// though that is lower than before.
func (a *Allocator) Reset(kind Kind, n int64) {
	a.last[kind] = n
}
