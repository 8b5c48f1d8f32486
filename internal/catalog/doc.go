// Package catalog implements the runtime record store and the aggregation
// engine for the shelved catalogue.
//
// The store keeps the three record collections (comics, series, events) in
// an in-memory SQLite database that is hydrated from the JSON backup files
// at startup and dehydrated back to them on save. SQLite is the query
// engine; the backup files remain the source of truth.
//
// The engine owns every mutation. Adding a comic fans out to exactly one
// series roll-up and at most one event roll-up; removing one reverses both
// with underflow-safe decrements. The series-name usage index, which tells
// the display layer when two identically named series need their vintage
// year appended, is maintained here, co-located with series create/delete.
package catalog
