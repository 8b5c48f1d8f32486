// Package backup reads and writes the durable JSON representation of the
// catalogue. Each entity kind gets its own file inside a folder named by
// the save date (day-month-year), so every day of use leaves a recoverable
// generation behind. Loading picks the newest dated folder and, as a
// retention side effect, prunes all but the most recent generations.
//
// Results are tri-state throughout: a missing file means "no data of this
// kind yet" and is reported separately from a parse or I/O failure. The two
// must never be coalesced; a new install is not an error, and a corrupt
// backup must never be silently replaced with an empty catalogue.
package backup
