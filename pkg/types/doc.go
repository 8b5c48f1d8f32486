// Package types defines the catalogue entity types (Comic, Series, Event),
// their compact JSON wire format, the read-status enum, configuration, and
// the standard error values shared across the shelved storage system.
//
// The wire format is deliberately tolerant: keys absent from a record decode
// to their documented defaults, unknown keys are ignored, and booleans are
// accepted as either true/false or 0/1. Backups written by every historical
// revision of the format must remain loadable.
package types
