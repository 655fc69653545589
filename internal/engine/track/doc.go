// Package track provides the arrangement state the history engine edits:
// tracks holding an ordered clip sequence and named automation parameters.
//
// The package also defines the concrete history commands for track edits
// (add, remove, and move clips; set parameters). Tracks are not
// goroutine-safe on their own; the history manager serializes mutations.
package track
