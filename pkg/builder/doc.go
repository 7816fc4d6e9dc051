// Package builder implements the dynamic application builder: an in-memory
// composer over ordered steps, each owning ordered field definitions, plus
// the field drawer and choice sub-editor used to author those fields.
//
// Fields are addressed by a generated id; positional helpers resolve an index
// to an id before acting. Deletes go through a confirmation round-trip and
// are idempotent: removing something that is already gone is a no-op.
package builder
