// Package registry keeps the schemas loaded by a process and their compiled
// plans.
//
// Entries are immutable snapshots. Loading a schema parses, verifies and
// compiles it before taking the write lock, then swaps the entry in one
// step, so readers see either the old schema or the new one and a failed
// reload leaves the old entry untouched. A directory scan stages every
// matching file first and installs nothing unless all of them load.
//
// A Registry implements transcoder.Catalog and is safe for concurrent use.
package registry
