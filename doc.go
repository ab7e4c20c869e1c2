// Package flatdyn encodes dynamic values into FlatBuffers using binary
// schemas loaded at run time, with no generated code.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	flatdyn/             Root package with the concurrent Codec facade
//	├── reflection/      reflection.fbs accessors and the .bfbs verifier
//	├── schema/          Immutable schema model built from a verified buffer
//	├── value/           Dynamic value interface, Go and YAML/JSON adapters
//	├── transcoder/      Build sequence compiler and encoding engine
//	├── registry/        Loaded schemas and their compiled plans
//	├── config/          Command line tool configuration
//	├── errors/          Structured error types for debugging
//	└── cmd/flatdyn/     Command line encoder with an interactive mode
//
// # Quick Start
//
//	codec := flatdyn.New()
//	if _, err := codec.LoadDir("schemas", "bfbs"); err != nil {
//	    log.Fatal(err)
//	}
//
//	buf, err := codec.Encode("monster.bfbs", "Monster", map[string]any{
//	    "name": "orc",
//	    "hp":   80,
//	    "pos":  map[string]any{"x": 1, "y": 2, "z": 3},
//	})
//	if err != nil {
//	    log.Fatalf("%v (at %v)", err, flatdyn.Backtrace(err))
//	}
//
// # Schemas
//
// Schemas are the binary form flatc writes with --schema -b. A schema is
// registered under its file name, suffix included, so schemas/monster.bfbs
// is "monster.bfbs"; loading the same name again replaces it atomically, and
// a failed reload keeps the old one.
//
// # Values
//
// Anything value.Of accepts can be encoded: maps with string keys, slices,
// structs (matched by `fb` tag or case-insensitive field name), numbers of
// any width, strings and nil. Absent and null table fields are skipped;
// struct fields are all required.
//
// # Thread Safety
//
// Codec and Registry are safe for concurrent use. transcoder.Encoder is NOT
// thread-safe; Codec keeps a pool of them.
//
// # Decoding
//
// Decode is declared for symmetry and always fails with an unsupported
// error.
package flatdyn
