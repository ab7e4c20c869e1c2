// Package reflection reads and writes binary FlatBuffers schemas (.bfbs),
// the self-describing form of reflection.fbs that flatc emits with
// --schema -b.
//
// The accessors follow the shape of flatc-generated Go code and perform no
// bounds checking of their own. Call Verify on untrusted input first.
package reflection
