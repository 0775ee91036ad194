// Package diag defines the diagnostic model shared by the lexer, parser,
// driver and CLI.
//
// Diagnostic is the central record: Severity, Code (stable numeric id with a
// string form such as SYN2001), Message, Primary span and optional Notes.
// Producers emit through a Reporter (usually BagReporter, which appends to a
// bounded Bag); rendering lives in internal/diagfmt.
//
// Package diag performs no IO and no formatting beyond the stable short form
// used for golden tests.
package diag
