// Package syntax parses the Rust struct declarations that dismantle
// rewrites: a tokenizer, a recursive-descent parser for declarations and
// type expressions, a head-identifier walker over type expressions, and
// printers for canonical re-emission.
package syntax
