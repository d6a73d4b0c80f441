// Package dismantle rewrites a Rust struct declaration into a companion
// module: field type aliases, the canonical record `core`, and the
// `protocol` trait that `core` implements.
//
// Given
//
//	struct Pair<T> { a: i32, b: T }
//
// the output is, in outline,
//
//	mod Pair {
//	    pub mod fields { pub struct a; pub struct b; }
//	    pub type a = i32;
//	    pub struct core<T> { pub a: i32, pub b: T }
//	    pub trait protocol { type __Core: protocol<b = Self::b>; type b; }
//	    impl<T> protocol for core<T> { type __Core = Self; type b = T; }
//	}
//
// A field whose type names one of the record's generic parameters (or
// `Self`) is dependent: it is surfaced as an associated type of `protocol`
// rather than a free-standing alias. Classification is syntactic, see
// syntax.HeadIdents.
//
// `Self` is a deliberate exception to the rule that a field using no generic
// parameter is independent: such a field has an empty generic subset, yet it
// gets an associated type and no alias, because a module-level
// `pub type f = Self;` would not compile.
package dismantle
