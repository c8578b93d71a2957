// Package semantic implements the scoped symbol table and the semantic
// analyzer: the pass that walks a parsed AST, resolves identifiers,
// type-checks every expression and statement, and reports declaration,
// initialization and use diagnostics. It is the largest single piece of
// the compiler and the one most of the language's rules live in.
package semantic
