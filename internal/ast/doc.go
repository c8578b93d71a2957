// Package ast defines the Abstract Syntax Tree node type for C-.
//
// Unlike a typical multi-type AST, the tree uses one concrete Node struct
// for every syntactic construct: a NodeKind tag discriminates the node's
// role, and fields that are only meaningful for a subset of kinds (the
// constant payload, the parameter map, the layout fields) are simply left
// at their zero value otherwise. This mirrors the shape of the source
// grammar this package was distilled from, which passed a single node
// struct through parsing, semantic analysis, memory layout and code
// generation, mutating it in place at each stage.
//
// A node owns up to three ordered children (Children[0..2], whose
// meaning depends on the kind, e.g. If is [cond, then, else]) and a
// Sibling pointer chaining
// declarations and statements horizontally. The tree has a single owner:
// symbol tables and later passes hold non-owning references back into it.
package ast
