// Package layout implements the memory-layout pass: the walk that turns
// a semantically-analyzed AST into one where every declaration carries
// a concrete ref_type and frame- or global-relative offset, ready for
// code generation. It runs after semantic analysis and works on the
// tree alone: Run takes only the root node and never consults the
// symbol table.
package layout
