// Package library synthesizes the fixed I/O routine library every C-
// program links against implicitly: input, output, inputb, outputb,
// inputc, outputc and outnl. These are not declared anywhere in source;
// the compiler manufactures their declarations once per run and splices
// them into the global scope ahead of the user's own program, so calls
// to them resolve and type-check exactly like calls to user functions.
package library
