// Package pyast is a deliberately small, closed model of Python syntax.
//
// It keeps only what docstring checking needs: definitions with their
// decorators, parameters and bodies; the statements that matter to facts
// (return, raise, assignment, expression statements); and enough of every
// other statement and expression to find nested yields and definitions.
//
// The node set is closed. Expr and Stmt are satisfied only by types in this
// package (unexported marker methods), so consumers can switch over the
// concrete types exhaustively and fall back to a safe default for
// OtherExpr/OtherStmt.
//
// Positions are 1-based line/column pairs (source.LineCol). Spans are byte
// ranges whose File field is left zero by front ends and filled in by the
// driver when the file is registered in a FileSet.
package pyast
