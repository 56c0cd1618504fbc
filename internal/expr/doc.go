// Package expr evaluates story expressions (choice conditions, content placeholders and
// passage statements) with an embedded Lua interpreter.
package expr
