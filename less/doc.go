// Package less works with LESS stylesheet sources.
//
// It is not a LESS compiler. It understands just enough of the language to
// collect variable declarations into resolved symbol table, to inline imports
// of variable files and to render simple stylesheets (variables, imports,
// nesting and comments). Anything beyond that is delegated to an external
// renderer (lessc).
//
// # Variables
//
// Variable declarations are recognized on lines starting with "@":
//
//	@brand-color: #0052d9;
//	@link-color: @brand-color;
//
// References are dereferenced transitively against previously seen
// declarations, so @link-color above resolves to #0052d9. Declarations which
// could not be parsed are skipped, the rest of the source is still processed.
//
// # Imports
//
// Import paths prefixed with "~" are resolved under package root (think
// node_modules), everything else relative to the importing file. The ".less"
// extension is appended when missing.
package less
