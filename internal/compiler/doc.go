// Package compiler turns a parsed flow graph into a tree of Ren'Py script
// files.
//
// Every flow container becomes one file in a directory mirroring the
// container hierarchy, every node inside it one labeled block. Connections
// across the tree compile to jump statements, so the order blocks are
// emitted in never affects where control flows. Non-fatal findings are
// collected as diagnostics for the run report; structural errors (duplicate
// labels, unusable menus, unknown variable types) abort the compile.
package compiler
