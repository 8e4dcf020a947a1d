/*
Package espalier compiles articy:draft flow exports into trees of Ren'Py
script files.

It reads the JSON export of an articy:draft project, walks the flow
hierarchy and turns every flow container into an .rpy file of labeled
blocks: dialogue lines, menus, conditions, instructions and raw Ren'Py
code, joined by jumps that mirror the connections drawn in the graph.

# Concept

A flow graph is authored as nested containers of nodes wired by pins.
Espalier flattens that graph deterministically: each container becomes a
directory plus script file, each node a label, each connection a jump.
Entities become Character definitions, global variables an init block,
and every finding that does not stop the compile ends up in a generated
log file next to the scripts.

The target directory is reconciled, not overwritten blindly: only files
carrying the configured prefix and the expected subdirectories are ever
deleted, so hand-written game files can live alongside the generated
tree.

# Usage

Build a Pipeline from settings and run it. The default adapters read the
export from disk and write into the configured Ren'Py directory; both
can be swapped through options.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/espalier-dev/espalier"
		"github.com/espalier-dev/espalier/pkg/config"
	)

	func main() {
		set, err := config.Load("espalier.yaml")
		if err != nil {
			log.Fatal(err)
		}

		pipe, err := espalier.New(set)
		if err != nil {
			log.Fatal(err)
		}

		res, err := pipe.Compile(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %d files, %d findings\n", res.Files, res.Diagnostics)
	}
*/
package espalier
