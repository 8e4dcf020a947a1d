/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing flow graphs.

It allows developers to define narrative flows using a type-safe, fluent builder pattern
instead of relying on an articy:draft JSON export. This is particularly useful for unit
testing, tooling that generates flows, and leveraging IDE autocompletion/type-checking.
Pin wiring, the mechanical part of the export format, is handled by the builder.

Example usage:

	package main

	import (
		"github.com/espalier-dev/espalier/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Add("ch1").Container("Chapter 1")

		b.Add("hello").In("ch1").
			Say("alice", "Hello, wanderer.").
			Go("farewell")

		b.Add("farewell").In("ch1").
			Text("She turned and walked away.")

		b.Entity("alice", "Alice")

		// The resulting loader implements ports.GraphLoader.
		loader, _ := b.Build()
		// ... pass loader to espalier.New(set, espalier.WithLoader(loader))
	}
*/
package dsl
