/*
Package ports defines the driven ports (interfaces) for the espalier pipeline.

These interfaces decouple the compiler core from external implementations,
letting graph sources, asset lookups and run-history backends vary without
touching compile logic.

# Key Interfaces

  - GraphLoader: supplies the parsed flow graph (e.g. the articy JSON adapter).
  - AssetIndex: answers asset-path existence checks for the text renderer.
  - RunRecorder: persists compile-run history (memory or Redis backed).
*/
package ports
