// Package articy loads articy:draft JSON exports and adapts them into the
// domain flow graph.
//
// The export is decoded in two stages: the outer envelope (packages,
// hierarchy, global variables, object definitions) with plain JSON tags,
// then each model's heterogeneous Properties bag through mapstructure into
// a typed view. Unknown properties are ignored; unknown model types survive
// as nodes the compiler reports as unsupported.
package articy
