/*
Package domain contains the core domain models for the espalier compiler.

It defines the parsed shape of an articy:draft flow export (Nodes, Pins,
Connections, Entities and Variables) plus the resolved Edge view the
compiler consumes. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Node: one flow element (container, dialogue fragment, raw code box, hub,
    jump, condition or instruction).
  - Pin / Connection: the wiring between nodes as exported by the design
    tool. Connections originate on output pins; containers additionally
    expose their content through the input pin.
  - Edge: a resolved outgoing path (target node, choice label, condition and
    instruction scripts) after pin-chain normalization.
  - Graph: the full export with ownership hierarchy and lookup indexes.
  - Diagnostic: a compile-time note tied to a generated file.
*/
package domain
