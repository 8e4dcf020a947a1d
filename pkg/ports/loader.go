package ports

import (
	"github.com/espalier-dev/espalier/pkg/domain"
)

// GraphLoader supplies the compiler with an already-parsed flow graph.
// The compiler never reads the raw export format itself; decoding lives
// behind this port (see pkg/adapters/articy for the JSON export adapter).
type GraphLoader interface {
	// Load parses the source and returns the typed graph.
	Load() (*domain.Graph, error)

	// Source describes where the graph comes from, for logs and reports.
	Source() string
}

// AssetIndex answers whether a relative asset path exists in the game
// project. The text renderer uses it to flag dangling image and audio
// references without touching the filesystem itself.
type AssetIndex interface {
	Has(relPath string) bool
}
