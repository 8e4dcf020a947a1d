package espalier_test

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/pkg/adapters/memory"
	"github.com/espalier-dev/espalier/pkg/config"
	"github.com/espalier-dev/espalier/pkg/domain"
)

// ExampleNew compiles an in-memory flow graph without touching an articy
// export on disk. Injecting a loader is the way to drive the compiler from
// tests or other tooling.
func ExampleNew() {
	// A single chapter holding one line of dialogue.
	chapter := &domain.Node{
		ID:          "0x01",
		Kind:        domain.KindContainer,
		Type:        "FlowFragment",
		DisplayName: "Prologue",
		InputPins: []domain.Pin{{
			ID:          "in-0x01",
			Owner:       "0x01",
			Connections: []domain.Connection{{TargetPin: "in-0x02"}},
		}},
		OutputPins: []domain.Pin{{ID: "out-0x01", Owner: "0x01"}},
	}
	line := &domain.Node{
		ID:         "0x02",
		Kind:       domain.KindDialogue,
		Type:       "DialogueFragment",
		Parent:     "0x01",
		Speaker:    "0xE1",
		Text:       "So it begins.",
		InputPins:  []domain.Pin{{ID: "in-0x02", Owner: "0x02"}},
		OutputPins: []domain.Pin{{ID: "out-0x02", Owner: "0x02"}},
	}
	graph := domain.NewGraph(
		[]*domain.Node{chapter, line},
		[]string{"0x01"},
		map[string][]string{"0x01": {"0x02"}},
		[]domain.Entity{{ID: "0xE1", DisplayName: "Narrator"}},
		nil,
	)

	set := config.Defaults()
	set.PathArticyJSON = "unused.json"
	set.PathTargetDir = filepath.Join("game", "generated")

	pipe, err := espalier.New(&set, espalier.WithLoader(memory.NewLoader(graph, "example")))
	if err != nil {
		log.Fatal(err)
	}

	// Validate compiles without writing the target directory.
	res, err := pipe.Validate(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("files: %d\n", res.Files)
	fmt.Printf("findings: %d\n", res.Diagnostics)
	// Output:
	// files: 5
	// findings: 1
}
