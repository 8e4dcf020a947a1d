package espalier_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/pkg/adapters/memory"
	"github.com/espalier-dev/espalier/pkg/config"
	"github.com/espalier-dev/espalier/pkg/domain"
)

// storyGraph builds a one-chapter flow: the container descends into a single
// dialogue line that has no onward connection, so the compile produces one
// dangling-jump finding.
func storyGraph() *domain.Graph {
	chapter := &domain.Node{
		ID:          "0x01",
		Kind:        domain.KindContainer,
		Type:        "FlowFragment",
		DisplayName: "Chapter 1",
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
		Text:       "Hello, wanderer.",
		InputPins:  []domain.Pin{{ID: "in-0x02", Owner: "0x02"}},
		OutputPins: []domain.Pin{{ID: "out-0x02", Owner: "0x02"}},
	}
	return domain.NewGraph(
		[]*domain.Node{chapter, line},
		[]string{"0x01"},
		map[string][]string{"0x01": {"0x02"}},
		[]domain.Entity{{ID: "0xE1", DisplayName: "Alice"}},
		[]domain.VariableSet{{
			Namespace: "Story",
			Variables: []domain.Variable{{Name: "met_alice", Type: "Boolean", Value: "false"}},
		}},
	)
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	set := config.Defaults()
	set.PathArticyJSON = "unused.json"
	set.PathTargetDir = filepath.Join(t.TempDir(), "generated")
	return &set
}

func TestPipeline_Compile(t *testing.T) {
	set := testSettings(t)
	pipe, err := espalier.New(set, espalier.WithLoader(memory.NewLoader(storyGraph(), "story")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := pipe.Compile(context.Background())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if res.Files != 5 {
		t.Errorf("expected 5 files (scripts + log), got %d", res.Files)
	}
	if res.Diagnostics != 1 {
		t.Errorf("expected 1 finding, got %d", res.Diagnostics)
	}

	read := func(rel string) string {
		raw, err := os.ReadFile(filepath.Join(set.PathTargetDir, rel))
		if err != nil {
			t.Fatalf("missing output file %s: %v", rel, err)
		}
		return string(raw)
	}

	base := read("articy_base.rpy")
	if !strings.Contains(base, "label start:") || !strings.Contains(base, "jump label_0x01") {
		t.Errorf("unexpected base file:\n%s", base)
	}
	chapter := read(filepath.Join("chapter_1", "articy_chapter_1.rpy"))
	if !strings.Contains(chapter, `character_alice "Hello, wanderer."`) {
		t.Errorf("dialogue line missing from chapter file:\n%s", chapter)
	}
	if !strings.Contains(chapter, "jump end") {
		t.Errorf("dangling node should fall back to the end label:\n%s", chapter)
	}
	characters := read("articy_characters.rpy")
	if !strings.Contains(characters, `define character_alice = Character("Alice"`) {
		t.Errorf("unexpected characters file:\n%s", characters)
	}
	variables := read("articy_variables.rpy")
	if !strings.Contains(variables, "init python in story:") {
		t.Errorf("unexpected variables file:\n%s", variables)
	}
	log := read("articy_log.txt")
	if !strings.Contains(log, `label_0x02 was not assigned any jump target in Articy, will jump to "end"`) {
		t.Errorf("dangling finding missing from log:\n%s", log)
	}

	recent, err := pipe.Recorder().Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(recent))
	}
	if recent[0].ID != res.RunID || recent[0].Files != 5 || recent[0].Err != "" {
		t.Errorf("unexpected run record: %+v", recent[0])
	}
}

func TestPipeline_Validate(t *testing.T) {
	set := testSettings(t)
	pipe, err := espalier.New(set, espalier.WithLoader(memory.NewLoader(storyGraph(), "story")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := pipe.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !res.DryRun {
		t.Error("Validate should report a dry run")
	}
	if res.Files != 5 || res.Diagnostics != 1 {
		t.Errorf("unexpected validate result: %+v", res)
	}
	if _, err := os.Stat(set.PathTargetDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Validate must not create the target directory, stat: %v", err)
	}
	if !strings.Contains(res.Report, "will jump to") {
		t.Errorf("report should carry the findings:\n%s", res.Report)
	}
}

func TestPipeline_Mermaid(t *testing.T) {
	set := testSettings(t)
	pipe, err := espalier.New(set, espalier.WithLoader(memory.NewLoader(storyGraph(), "story")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mmd, err := pipe.Mermaid(context.Background())
	if err != nil {
		t.Fatalf("Mermaid failed: %v", err)
	}
	if !strings.HasPrefix(mmd, "graph TD\n") {
		t.Errorf("chart should open with the flowchart header:\n%s", mmd)
	}
	for _, want := range []string{
		`subgraph 0x01["Chapter 1"]`,
		`0x02["Hello, wanderer."]`,
		"0x01 --> 0x02",
	} {
		if !strings.Contains(mmd, want) {
			t.Errorf("chart should contain %q:\n%s", want, mmd)
		}
	}
}

func TestPipeline_RefusesForeignContent(t *testing.T) {
	set := testSettings(t)
	if err := os.MkdirAll(set.PathTargetDir, 0o755); err != nil {
		t.Fatal(err)
	}
	foreign := filepath.Join(set.PathTargetDir, "handwritten.rpy")
	if err := os.WriteFile(foreign, []byte("label custom:\n    return\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	pipe, err := espalier.New(set, espalier.WithLoader(memory.NewLoader(storyGraph(), "story")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = pipe.Compile(context.Background())
	if !errors.Is(err, domain.ErrUnexpectedContent) {
		t.Fatalf("expected ErrUnexpectedContent, got %v", err)
	}
	if _, statErr := os.Stat(foreign); statErr != nil {
		t.Errorf("foreign file must survive an aborted run: %v", statErr)
	}

	recent, err := pipe.Recorder().Recent(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Err == "" {
		t.Errorf("failed run should be recorded with its error, got %+v", recent)
	}
}

func TestNew_RequiresSettings(t *testing.T) {
	if _, err := espalier.New(nil); err == nil {
		t.Fatal("expected an error for nil settings")
	}
}
