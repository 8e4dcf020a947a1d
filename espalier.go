package espalier

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/espalier-dev/espalier/internal/compiler"
	"github.com/espalier-dev/espalier/internal/logging"
	"github.com/espalier-dev/espalier/internal/presentation/graph"
	"github.com/espalier-dev/espalier/internal/reconcile"
	"github.com/espalier-dev/espalier/internal/report"
	"github.com/espalier-dev/espalier/pkg/adapters/articy"
	"github.com/espalier-dev/espalier/pkg/adapters/memory"
	"github.com/espalier-dev/espalier/pkg/config"
	"github.com/espalier-dev/espalier/pkg/domain"
	"github.com/espalier-dev/espalier/pkg/ports"
)

// Pipeline is the high-level entry point: load a flow graph, compile it,
// reconcile the target directory and report diagnostics.
type Pipeline struct {
	set      *config.Settings
	loader   ports.GraphLoader
	assets   ports.AssetIndex
	recorder ports.RunRecorder
	logger   *slog.Logger
	dryRun   bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoader injects a custom graph loader, bypassing the default JSON
// export adapter.
func WithLoader(l ports.GraphLoader) Option {
	return func(p *Pipeline) {
		p.loader = l
	}
}

// WithAssetIndex injects a custom asset index.
func WithAssetIndex(a ports.AssetIndex) Option {
	return func(p *Pipeline) {
		p.assets = a
	}
}

// WithRecorder injects a run history recorder.
func WithRecorder(r ports.RunRecorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithDryRun compiles and reports without writing the target directory.
func WithDryRun(dry bool) Option {
	return func(p *Pipeline) {
		p.dryRun = dry
	}
}

// New builds a pipeline from settings.
func New(set *config.Settings, opts ...Option) (*Pipeline, error) {
	if set == nil {
		return nil, fmt.Errorf("settings are required")
	}
	p := &Pipeline{set: set}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.loader == nil {
		p.loader = articy.NewLoader(set.PathArticyJSON, articy.Options{
			RawBoxTypes:            set.RawBoxTypes(),
			CharacterParamFeatures: set.CharacterParamFeatures(),
			CharacterNameVariable:  set.CharacterNameVariable,
		})
	}
	if p.assets == nil {
		// Asset references resolve against the Ren'Py game directory the
		// target lives in.
		p.assets = articy.NewDirAssetIndex(filepath.Dir(set.PathTargetDir))
	}
	if p.recorder == nil {
		p.recorder = memory.NewRecorder(0)
	}
	return p, nil
}

// Result summarizes one compile run.
type Result struct {
	// RunID identifies the run in the recorded history.
	RunID string `json:"run_id"`

	// Files is the number of files the run produces, the log included.
	Files int `json:"files"`

	// Diagnostics is the number of non-fatal findings.
	Diagnostics int `json:"diagnostics"`

	// Report is the rendered log file content.
	Report string `json:"report"`

	Duration time.Duration `json:"duration_ns"`
	DryRun   bool          `json:"dry_run"`
}

// Compile runs the full pipeline and records the outcome in the run
// history, whether it succeeded or failed.
func (p *Pipeline) Compile(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := p.compile(ctx)

	rec := ports.RunRecord{
		ID:        uuid.NewString(),
		StartedAt: start,
		Duration:  time.Since(start),
		DryRun:    p.dryRun,
	}
	if err != nil {
		rec.Err = err.Error()
	} else {
		rec.Files = res.Files
		rec.Diagnostics = res.Diagnostics
	}
	if rerr := p.recorder.Record(ctx, rec); rerr != nil {
		p.logger.Warn("failed to record run", "error", rerr)
	}
	if res != nil {
		res.RunID = rec.ID
		res.Duration = rec.Duration
	}
	return res, err
}

func (p *Pipeline) compile(ctx context.Context) (*Result, error) {
	g, err := p.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.loader.Source(), err)
	}
	p.logger.Info("loaded flow graph",
		"source", p.loader.Source(),
		"nodes", len(g.Nodes),
		"entities", len(g.Entities))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := compiler.Compile(g, p.set, p.assets)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	rep := report.New()
	rep.AddAll(out.Diagnostics)

	files := make([]reconcile.File, 0, len(out.Units)+1)
	for _, u := range out.Units {
		files = append(files, reconcile.File{Path: u.Path(), Content: u.Render()})
	}
	files = append(files, reconcile.File{
		Path:    p.set.FilePrefix + p.set.LogFileName,
		Content: rep.Render(),
	})

	result := &Result{
		Files:       len(files),
		Diagnostics: rep.Len(),
		Report:      rep.Render(),
		DryRun:      p.dryRun,
	}
	if p.dryRun {
		p.logger.Info("dry run, target directory untouched",
			"files", result.Files, "diagnostics", result.Diagnostics)
		return result, nil
	}

	fp := reconcile.NewFootprint(p.set.FilePrefix, out.Subdirs())
	if err := reconcile.Reconcile(p.set.PathTargetDir, files, fp, p.logger); err != nil {
		return nil, err
	}
	p.logger.Info("wrote output",
		"target", p.set.PathTargetDir,
		"files", result.Files,
		"diagnostics", result.Diagnostics)
	return result, nil
}

// Validate compiles without writing anything, reporting what a real run
// would produce.
func (p *Pipeline) Validate(ctx context.Context) (*Result, error) {
	v := *p
	v.dryRun = true
	return v.Compile(ctx)
}

// Graph loads and returns the flow graph without compiling it.
func (p *Pipeline) Graph(ctx context.Context) (*domain.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := p.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.loader.Source(), err)
	}
	return g, nil
}

// Mermaid loads the flow graph and renders it as a Mermaid flowchart.
func (p *Pipeline) Mermaid(ctx context.Context) (string, error) {
	g, err := p.Graph(ctx)
	if err != nil {
		return "", err
	}
	return graph.Mermaid(g), nil
}

// Source returns the path (or name) of the flow export being compiled.
func (p *Pipeline) Source() string { return p.loader.Source() }

// Recorder returns the run history recorder.
func (p *Pipeline) Recorder() ports.RunRecorder { return p.recorder }

// Settings returns the pipeline's settings.
func (p *Pipeline) Settings() *config.Settings { return p.set }
