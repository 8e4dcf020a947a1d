// Package report renders a run's diagnostics into the log file written next
// to the generated scripts.
package report

import (
	"strings"

	"github.com/espalier-dev/espalier/pkg/domain"
)

const indent = "    "

// Report groups diagnostics by generated file, preserving discovery order
// of both files and lines.
type Report struct {
	order  []string
	byFile map[string][]string
	count  int
}

func New() *Report {
	return &Report{byFile: make(map[string][]string)}
}

// Add appends one diagnostic under its file.
func (r *Report) Add(d domain.Diagnostic) {
	if _, ok := r.byFile[d.File]; !ok {
		r.order = append(r.order, d.File)
	}
	line := d.Message
	if d.Label != "" {
		line = d.Label + " " + d.Message
	}
	r.byFile[d.File] = append(r.byFile[d.File], line)
	r.count++
}

// AddAll appends diagnostics in order.
func (r *Report) AddAll(ds []domain.Diagnostic) {
	for _, d := range ds {
		r.Add(d)
	}
}

// Len returns the number of diagnostics added.
func (r *Report) Len() int { return r.count }

// FileGroup is the rendered findings of one generated file.
type FileGroup struct {
	File  string   `json:"file"`
	Lines []string `json:"lines"`
}

// Groups returns the findings grouped per file in discovery order.
func (r *Report) Groups() []FileGroup {
	out := make([]FileGroup, 0, len(r.order))
	for _, f := range r.order {
		out = append(out, FileGroup{File: f, Lines: r.byFile[f]})
	}
	return out
}

// Render produces the log file content: a header line per file, its
// findings indented beneath. The log is written even when empty.
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString("\n")
	for _, g := range r.Groups() {
		b.WriteString(g.File)
		b.WriteString("\n")
		for _, line := range g.Lines {
			b.WriteString(indent)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
