package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/internal/presentation/tui"
	"github.com/espalier-dev/espalier/pkg/config"
)

// RunCompile executes one compile run and prints its summary.
func RunCompile(opts RunOptions) error {
	pipe, set, _, err := NewPipeline(opts)
	if err != nil {
		return err
	}

	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	res, err := pipe.Compile(ctx)
	if err != nil {
		return err
	}
	printSummary(res, set)
	return nil
}

// RunValidate compiles without writing and reports what a run would do.
// Findings are informational; only a failed compile is an error.
func RunValidate(opts RunOptions) error {
	opts.DryRun = true
	pipe, set, _, err := NewPipeline(opts)
	if err != nil {
		return err
	}

	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	res, err := pipe.Validate(ctx)
	if err != nil {
		return err
	}
	printSummary(res, set)
	return nil
}

// printSummary renders the run result as markdown for the terminal.
func printSummary(res *espalier.Result, set *config.Settings) {
	var md strings.Builder
	md.WriteString("## espalier run\n\n")
	if res.DryRun {
		fmt.Fprintf(&md, "- dry run: **%d** files would be written to `%s`\n", res.Files, set.PathTargetDir)
	} else {
		fmt.Fprintf(&md, "- wrote **%d** files to `%s`\n", res.Files, set.PathTargetDir)
	}
	if res.Diagnostics == 0 {
		md.WriteString("- no findings\n")
	} else {
		fmt.Fprintf(&md, "- **%d** findings logged to `%s`\n", res.Diagnostics, set.FilePrefix+set.LogFileName)
		fmt.Fprintf(&md, "\n```\n%s\n```\n", strings.TrimSpace(res.Report))
	}

	render := tui.NewRenderer()
	out, err := render(md.String())
	if err != nil {
		fmt.Print(md.String())
		return
	}
	fmt.Print(out)
}
