package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/pipeline"
)

// arrangeCommand creates the arrange command, the main entry point.
func (c *CLI) arrangeCommand() *cobra.Command {
	var (
		flags   configFlags
		output  string
		all     bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "arrange [document.json]",
		Short: "Arrange variant sets into attribute-driven grids",
		Long: `Arrange variant sets into attribute-driven grids.

The arrange command reads a document file, lays out every variant set in
scope (the stored selection by default, or all sets with --all), and writes
the arranged document back.

Variants group into blocks by their set attribute, sections by style, rows
by color, and columns by numeric size. Containers are resized to a tight
padded bounding box, and with --all the containers themselves are spaced
left to right.

A variant with non-zero rotation anywhere in scope aborts the run before
any mutation and inserts a rotation report into the document.

Computed plans are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			opts := pipeline.Options{Config: cfg, Refresh: refresh}
			if all {
				opts.Scope = pipeline.ScopeAll
			}
			return c.runArrange(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite input in place)")
	cmd.Flags().BoolVar(&all, "all", false, "arrange every set, not just the stored selection")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable plan caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute plans, bypassing the cache")

	return cmd
}

// runArrange loads the document, executes the run, and writes the result.
func (c *CLI) runArrange(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	if opts.Scope != pipeline.ScopeAll && len(doc.Selected) == 0 {
		// No stored selection: fall back to the whole document.
		opts.Scope = pipeline.ScopeAll
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Arranging variant sets...")
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Arrange failed")
		for _, n := range doc.Notifications {
			printDetail("%s", n)
		}
		return fmt.Errorf("arrange: %w", err)
	}
	spinner.Stop()

	if output == "" {
		output = input
	}
	if err := document.WriteFile(doc, output); err != nil {
		return fmt.Errorf("write document %s: %w", output, err)
	}

	printSuccess("Arranged %d variant sets", len(result.Arranged))
	printStats(len(result.Arranged), result.Stats.VariantCount, result.CacheInfo.PlanMisses == 0)
	for _, issue := range result.Skipped {
		printWarning("skipped %s: %s", issue.Set, issue.Message)
	}
	printFile(output)

	return nil
}
