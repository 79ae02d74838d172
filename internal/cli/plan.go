package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/pipeline"
)

// planCommand creates the plan command for computing grids without mutating
// the document.
func (c *CLI) planCommand() *cobra.Command {
	var (
		flags   configFlags
		output  string
		setName string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "plan [document.json]",
		Short: "Compute grid plans without touching the document",
		Long: `Compute grid plans without touching the document.

The plan command scans every variant set (or one named set with --set),
computes the canonical-key → coordinate mapping each would receive, and
prints the plans as JSON. The document file is never modified.

Use 'arrange' to apply the plans.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			opts := pipeline.Options{Config: cfg, Scope: pipeline.ScopeAll, Refresh: refresh}
			return c.runPlan(cmd.Context(), args[0], opts, setName, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&setName, "set", "", "plan only the set with this name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable plan caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute plans, bypassing the cache")

	return cmd
}

// runPlan computes and prints the plans.
func (c *CLI) runPlan(ctx context.Context, input string, opts pipeline.Options, setName, output string, noCache bool) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	plans := make(map[string]map[string]layout.Point)
	for _, s := range doc.Sets {
		if setName != "" && s.NodeName != setName {
			continue
		}
		info, childCount := pipeline.Scan(s)
		if err := pipeline.CheckSet(info, childCount); err != nil {
			printWarning("skipped %s: %v", s.NodeName, err)
			continue
		}
		plan, err := runner.Plan(ctx, info, opts)
		if err != nil {
			printWarning("skipped %s: %v", s.NodeName, err)
			continue
		}
		plans[s.NodeName] = plan
	}
	if setName != "" && len(plans) == 0 {
		return fmt.Errorf("no plannable set named %q", setName)
	}
	prog.done(fmt.Sprintf("Planned %d variant sets", len(plans)))

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plans); err != nil {
		return fmt.Errorf("encode plans: %w", err)
	}
	if output != "" {
		printSuccess("Planned %d variant sets", len(plans))
		printFile(output)
		printNextStep("Apply", fmt.Sprintf("varigrid arrange %s --all", input))
	}
	return nil
}
