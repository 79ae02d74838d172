package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/pipeline"
	"github.com/varigrid/varigrid/pkg/report"
	"github.com/varigrid/varigrid/pkg/validate"
)

// validateCommand creates the validate command for pre-flight checks.
func (c *CLI) validateCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "validate [document.json]",
		Short: "Check a document without arranging it",
		Long: `Check a document without arranging it.

The validate command runs the same pre-flight checks as 'arrange': the
rotation gate across all sets, then per-set checks for missing axis
attributes and duplicate canonical keys. Findings are printed; nothing is
modified.

Exits non-zero when any finding would abort or skip an arrange run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return c.runValidate(args[0], cfg)
		},
	}

	flags.register(cmd)
	return cmd
}

// runValidate prints all findings and fails when any exist.
func (c *CLI) runValidate(input string, cfg layout.Config) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	findings := 0

	// Rotation gate first, across all sets.
	var groups []report.Group
	for _, s := range doc.Sets {
		info, _ := pipeline.Scan(s)
		if names := validate.CheckRotation(info); len(names) > 0 {
			groups = append(groups, report.Group{Name: s.NodeName, Items: names})
			findings += len(names)
		}
	}
	if len(groups) > 0 {
		fmt.Println(report.RenderTerminal(report.Build(groups)))
	}

	// Per-set checks.
	for _, s := range doc.Sets {
		info, childCount := pipeline.Scan(s)
		if err := pipeline.CheckSet(info, childCount); err != nil {
			printWarning("%s: %v", s.NodeName, err)
			findings++
			continue
		}
		if missing := validate.CheckRequired(info, cfg.Attributes); len(missing) > 0 {
			printWarning("%s: no variant carries: %s", s.NodeName, strings.Join(missing, ", "))
			findings++
		}
		if key, dup := validate.CheckDuplicates(info); dup {
			printWarning("%s: multiple variants share key %q", s.NodeName, key)
			findings++
		}
	}

	if findings > 0 {
		return fmt.Errorf("%d validation findings", findings)
	}
	printSuccess("Document is ready to arrange (%d sets)", len(doc.Sets))
	printNextStep("Arrange", fmt.Sprintf("varigrid arrange %s --all", input))
	return nil
}
