package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/surface"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var errRequirementsFull = fmt.Errorf("requirements are full (%d max)", model.Capacity)

func newRequirementsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "req",
		Aliases: []string{"requirements"},
		Short:   "Manages the requirements checklist.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Prints the requirements.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.requireSession(cmd.Context()); err != nil {
					return err
				}
				renderRequirements(cmd.OutOrStdout(), c.app.Requirements.Main.Capture())
				return nil
			},
		},
		&cobra.Command{
			Use:   "add [text]",
			Short: "Adds a requirement, blank unless text is given.",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.requireSession(cmd.Context()); err != nil {
					return err
				}
				main := c.app.Requirements.Main
				if !c.app.AddRequirement(surface.Main) {
					return errRequirementsFull
				}
				if err := c.wait(cmd.Context()); err != nil {
					return err
				}
				if text := strings.Join(args, " "); text != "" {
					if err := main.SetText(main.Size()-1, surface.FieldText, text); err != nil {
						return err
					}
				}
				return c.listRequirements(cmd)
			},
		},
		&cobra.Command{
			Use:   "set <row> <text>",
			Short: "Replaces the text of a requirement.",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.editRequirement(cmd, args[0], func(main *surface.Renderer[model.RequirementItem], i int) error {
					return main.SetText(i, surface.FieldText, strings.Join(args[1:], " "))
				})
			},
		},
		&cobra.Command{
			Use:   "check <row>",
			Short: "Ticks a requirement.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.editRequirement(cmd, args[0], func(main *surface.Renderer[model.RequirementItem], i int) error {
					return main.SetChecked(i, surface.FieldChecked, true)
				})
			},
		},
		&cobra.Command{
			Use:   "uncheck <row>",
			Short: "Unticks a requirement.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.editRequirement(cmd, args[0], func(main *surface.Renderer[model.RequirementItem], i int) error {
					return main.SetChecked(i, surface.FieldChecked, false)
				})
			},
		},
		&cobra.Command{
			Use:     "rm <row>",
			Aliases: []string{"delete"},
			Short:   "Deletes a requirement.",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.editRequirement(cmd, args[0], func(main *surface.Renderer[model.RequirementItem], i int) error {
					return main.Delete(i)
				})
			},
		},
	)
	return cmd
}

func (c *cli) editRequirement(cmd *cobra.Command, row string, edit func(*surface.Renderer[model.RequirementItem], int) error) error {
	if err := c.requireSession(cmd.Context()); err != nil {
		return err
	}
	main := c.app.Requirements.Main
	i, err := rowArg(row, main.Size())
	if err != nil {
		return err
	}
	if err := edit(main, i); err != nil {
		return err
	}
	return c.listRequirements(cmd)
}

// listRequirements waits for the save to round-trip and prints what the
// backend now holds.
func (c *cli) listRequirements(cmd *cobra.Command) error {
	if err := c.wait(cmd.Context()); err != nil {
		return err
	}
	renderRequirements(cmd.OutOrStdout(), c.app.Requirements.Main.Capture())
	return nil
}

func renderRequirements(w io.Writer, items []model.RequirementItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No requirements yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Done", "Requirement"})
	for i, it := range items {
		done := ""
		if it.Checked {
			done = "✓"
		}
		t.AppendRow(table.Row{i + 1, done, it.Text})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d/%d", len(items), model.Capacity)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
