package cmd

import (
	"fmt"
	"io"

	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/surface"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var errShortlistFull = fmt.Errorf("shortlist is full (%d max)", model.Capacity)

var shortlistFields = []string{
	surface.FieldAddress,
	surface.FieldPrice,
	surface.FieldBedrooms,
	surface.FieldType,
	surface.FieldLink,
}

func newShortlistCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "short",
		Aliases: []string{"shortlist"},
		Short:   "Manages the property shortlist.",
	}

	var fields [5]string
	add := &cobra.Command{
		Use:   "add",
		Short: "Adds a property, blank unless fields are given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(cmd.Context()); err != nil {
				return err
			}
			main := c.app.Shortlist.Main
			if !c.app.AddShortlistItem(surface.Main) {
				return errShortlistFull
			}
			if err := c.wait(cmd.Context()); err != nil {
				return err
			}
			// Fields are saved one at a time, like typing into each input.
			row := main.Size() - 1
			for i, name := range shortlistFields {
				if fields[i] == "" {
					continue
				}
				if err := main.SetText(row, name, fields[i]); err != nil {
					return err
				}
				if err := c.wait(cmd.Context()); err != nil {
					return err
				}
			}
			return c.listShortlist(cmd)
		},
	}
	for i, name := range shortlistFields {
		add.Flags().StringVar(&fields[i], name, "", "property "+name)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Prints the shortlist.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.requireSession(cmd.Context()); err != nil {
					return err
				}
				renderShortlist(cmd.OutOrStdout(), c.app.Shortlist.Main.Capture())
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:       "set <row> <field> <value>",
			Short:     "Changes one field of a property.",
			Args:      cobra.ExactArgs(3),
			ValidArgs: shortlistFields,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.editShortlist(cmd, args[0], func(main *surface.Renderer[model.ShortlistItem], i int) error {
					return main.SetText(i, args[1], args[2])
				})
			},
		},
		&cobra.Command{
			Use:     "rm <row>",
			Aliases: []string{"delete"},
			Short:   "Deletes a property.",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.editShortlist(cmd, args[0], func(main *surface.Renderer[model.ShortlistItem], i int) error {
					return main.Delete(i)
				})
			},
		},
	)
	return cmd
}

func (c *cli) editShortlist(cmd *cobra.Command, row string, edit func(*surface.Renderer[model.ShortlistItem], int) error) error {
	if err := c.requireSession(cmd.Context()); err != nil {
		return err
	}
	main := c.app.Shortlist.Main
	i, err := rowArg(row, main.Size())
	if err != nil {
		return err
	}
	if err := edit(main, i); err != nil {
		return err
	}
	return c.listShortlist(cmd)
}

func (c *cli) listShortlist(cmd *cobra.Command) error {
	if err := c.wait(cmd.Context()); err != nil {
		return err
	}
	renderShortlist(cmd.OutOrStdout(), c.app.Shortlist.Main.Capture())
	return nil
}

func renderShortlist(w io.Writer, items []model.ShortlistItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No properties shortlisted yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Address", "Price", "Beds", "Type", "Link", "Pinned"})
	for i, it := range items {
		pinned := ""
		if it.Geocoded() {
			pinned = fmt.Sprintf("%.5f, %.5f", it.Coordinates.Lat, it.Coordinates.Lon)
		}
		t.AppendRow(table.Row{i + 1, it.Address, it.Price, it.Bedrooms, it.Type, it.Link, pinned})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("%d/%d", len(items), model.Capacity)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
