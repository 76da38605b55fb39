package cmd

import (
	"fmt"

	"github.com/househunt/househunt-go/internal/config"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newMapCmd(c *cli) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Geocodes the shortlist and prints the map view and its markers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(cmd.Context()); err != nil {
				return err
			}

			canvas := c.app.MapCanvas
			if full {
				c.app.ToggleExpand()
				canvas = c.app.FullScreenCanvas
			} else {
				c.app.ToggleMap()
			}
			if err := c.wait(cmd.Context()); err != nil {
				return err
			}
			if full {
				c.app.FitToMarkers()
			}

			out := cmd.OutOrStdout()
			m := canvas()
			center, zoom := m.View()
			w, h := m.Size()
			fmt.Fprintln(out, c.app.MapStatus().Message)
			fmt.Fprintf(out, "View: %.5f, %.5f at zoom %d/%d (%dx%d px)\n", center.Lat, center.Lon, zoom, config.MaxZoom, w, h)

			markers := m.Markers()
			if len(markers) == 0 {
				return nil
			}
			items := c.app.Shortlist.Main.Capture()

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Lat", "Lon", "Address", "Price"})
			for _, it := range items {
				if !it.Geocoded() {
					continue
				}
				t.AppendRow(table.Row{
					fmt.Sprintf("%.5f", it.Coordinates.Lat),
					fmt.Sprintf("%.5f", it.Coordinates.Lon),
					it.Address,
					it.Price,
				})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "use the full-screen map")
	return cmd
}
