package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/service"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newScrapeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <rightmove search url>",
		Short: "Counts the listings behind a Rightmove search and records it in the history.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := ""
			if len(args) > 0 {
				url = args[0]
			}

			res, err := c.app.Search.Scrape(cmd.Context(), url)
			if err != nil {
				return errors.New(service.ScrapeMessage(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Number of results: %s\n", res.Results)
			renderHistory(cmd.OutOrStdout(), res.History)
			return nil
		},
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Prints past searches and their result counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.session.Valid() {
				return errNotLoggedIn
			}
			renderHistory(cmd.OutOrStdout(), c.app.Search.History(cmd.Context()))
			return nil
		},
	}
}

func newAskCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Asks the property expert a question. No login needed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, err := c.app.Expert.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				var ve *service.ValidationError
				if errors.As(err, &ve) {
					return err
				}
				return fmt.Errorf("failed to get answer: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func renderHistory(w io.Writer, history []model.HistoryEntry) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No search history yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Results", "URL"})
	for _, h := range history {
		t.AppendRow(table.Row{h.Date, h.Results.String(), h.URL})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
