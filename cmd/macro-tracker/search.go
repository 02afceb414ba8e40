// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/macro-tracker/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search FoodData Central for foods",
	Long: `Search queries FoodData Central for foods matching the query. Each
--data-type flag adds a backend restricted to that comma-separated group of
data types; results are deduplicated across backends by FDC id and shown with
their macros per 100 g.

Use --save to keep the results in a YAML file and --from to show a saved
file again without calling the API.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		qf, err := search.ReadQueryFile(from)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Query: %s (saved %s)\n", qf.Query, qf.Summary.Timestamp.Format("2006-01-02 15:04"))
		return printSearchOutput(w, qf.Output(), jsonOutput)
	}

	query := search.Query{Text: strings.Join(args, " ")}
	if query.IsEmpty() {
		return search.ErrEmptyQuery
	}

	scfg := cfg.Search
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		scfg.MaxResults = n
	}
	if noHydrate, _ := cmd.Flags().GetBool("no-hydrate"); noHydrate {
		scfg.Hydrate = false
	}

	groups, _ := cmd.Flags().GetStringArray("data-type")
	client := newFDCClient()
	backends := search.Backends(client, dataTypeGroups(groups)...)

	out, err := search.Search(cmd.Context(), query, backends, client, scfg)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := search.WriteQueryFile(save, query, backends, scfg, out); err != nil {
			return err
		}
		logger.WithField("path", save).Info("saved search results")
	}

	return printSearchOutput(w, out, jsonOutput)
}

func printSearchOutput(w io.Writer, out search.Output, jsonOutput bool) error {
	if jsonOutput {
		return search.FormatJSON(out, w)
	}
	search.FormatTable(out, w)
	return nil
}

// dataTypeGroups splits each flag value on commas, dropping empty entries.
func dataTypeGroups(values []string) [][]string {
	var groups [][]string
	for _, v := range values {
		var g []string
		for _, dt := range strings.Split(v, ",") {
			if dt = strings.TrimSpace(dt); dt != "" {
				g = append(g, dt)
			}
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

func init() {
	searchCmd.Flags().StringArray("data-type", nil, `FDC data types for one backend, comma-separated (repeatable, e.g. "Foundation,SR Legacy")`)
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (overrides search.max_results)")
	searchCmd.Flags().Bool("no-hydrate", false, "do not fetch full records for hits without nutrients")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "write the query and results to this YAML file")
	searchCmd.Flags().String("from", "", "show results from a saved YAML file instead of searching")

	rootCmd.AddCommand(searchCmd)
}
