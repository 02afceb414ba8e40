// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/macro-tracker/internal/macros"
	"github.com/pdiddy/macro-tracker/internal/mealplan"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

var macrosCmd = &cobra.Command{
	Use:   "macros <fdcId>",
	Short: "Show the macros of one food for a given amount",
	Long: `Macros fetches the full FDC record for a food and prints its protein,
carbohydrate, fat, energy and fiber values scaled to --amount, together with
the rule that resolved each value.`,
	Args: cobra.ExactArgs(1),
	RunE: runMacros,
}

// MacroLine is one resolved category in the macros output.
type MacroLine struct {
	Category   string  `json:"category"`
	PerHundred float64 `json:"per_100"`
	Value      float64 `json:"value"`
	Rule       string  `json:"rule"`
}

// MacroReport is the JSON form of the macros output.
type MacroReport struct {
	FdcID       int               `json:"fdcId"`
	Description string            `json:"description"`
	Amount      float64           `json:"amount"`
	Macros      types.MacroTotals `json:"macros"`
	Lines       []MacroLine       `json:"lines"`
}

func runMacros(cmd *cobra.Command, args []string) error {
	fdcID, err := strconv.Atoi(args[0])
	if err != nil || fdcID <= 0 {
		return fmt.Errorf("invalid FDC id %q", args[0])
	}
	amount, _ := cmd.Flags().GetFloat64("amount")
	if err := mealplan.ValidateAmount(amount); err != nil {
		return err
	}

	food, err := newFDCClient().Get(cmd.Context(), fdcID)
	if err != nil {
		return err
	}

	report := buildMacroReport(*food, amount)
	if report.Macros.IsZero() {
		logger.WithField("fdc_id", fdcID).Warn("food has no usable nutrient data")
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	formatMacroReport(cmd.OutOrStdout(), report)
	return nil
}

func buildMacroReport(food types.FoodRecord, amount float64) MacroReport {
	r := MacroReport{
		FdcID:       food.FdcID,
		Description: food.Description,
		Amount:      amount,
		Macros:      macros.Compute(food, amount),
	}
	for _, c := range macros.Categories {
		v, rule := macros.Resolve(food, c)
		r.Lines = append(r.Lines, MacroLine{
			Category:   c.Name,
			PerHundred: v,
			Value:      v * amount / 100,
			Rule:       rule,
		})
	}
	return r
}

func formatMacroReport(w io.Writer, r MacroReport) {
	fmt.Fprintf(w, "%s (FDC %d), %g g\n", r.Description, r.FdcID, r.Amount)
	fmt.Fprintln(w, strings.Repeat("-", 64))
	fmt.Fprintf(w, "%-14s  %10s  %10s  %s\n", "Category", "Per 100", "Amount", "Rule")
	for _, l := range r.Lines {
		fmt.Fprintf(w, "%-14s  %10.2f  %10.2f  %s\n", l.Category, l.PerHundred, l.Value, l.Rule)
	}
}

func init() {
	macrosCmd.Flags().Float64("amount", 100, "quantity in grams")
	macrosCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(macrosCmd)
}
