// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/macro-tracker/internal/mealplan"
	"github.com/pdiddy/macro-tracker/internal/store"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage meal plans and their items",
	Long: `Plan manages a user's meal plans. Foods are added by FDC id and amount;
their macros are computed when the item is added and stored with it.`,
}

// --- create subcommand ---

var planCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a meal plan for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")
		name, _ := cmd.Flags().GetString("name")
		desc, _ := cmd.Flags().GetString("description")
		if userID <= 0 {
			return fmt.Errorf("--user is required")
		}
		if name == "" {
			return fmt.Errorf("--name is required")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p := types.MealPlan{UserID: userID, Name: name, Description: desc}
		if err := st.CreatePlan(cmd.Context(), &p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created plan %d (%s) for user %d\n", p.ID, p.Name, p.UserID)
		return nil
	},
}

// --- list subcommand ---

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's meal plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")
		if userID <= 0 {
			return fmt.Errorf("--user is required")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		plans, err := st.ListPlans(cmd.Context(), userID)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(plans) == 0 {
			fmt.Fprintln(w, "No meal plans.")
			return nil
		}
		fmt.Fprintf(w, "%-6s  %-30s  %5s  %8s\n", "ID", "Name", "Items", "kcal")
		for _, p := range plans {
			var total types.MacroTotals
			for _, it := range p.Items {
				total = total.Add(it.Macros())
			}
			fmt.Fprintf(w, "%-6d  %-30s  %5d  %8.0f\n", p.ID, p.Name, len(p.Items), total.Calories)
		}
		return nil
	},
}

// --- show subcommand ---

var planShowCmd = &cobra.Command{
	Use:   "show <planId>",
	Short: "Show a plan's items, totals per meal and progress against targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parseID(args[0], "plan")
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		plan, err := st.GetPlan(cmd.Context(), planID)
		if err != nil {
			return err
		}
		user, err := st.GetUser(cmd.Context(), plan.UserID)
		if err != nil {
			return err
		}

		summary := mealplan.Summarize(*plan, user.TargetMacros)
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}
		mealplan.FormatSummary(summary, cmd.OutOrStdout())
		return nil
	},
}

// --- add subcommand ---

var planAddCmd = &cobra.Command{
	Use:   "add <planId> <fdcId>",
	Short: "Add a food to a plan",
	Long: `Add fetches the food from FoodData Central, computes its macros for
--amount grams and stores it in the --meal slot of the plan.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parseID(args[0], "plan")
		if err != nil {
			return err
		}
		fdcID, err := strconv.Atoi(args[1])
		if err != nil || fdcID <= 0 {
			return fmt.Errorf("invalid FDC id %q", args[1])
		}
		amount, _ := cmd.Flags().GetFloat64("amount")
		meal, _ := cmd.Flags().GetString("meal")
		mealType, err := mealplan.ParseMealType(meal)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		svc := mealplanService(st)
		item, err := svc.AddFood(cmd.Context(), planID, fdcID, amount, mealType)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added item %d: %s, %g g to %s (%.0f kcal)\n",
			item.ID, item.FoodName, item.Amount, item.MealType.Label(), item.Calories)
		return nil
	},
}

// --- move subcommand ---

var planMoveCmd = &cobra.Command{
	Use:   "move <itemId> <mealType>",
	Short: "Move an item to another meal slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseID(args[0], "item")
		if err != nil {
			return err
		}
		mealType, err := mealplan.ParseMealType(args[1])
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := mealplanService(st).MoveItem(cmd.Context(), itemID, mealType); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved item %d to %s\n", itemID, mealType.Label())
		return nil
	},
}

// --- remove subcommand ---

var planRemoveCmd = &cobra.Command{
	Use:   "remove <itemId>",
	Short: "Remove an item from its plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseID(args[0], "item")
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteItem(cmd.Context(), itemID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", itemID)
		return nil
	},
}

func mealplanService(st *store.Store) *mealplan.Service {
	return &mealplan.Service{Store: st, Foods: newFDCClient()}
}

func init() {
	planCreateCmd.Flags().Int64("user", 0, "owner user id")
	planCreateCmd.Flags().String("name", "", "plan name")
	planCreateCmd.Flags().String("description", "", "plan description")

	planListCmd.Flags().Int64("user", 0, "owner user id")

	planShowCmd.Flags().Bool("json", false, "output the summary as JSON")

	planAddCmd.Flags().Float64("amount", 100, "quantity in grams")
	planAddCmd.Flags().String("meal", string(types.Breakfast), "meal slot: breakfast, snack1, lunch, snack2 or dinner")

	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planMoveCmd)
	planCmd.AddCommand(planRemoveCmd)
	rootCmd.AddCommand(planCmd)
}
