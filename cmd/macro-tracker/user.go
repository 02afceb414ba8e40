// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/macro-tracker/internal/health"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users (create, list, show, health)",
}

// --- create subcommand ---

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create stores a new user. --id keeps a client-chosen id; without it the
database assigns one.`,
	RunE: runUserCreate,
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	u := userFromFlags(cmd)
	if u.Name == "" {
		return fmt.Errorf("--name is required")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.CreateUser(cmd.Context(), &u); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", u.ID, u.Name)
	return nil
}

func userFromFlags(cmd *cobra.Command) types.User {
	f := cmd.Flags()
	var u types.User
	u.ID, _ = f.GetInt64("id")
	u.Name, _ = f.GetString("name")
	u.Age, _ = f.GetInt("age")
	u.Weight, _ = f.GetFloat64("weight")
	u.Height, _ = f.GetFloat64("height")
	u.Gender, _ = f.GetString("gender")
	u.TargetMacros.Calories, _ = f.GetFloat64("target-calories")
	u.TargetMacros.Proteins, _ = f.GetFloat64("target-proteins")
	u.TargetMacros.Carbs, _ = f.GetFloat64("target-carbs")
	u.TargetMacros.Fats, _ = f.GetFloat64("target-fats")
	u.TargetMacros.Fiber, _ = f.GetFloat64("target-fiber")
	return u
}

// --- list subcommand ---

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		users, err := st.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(w, "No users.")
			return nil
		}
		fmt.Fprintf(w, "%-6s  %-24s  %4s  %7s  %7s\n", "ID", "Name", "Age", "Weight", "Height")
		for _, u := range users {
			fmt.Fprintf(w, "%-6d  %-24s  %4d  %7.1f  %7.1f\n", u.ID, u.Name, u.Age, u.Weight, u.Height)
		}
		return nil
	},
}

// --- show subcommand ---

var userShowCmd = &cobra.Command{
	Use:   "show <userId>",
	Short: "Print a user as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		u, err := st.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(u); err != nil {
			return fmt.Errorf("encoding user: %w", err)
		}
		return enc.Close()
	},
}

// --- health subcommand ---

var userHealthCmd = &cobra.Command{
	Use:   "health <userId>",
	Short: "Show BMI and estimated body fat for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		u, err := st.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		formatHealth(cmd.OutOrStdout(), *u, health.For(*u))
		return nil
	},
}

func formatHealth(w io.Writer, u types.User, r health.Report) {
	fmt.Fprintf(w, "%s: %.1f kg, %.0f cm\n", u.Name, r.Weight, r.Height)
	fmt.Fprintf(w, "BMI:      %.1f (%s)\n", r.BMI, r.Class)
	fmt.Fprintf(w, "Body fat: %.1f%%\n", r.BodyFat)
}

func parseID(s, kind string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

func init() {
	f := userCreateCmd.Flags()
	f.Int64("id", 0, "user id (default: assigned by the database)")
	f.String("name", "", "user name")
	f.Int("age", 0, "age in years")
	f.Float64("weight", 0, "weight in kg")
	f.Float64("height", 0, "height in cm")
	f.String("gender", "", "gender (male selects the male body-fat formula)")
	f.Float64("target-calories", 0, "daily calorie target (kcal)")
	f.Float64("target-proteins", 0, "daily protein target (g)")
	f.Float64("target-carbs", 0, "daily carbohydrate target (g)")
	f.Float64("target-fats", 0, "daily fat target (g)")
	f.Float64("target-fiber", 0, "daily fiber target (g)")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userHealthCmd)
	rootCmd.AddCommand(userCmd)
}
