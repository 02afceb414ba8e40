// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/macro-tracker/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's meal plans as YAML, JSON or CSV",
	Long: `Export writes one user's profile, meal plans and items. YAML and JSON
carry the full structure; CSV has one row per item. Without --out the file is
written to store.export_dir as user-<id>.<format>; --out - writes to stdout.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetInt64("user")
	if userID <= 0 {
		return fmt.Errorf("--user is required")
	}
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	out, _ := cmd.Flags().GetString("out")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if out == "-" {
		return st.Export(cmd.Context(), userID, format, cmd.OutOrStdout())
	}
	if out == "" {
		out = exportPath(cfg.Store.ExportDir, userID, format)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := st.Export(cmd.Context(), userID, format, f); err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported user %d to %s\n", userID, out)
	return nil
}

func exportPath(dir string, userID int64, format string) string {
	if dir == "" {
		dir = "exports"
	}
	ext := format
	if ext == "yml" {
		ext = store.FormatYAML
	}
	return filepath.Join(dir, fmt.Sprintf("user-%d.%s", userID, ext))
}

func init() {
	exportCmd.Flags().Int64("user", 0, "user id")
	exportCmd.Flags().String("format", store.FormatYAML, "yaml, json or csv")
	exportCmd.Flags().String("out", "", "output file, or - for stdout")

	rootCmd.AddCommand(exportCmd)
}
