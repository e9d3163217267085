package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/coinkeep/coinkeep/internal/importer"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import transactions from a delimited file",
		Long: `Import transactions from a delimited text file.

The file's first line is treated as a header and skipped. Each following
line holds four fields: title, type, value, category. Rows missing a
title, type, or value are dropped silently. Referenced categories are
created as needed; the whole batch commits or fails as a unit.

The source file is deleted after a successful import unless --keep is set.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("delimiter", ",", "field delimiter")
	cmd.Flags().Bool("dry-run", false, "parse and report without persisting")
	cmd.Flags().Bool("keep", false, "keep the source file after a successful import")

	_ = viper.BindPFlag("import.delimiter", cmd.Flags().Lookup("delimiter"))
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("import.keep", cmd.Flags().Lookup("keep"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	delim := viper.GetString("import.delimiter")
	if len([]rune(delim)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", delim)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	// Phase one: drain the stream completely before reconciling, so every
	// referenced category can be resolved in one pass. The row count is
	// unknown until the stream ends, so the bar runs in spinner mode.
	parser := importer.NewParserDelim(file, []rune(delim)[0])
	bar := progressbar.Default(-1, "parsing")

	var rows []importer.RawRow
	var parseErr error
	for {
		row, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			parseErr = err
			break
		}
		rows = append(rows, row)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	closeErr := file.Close()
	if parseErr != nil {
		return parseErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", path, closeErr)
	}

	slog.Info("parsed import file", "path", path, "rows", len(rows))

	if viper.GetBool("import.dry_run") {
		fmt.Printf("Dry run: %d rows would be imported from %s\n", len(rows), path)
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	imported, err := importer.NewReconciler(store).Import(ctx, rows)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d transactions\n", len(imported))

	// The source is consumed; discard it unless asked otherwise.
	if !viper.GetBool("import.keep") {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("imported, but failed to remove %s: %w", path, err)
		}
		slog.Info("removed source file", "path", path)
	}

	return nil
}
