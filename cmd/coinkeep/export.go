package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV",
		Long:  `Write all transactions as CSV rows of title, type, value, category, preceded by a header.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.GetTransactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}

			var w io.Writer = os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = file.Close() }()
				w = file
			}

			cw := csv.NewWriter(w)
			defer cw.Flush()

			if err := cw.Write([]string{"title", "type", "value", "category"}); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
			for _, txn := range transactions {
				record := []string{txn.Title, string(txn.Type), txn.Value.String(), txn.Category.Title}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("failed to write transaction %s: %w", txn.ID, err)
				}
			}

			return cw.Error()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
