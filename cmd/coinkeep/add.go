package main

import (
	"fmt"

	"github.com/coinkeep/coinkeep/internal/ledger"
	"github.com/coinkeep/coinkeep/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		title    string
		txnType  string
		rawValue string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single transaction",
		Long: `Add a single income or outcome transaction to the ledger.

An outcome transaction is rejected when its value exceeds the current
balance. The category is created automatically on first use.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			value, err := decimal.NewFromString(rawValue)
			if err != nil {
				return fmt.Errorf("value %q is not numeric: %w", rawValue, err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			txn, err := ledger.New(store).CreateTransaction(ctx, title, model.TransactionType(txnType), value, category)
			if err != nil {
				return err
			}

			fmt.Printf("Added %s transaction %s: %s %s (%s)\n",
				txn.Type, txn.ID, txn.Title, txn.Value, txn.Category.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "transaction title (required)")
	cmd.Flags().StringVar(&txnType, "type", "", "transaction type: income or outcome (required)")
	cmd.Flags().StringVarP(&rawValue, "value", "v", "", "transaction value (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category title (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Long:  `Delete a transaction by id. The category is kept even if no longer referenced.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := ledger.New(store).DeleteTransaction(ctx, args[0]); err != nil {
				return err
			}

			fmt.Printf("Deleted transaction %s\n", args[0])
			return nil
		},
	}
}
