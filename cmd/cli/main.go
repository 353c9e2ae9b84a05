package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/client"
)

var (
	baseURL      string
	freelancerID string
	authToken    string
	timeout      time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "escrow-cli",
		Short: "Gigvora escrow CLI",
		Long:  `A command line interface for the Gigvora escrow service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the escrow API")
	rootCmd.PersistentFlags().StringVar(&freelancerID, "freelancer", os.Getenv("ESCROW_FREELANCER_ID"), "Freelancer id to act as")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("ESCROW_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		overviewCmd(),
		fundCmd(),
		releaseCmd(),
		refundCmd(),
		openDisputeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEscrowClient() *client.Client {
	return client.New(client.Config{
		BaseURL:      baseURL,
		FreelancerID: freelancerID,
		AuthToken:    authToken,
		HTTPClient:   &http.Client{Timeout: timeout},
		Logger:       zerolog.Nop(),
	})
}

func overviewCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Fetch the escrow overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters *client.OverviewFilters
			if status != "" {
				filters = &client.OverviewFilters{Status: status}
			}

			result, err := newEscrowClient().FetchOverview(context.Background(), filters)
			if err != nil {
				return err
			}

			printJSON(result.Overview)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter transactions by status")

	return cmd
}

func fundCmd() *cobra.Command {
	var (
		accountID string
		reference string
		amount    string
		fee       string
	)

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Fund a milestone into escrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			feeAmt := decimal.Zero
			if fee != "" {
				if feeAmt, err = decimal.NewFromString(fee); err != nil {
					return fmt.Errorf("invalid fee: %w", err)
				}
			}

			txn, err := newEscrowClient().CreateTransaction(context.Background(), dto.CreateTransactionRequest{
				AccountID: accountID,
				Reference: reference,
				Amount:    amt,
				FeeAmount: feeAmt,
			})
			if err != nil {
				return err
			}

			printJSON(dto.TransactionFromDomain(txn))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Escrow account id")
	cmd.Flags().StringVar(&reference, "reference", "", "Transaction reference")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to fund")
	cmd.Flags().StringVar(&fee, "fee", "", "Fee amount")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func releaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release <transaction-id>",
		Short: "Release a held transaction to the freelancer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txn, err := newEscrowClient().ReleaseTransaction(context.Background(), args[0])
			if err != nil {
				return err
			}

			printJSON(dto.TransactionFromDomain(txn))
			return nil
		},
	}
}

func refundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refund <transaction-id>",
		Short: "Refund a held transaction to the counterparty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txn, err := newEscrowClient().RefundTransaction(context.Background(), args[0])
			if err != nil {
				return err
			}

			printJSON(dto.TransactionFromDomain(txn))
			return nil
		},
	}
}

func openDisputeCmd() *cobra.Command {
	var (
		reason   string
		priority string
		summary  string
	)

	cmd := &cobra.Command{
		Use:   "open-dispute <transaction-id>",
		Short: "Open a dispute against a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispute, err := newEscrowClient().OpenDispute(context.Background(), args[0], dto.OpenDisputeRequest{
				ReasonCode: reason,
				Priority:   priority,
				Summary:    summary,
			})
			if err != nil {
				return err
			}

			printJSON(dto.DisputeFromDomain(dispute))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason code (quality_gap|scope_mismatch|delay|billing)")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (low|medium|high)")
	cmd.Flags().StringVar(&summary, "summary", "", "Dispute summary")
	cmd.MarkFlagRequired("reason")

	return cmd
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
	}
}
