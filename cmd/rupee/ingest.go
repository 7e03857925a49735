package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/classify"
	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/ingest"
	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// ingestRetryOpts retries events that hit transient database contention,
// such as another rupee process holding the write lock. Caller mistakes are
// never retried.
var ingestRetryOpts = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
}

func ingestCmd() *cobra.Command {
	var (
		sender   string
		merchant string
		upiID    string
		account  string
		amount   string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "ingest [raw-text]",
		Short: "Turn bank notification text into categorized entries",
		Long: `Ingest one notification text as an argument, or a batch from a
JSON-lines file with --file. Each event is categorized against your rules and
the keyword table, then recorded with its balance effect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := ingest.NewService(
				classify.NewCategorizer(store),
				ledger.NewReconciler(store),
			)

			if file != "" {
				return ingestFile(cmd, svc, file)
			}
			if len(args) == 0 {
				return fmt.Errorf("provide raw notification text or --file")
			}

			parsed, err := model.ParseMoney(amount)
			if err != nil {
				return err
			}

			var entry *model.Entry
			err = common.WithRetry(ctx, func() error {
				var ingestErr error
				entry, ingestErr = svc.Ingest(ctx, ingest.Event{
					Sender:       sender,
					RawText:      args[0],
					MerchantName: merchant,
					UPIID:        upiID,
					AccountID:    account,
					Amount:       parsed,
				})
				return ingestErr
			}, ingestRetryOpts)
			if err != nil {
				return userFacing("failed to ingest", err)
			}

			printIngested(store, cmd, entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "SMS sender ID")
	cmd.Flags().StringVar(&merchant, "merchant", "", "merchant name if already extracted")
	cmd.Flags().StringVar(&upiID, "upi", "", "UPI handle if already extracted")
	cmd.Flags().StringVar(&account, "account", "", "account ID the money moved through")
	cmd.Flags().StringVar(&amount, "amount", "", "transaction amount")
	cmd.Flags().StringVar(&file, "file", "", "JSON-lines file of events to ingest")
	return cmd
}

// fileEvent is one line of a batch ingest file.
type fileEvent struct {
	Date     string `json:"date"`
	Sender   string `json:"sender"`
	Text     string `json:"text"`
	Merchant string `json:"merchant"`
	UPIID    string `json:"upi"`
	Account  string `json:"account"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
}

func ingestFile(cmd *cobra.Command, svc *ingest.Service, path string) error {
	ctx := cmd.Context()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var events []fileEvent
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event fileEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	bar := progressbar.Default(int64(len(events)), "Ingesting")
	ingested, failed := 0, 0
	for i, event := range events {
		_ = bar.Add(1)

		parsed, err := model.ParseMoney(event.Amount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "event %d: %v\n", i+1, err)
			failed++
			continue
		}

		var timestamp time.Time
		if event.Date != "" {
			timestamp, err = time.Parse("2006-01-02", event.Date)
			if err != nil {
				fmt.Fprintf(os.Stderr, "event %d: invalid date: %v\n", i+1, err)
				failed++
				continue
			}
		}

		err = common.WithRetry(ctx, func() error {
			_, ingestErr := svc.Ingest(ctx, ingest.Event{
				Timestamp:    timestamp,
				Sender:       event.Sender,
				RawText:      event.Text,
				MerchantName: event.Merchant,
				UPIID:        event.UPIID,
				AccountID:    event.Account,
				Amount:       parsed,
				Type:         model.EntryType(event.Type),
			})
			return ingestErr
		}, ingestRetryOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "event %d: %v\n", i+1, err)
			failed++
			continue
		}
		ingested++
	}
	_ = bar.Finish()

	fmt.Printf("Ingested %d events", ingested)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	return nil
}

func printIngested(store service.Storage, cmd *cobra.Command, entry *model.Entry) {
	categoryName := "Uncategorized"
	if entry.CategoryID != "" {
		if cat, err := store.GetCategory(cmd.Context(), entry.CategoryID); err == nil {
			categoryName = cat.Name
		}
	}
	fmt.Printf("Recorded %s %s as %s (%s)\n", entry.Type, entry.Amount, categoryName, entry.ID)
}
