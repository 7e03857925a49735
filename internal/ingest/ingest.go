// Package ingest turns inbound bank notification events into categorized
// ledger entries. The event source (an SMS listener, a notification relay)
// is external; this package is the point where raw text meets the
// categorizer and the reconciler.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rupeeledger/rupeeledger/internal/classify"
	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
)

// Event is one inbound bank notification.
type Event struct {
	Timestamp    time.Time
	Sender       string
	RawText      string
	MerchantName string
	UPIID        string
	AccountID    string
	Amount       model.Money
	Type         model.EntryType // inferred from RawText when empty
}

// Service ingests events: categorize, construct the entry, reconcile.
type Service struct {
	categorizer *classify.Categorizer
	reconciler  *ledger.Reconciler
}

// NewService creates an ingestion service.
func NewService(categorizer *classify.Categorizer, reconciler *ledger.Reconciler) *Service {
	return &Service{categorizer: categorizer, reconciler: reconciler}
}

// Ingest converts one event into a persisted ledger entry and returns it.
func (s *Service) Ingest(ctx context.Context, event Event) (*model.Entry, error) {
	if event.Amount <= 0 {
		return nil, fmt.Errorf("%w: event amount must be positive, got %s", common.ErrValidation, event.Amount)
	}

	upiID := event.UPIID
	if upiID == "" {
		upiID = ExtractUPIID(event.RawText)
	}

	entryType := event.Type
	if entryType == "" {
		entryType = inferType(event.RawText)
	}

	categoryID := s.categorizer.Categorize(ctx, classify.Input{
		MerchantName: event.MerchantName,
		UPIID:        upiID,
		Sender:       event.Sender,
		RawText:      event.RawText,
	})

	date := event.Timestamp
	if date.IsZero() {
		date = time.Now().UTC()
	}

	entry := &model.Entry{
		Amount:     event.Amount,
		Type:       entryType,
		CategoryID: categoryID,
		AccountID:  event.AccountID,
		Date:       date,
		Note:       noteFor(event),
	}

	if err := s.reconciler.Create(ctx, entry); err != nil {
		return nil, err
	}

	slog.Info("ingested event",
		"entry_id", entry.ID,
		"sender", event.Sender,
		"amount", event.Amount,
		"category_id", categoryID)
	return entry, nil
}

// ExtractUPIID pulls a name@bank UPI handle out of raw notification text.
// Token scanning only: the first whitespace-delimited token with a single
// '@' and non-empty alphanumeric halves wins.
func ExtractUPIID(rawText string) string {
	for _, token := range strings.Fields(rawText) {
		token = strings.Trim(token, ".,;:()[]")
		at := strings.Count(token, "@")
		if at != 1 {
			continue
		}
		parts := strings.SplitN(token, "@", 2)
		if isHandlePart(parts[0]) && isHandlePart(parts[1]) {
			return token
		}
	}
	return ""
}

func isHandlePart(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// inferType guesses the direction from common bank SMS phrasing.
// Defaults to expense; most notifications are debits.
func inferType(rawText string) model.EntryType {
	lowered := strings.ToLower(rawText)
	for _, marker := range []string{"credited", "received", "deposited", "refund"} {
		if strings.Contains(lowered, marker) {
			return model.EntryTypeIncome
		}
	}
	return model.EntryTypeExpense
}

func noteFor(event Event) string {
	if event.MerchantName != "" {
		return event.MerchantName
	}
	if event.Sender != "" {
		return event.Sender
	}
	return strings.TrimSpace(event.RawText)
}
