package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusDraft     TransactionStatus = "draft"
	StatusFinalized TransactionStatus = "finalized"
)

// BankAccount is a company account statements are imported against, keyed
// for matching by IBAN.
type BankAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	IBAN string `json:"iban"`
}

// BankTransaction is a persisted transaction record. Created as a draft by
// the committer and finalized in the same call.
type BankTransaction struct {
	ID              string            `json:"id"`
	Date            string            `json:"date"`
	BankAccountID   string            `json:"bank_account"`
	Deposit         decimal.Decimal   `json:"deposit"`
	Withdrawal      decimal.Decimal   `json:"withdrawal"`
	Description     string            `json:"description"`
	ReferenceNumber string            `json:"reference_number"`
	PartyType       PartyType         `json:"party_type,omitempty"`
	Party           string            `json:"party,omitempty"`
	Status          TransactionStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// RowDebug carries extraction provenance for one preview row.
type RowDebug struct {
	PartyInfo PartyInfo `json:"party_info"`
	RefSource string    `json:"ref_source,omitempty"`
	Reversal  bool      `json:"reversal,omitempty"`
}

// PreviewRow is one normalized, not-yet-committed transaction candidate.
// Exactly one of Deposit/Withdrawal is non-zero. BankTransaction links to an
// already-recorded transaction sharing the same reference number, if any.
type PreviewRow struct {
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"reference_number"`
	Currency        string          `json:"currency,omitempty"`
	Deposit         decimal.Decimal `json:"deposit"`
	Withdrawal      decimal.Decimal `json:"withdrawal"`
	PartyType       PartyType       `json:"party_type,omitempty"`
	Party           string          `json:"party,omitempty"`
	BankTransaction string          `json:"bank_transaction,omitempty"`
	Debug           RowDebug        `json:"debug"`
}

// FileSkip records why one file of a batch was excluded.
type FileSkip struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// ProcessingSummary describes a batch run.
type ProcessingSummary struct {
	TotalFiles   int        `json:"total_files"`
	Processed    int        `json:"processed"`
	SkippedFiles []FileSkip `json:"skipped_files,omitempty"`
}

// NormalizeIBAN strips spaces and upper-cases so differently formatted
// IBANs compare equal ("CH93 0076 ..." == "ch930076...").
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}
