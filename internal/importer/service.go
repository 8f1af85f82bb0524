// Package importer drives the CAMT.053 import flow: it walks parsed
// statement documents into preview rows, orchestrates multi-file batches
// with cross-file account validation and deduplication, and commits
// confirmed rows as finalized bank transaction records.
package importer

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/swisscluster/bank-importer/internal/camt"
	"github.com/swisscluster/bank-importer/internal/domain"
	"github.com/swisscluster/bank-importer/internal/match"
	"github.com/swisscluster/bank-importer/internal/repository"
)

// Caller-contract violations, surfaced to the API layer as bad requests.
var (
	ErrMissingSource      = errors.New("attach a CAMT.053 file or provide a source path/URL first")
	ErrMissingBankAccount = errors.New("bank account is not set; preview the file first")
)

// Service bundles the stores the import flow needs. All lookups are
// read-only; only Commit writes.
type Service struct {
	accounts *repository.BankAccountRepo
	txns     *repository.BankTransactionRepo
	resolver *match.Resolver

	fetchTimeout time.Duration
}

func NewService(
	parties *repository.PartyRepo,
	accounts *repository.BankAccountRepo,
	txns *repository.BankTransactionRepo,
	fetchTimeout time.Duration,
) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &Service{
		accounts:     accounts,
		txns:         txns,
		resolver:     match.NewResolver(parties),
		fetchTimeout: fetchTimeout,
	}
}

// PreviewRequest carries either uploaded file bytes (XML or ZIP) or a
// source reference (local file, local directory, HTTP(S) URL). Dates are
// YYYY-MM-DD and bound the entries by booking date when set.
type PreviewRequest struct {
	FileName      string
	Content       []byte
	Source        string
	FromDate      string
	ToDate        string
	BankAccountID string
}

// PreviewResult is the read-only outcome of a preview run.
type PreviewResult struct {
	BankAccount  string                    `json:"bank_account,omitempty"`
	Transactions []domain.PreviewRow       `json:"transactions"`
	Summary      *domain.ProcessingSummary `json:"processing_summary,omitempty"`
}

// Preview parses the requested source into preview rows. Single-file input
// fails fast on malformed content; multi-file input records per-file
// failures in the summary and keeps going.
func (s *Service) Preview(req PreviewRequest) (*PreviewResult, error) {
	if len(req.Content) == 0 && req.Source == "" {
		return nil, ErrMissingSource
	}

	window, err := parseDateWindow(req.FromDate, req.ToDate)
	if err != nil {
		return nil, err
	}

	files, container, err := s.collectFiles(req)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no statement files found in %s", req.Source)
	}

	rows, account, summary, err := s.processBatch(files, container, window, req.BankAccountID)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{Transactions: rows}
	if account != nil {
		result.BankAccount = account.ID
	}
	if container {
		result.Summary = summary
	}

	log.Printf("[importer] Preview: %d file(s), %d row(s), bank_account=%q",
		len(files), len(rows), result.BankAccount)
	return result, nil
}

// dateWindow bounds entries by booking date; nil ends are open.
type dateWindow struct {
	from *time.Time
	to   *time.Time
}

func (w dateWindow) excludes(t time.Time) bool {
	if w.from != nil && t.Before(*w.from) {
		return true
	}
	if w.to != nil && t.After(*w.to) {
		return true
	}
	return false
}

func parseDateWindow(fromDate, toDate string) (dateWindow, error) {
	var w dateWindow
	if fromDate != "" {
		t, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return w, fmt.Errorf("invalid from_date %q: %w", fromDate, err)
		}
		w.from = &t
	}
	if toDate != "" {
		t, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return w, fmt.Errorf("invalid to_date %q: %w", toDate, err)
		}
		w.to = &t
	}
	return w, nil
}

// walkDocument turns one parsed document into preview rows plus the
// statement IBAN. Only the first statement's IBAN is captured; entries that
// fail the status, date, or amount rules are dropped silently.
func (s *Service) walkDocument(doc *camt.StatementDocument, window dateWindow) ([]domain.PreviewRow, string, error) {
	var rows []domain.PreviewRow
	var statementIBAN string

	for i := range doc.Document.BkToCstmrStmt.Statements {
		stmt := &doc.Document.BkToCstmrStmt.Statements[i]
		if statementIBAN == "" {
			statementIBAN = stmt.Account.ID.IBAN
		}

		for j := range stmt.Entries {
			entry := &stmt.Entries[j]
			row, ok, err := s.buildRow(entry, window)
			if err != nil {
				return nil, "", err
			}
			if ok {
				rows = append(rows, row)
			}
		}
	}
	return rows, statementIBAN, nil
}

func (s *Service) buildRow(entry *camt.Entry, window dateWindow) (domain.PreviewRow, bool, error) {
	var row domain.PreviewRow

	if !entry.Accepted() {
		return row, false, nil
	}
	date, ok := entry.TransactionDate()
	if !ok {
		return row, false, nil
	}
	if window.excludes(date) {
		return row, false, nil
	}

	net, currency := entry.NetAmount()
	switch entry.CdtDbtInd {
	case "DBIT":
		row.Withdrawal = net
	case "CRDT":
		row.Deposit = net
	}
	if row.Deposit.IsZero() && row.Withdrawal.IsZero() {
		return row, false, nil
	}

	reference, refSource := entry.Reference()
	existing, err := s.txns.FindFinalizedByReference(reference)
	if err != nil {
		return row, false, fmt.Errorf("existing transaction lookup: %w", err)
	}

	row.Date = date.Format("2006-01-02")
	row.Description = entry.AddtlNtryInf
	row.ReferenceNumber = reference
	row.Currency = currency
	row.BankTransaction = existing

	partyInfo := camt.ExtractPartyInfo(entry)
	found, err := s.resolver.Resolve(partyInfo, entry.CdtDbtInd, entry.AddtlNtryInf)
	if err != nil {
		return row, false, fmt.Errorf("resolve party: %w", err)
	}
	if found != nil {
		row.PartyType = found.PartyType
		row.Party = found.Party
	}

	row.Debug = domain.RowDebug{
		PartyInfo: partyInfo,
		RefSource: refSource,
		Reversal:  entry.Reversal(),
	}
	return row, true, nil
}
