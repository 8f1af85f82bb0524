package importer

import (
	"fmt"
	"log"

	"github.com/swisscluster/bank-importer/internal/camt"
	"github.com/swisscluster/bank-importer/internal/domain"
)

// processBatch walks files in order, validating every file's statement IBAN
// against the batch's reference account and deduplicating the accumulated
// rows. In container mode a bad file is recorded in the summary and
// skipped; in single-file mode its error is fatal.
func (s *Service) processBatch(
	files []statementFile,
	container bool,
	window dateWindow,
	bankAccountID string,
) ([]domain.PreviewRow, *domain.BankAccount, *domain.ProcessingSummary, error) {
	summary := &domain.ProcessingSummary{TotalFiles: len(files)}

	var account *domain.BankAccount
	var referenceIBAN string

	if bankAccountID != "" {
		a, err := s.accounts.GetByID(bankAccountID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load bank account: %w", err)
		}
		if a == nil {
			return nil, nil, nil, fmt.Errorf("bank account %q not found", bankAccountID)
		}
		account = a
		referenceIBAN = domain.NormalizeIBAN(a.IBAN)
	}

	skip := func(file, reason string) {
		summary.SkippedFiles = append(summary.SkippedFiles, domain.FileSkip{File: file, Reason: reason})
		log.Printf("[importer] WARNING: skipping %s: %s", file, reason)
	}

	var rows []domain.PreviewRow

	for _, f := range files {
		doc, err := camt.Parse(f.data)
		if err != nil {
			if !container {
				return nil, nil, nil, err
			}
			skip(f.name, err.Error())
			continue
		}

		fileRows, iban, err := s.walkDocument(doc, window)
		if err != nil {
			if !container {
				return nil, nil, nil, err
			}
			skip(f.name, err.Error())
			continue
		}

		if referenceIBAN == "" {
			// First successfully parsed file sets the batch's reference
			// account.
			referenceIBAN = domain.NormalizeIBAN(iban)
			a, err := s.accounts.FindByIBAN(iban)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("bank account lookup: %w", err)
			}
			account = a
		} else if iban != "" && domain.NormalizeIBAN(iban) != referenceIBAN {
			skip(f.name, fmt.Sprintf("statement IBAN %s does not match the batch bank account", iban))
			continue
		}

		rows = append(rows, fileRows...)
		summary.Processed++
	}

	return dedupeRows(rows), account, summary, nil
}

// dedupeRows collapses rows sharing (reference number, date, deposit,
// withdrawal); the first occurrence wins.
func dedupeRows(rows []domain.PreviewRow) []domain.PreviewRow {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for _, row := range rows {
		key := fmt.Sprintf("%s|%s|%s|%s",
			row.ReferenceNumber, row.Date, row.Deposit.String(), row.Withdrawal.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}
