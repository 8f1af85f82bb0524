package importer

import (
	"fmt"
	"log"

	"github.com/swisscluster/bank-importer/internal/domain"
)

// CreatedTransaction reports one record created by Commit.
type CreatedTransaction struct {
	ReferenceNumber string `json:"reference_number"`
	RecordID        string `json:"record_id"`
}

type CommitResult struct {
	Message string               `json:"message"`
	Created []CreatedTransaction `json:"created"`
	Skipped []string             `json:"skipped"`
}

// Commit materializes confirmed preview rows as finalized bank transaction
// records on the given account. Rows already linked to an existing
// transaction are skipped, which makes re-committing a previewed batch
// safe. This is the only write path in the importer.
func (s *Service) Commit(rows []domain.PreviewRow, bankAccountID string) (*CommitResult, error) {
	if bankAccountID == "" {
		return nil, ErrMissingBankAccount
	}

	result := &CommitResult{
		Created: []CreatedTransaction{},
		Skipped: []string{},
	}

	for _, row := range rows {
		if row.BankTransaction != "" {
			result.Skipped = append(result.Skipped, row.BankTransaction)
			continue
		}

		tx := &domain.BankTransaction{
			Date:            row.Date,
			BankAccountID:   bankAccountID,
			Deposit:         row.Deposit,
			Withdrawal:      row.Withdrawal,
			Description:     row.Description,
			ReferenceNumber: row.ReferenceNumber,
		}
		if row.PartyType != "" && row.Party != "" {
			tx.PartyType = row.PartyType
			tx.Party = row.Party
		}

		id, err := s.txns.Create(tx)
		if err != nil {
			return nil, fmt.Errorf("create transaction (ref %q): %w", row.ReferenceNumber, err)
		}
		if err := s.txns.Finalize(id); err != nil {
			return nil, fmt.Errorf("finalize transaction %s: %w", id, err)
		}

		result.Created = append(result.Created, CreatedTransaction{
			ReferenceNumber: row.ReferenceNumber,
			RecordID:        id,
		})
	}

	result.Message = fmt.Sprintf(
		"Successfully created and submitted %d bank transaction(s).", len(result.Created))
	log.Printf("[importer] Commit: created=%d skipped=%d account=%s",
		len(result.Created), len(result.Skipped), bankAccountID)
	return result, nil
}
