package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swisscluster/bank-importer/internal/domain"
)

type BankTransactionRepo struct {
	db *sql.DB
}

func NewBankTransactionRepo(db *sql.DB) *BankTransactionRepo {
	return &BankTransactionRepo{db: db}
}

// FindFinalizedByReference returns the id of a finalized transaction with
// the given reference number, or "" when none exists. Empty references
// never match anything.
func (r *BankTransactionRepo) FindFinalizedByReference(reference string) (string, error) {
	if reference == "" {
		return "", nil
	}
	row := r.db.QueryRow(
		`SELECT id FROM bank_transactions
		 WHERE reference_number = ? AND status = ? LIMIT 1`,
		reference, string(domain.StatusFinalized),
	)
	var id string
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("find by reference: %w", err)
	}
	return id, nil
}

// Create inserts a new draft transaction and returns its generated id.
func (r *BankTransactionRepo) Create(tx *domain.BankTransaction) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(
		`INSERT INTO bank_transactions
		(id, date, bank_account, deposit, withdrawal, description,
		 reference_number, party_type, party, status, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		id, tx.Date, tx.BankAccountID, tx.Deposit.String(), tx.Withdrawal.String(),
		tx.Description, tx.ReferenceNumber, string(tx.PartyType), tx.Party,
		string(domain.StatusDraft), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

// Finalize moves a draft transaction into the finalized state.
func (r *BankTransactionRepo) Finalize(id string) error {
	res, err := r.db.Exec(
		"UPDATE bank_transactions SET status = ? WHERE id = ?",
		string(domain.StatusFinalized), id,
	)
	if err != nil {
		return fmt.Errorf("finalize transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finalize transaction: no record with id %s", id)
	}
	return nil
}

func (r *BankTransactionRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM bank_transactions").Scan(&count)
	return count, err
}

// List returns stored transactions, optionally filtered by status, newest
// first.
func (r *BankTransactionRepo) List(status string) ([]domain.BankTransaction, error) {
	query := `SELECT id, date, bank_account, deposit, withdrawal, description,
	          reference_number, party_type, party, status, created_at
	          FROM bank_transactions`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.BankTransaction
	for rows.Next() {
		var tx domain.BankTransaction
		var deposit, withdrawal, partyType, status, createdAt string
		if err := rows.Scan(
			&tx.ID, &tx.Date, &tx.BankAccountID, &deposit, &withdrawal,
			&tx.Description, &tx.ReferenceNumber, &partyType, &tx.Party,
			&status, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Deposit, _ = decimal.NewFromString(deposit)
		tx.Withdrawal, _ = decimal.NewFromString(withdrawal)
		tx.PartyType = domain.PartyType(partyType)
		tx.Status = domain.TransactionStatus(status)
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			tx.CreatedAt = t
		}
		txns = append(txns, tx)
	}
	return txns, rows.Err()
}
