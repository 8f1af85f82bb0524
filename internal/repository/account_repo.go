package repository

import (
	"database/sql"
	"fmt"

	"github.com/swisscluster/bank-importer/internal/domain"
)

type BankAccountRepo struct {
	db *sql.DB
}

func NewBankAccountRepo(db *sql.DB) *BankAccountRepo {
	return &BankAccountRepo{db: db}
}

func (r *BankAccountRepo) GetByID(id string) (*domain.BankAccount, error) {
	row := r.db.QueryRow("SELECT id, name, iban FROM bank_accounts WHERE id = ?", id)
	var a domain.BankAccount
	if err := row.Scan(&a.ID, &a.Name, &a.IBAN); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return &a, nil
}

// FindByIBAN locates a bank account by IBAN, tolerating space and case
// formatting differences. An exact string match is tried first, then the
// stored IBANs are compared in normalized form.
func (r *BankAccountRepo) FindByIBAN(iban string) (*domain.BankAccount, error) {
	if iban == "" {
		return nil, nil
	}

	row := r.db.QueryRow("SELECT id, name, iban FROM bank_accounts WHERE iban = ?", iban)
	var direct domain.BankAccount
	err := row.Scan(&direct.ID, &direct.Name, &direct.IBAN)
	if err == nil {
		return &direct, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("bank account by iban: %w", err)
	}

	normalized := domain.NormalizeIBAN(iban)

	rows, err := r.db.Query("SELECT id, name, iban FROM bank_accounts WHERE iban != ''")
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.IBAN); err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		if domain.NormalizeIBAN(a.IBAN) == normalized {
			return &a, nil
		}
	}
	return nil, rows.Err()
}

func (r *BankAccountRepo) Insert(a *domain.BankAccount) error {
	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO bank_accounts (id, name, iban) VALUES (?,?,?)",
		a.ID, a.Name, a.IBAN,
	)
	if err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}
