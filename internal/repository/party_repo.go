package repository

import (
	"database/sql"
	"fmt"

	"github.com/swisscluster/bank-importer/internal/domain"
)

// PartyRepo provides read access to the customer and supplier registries
// and implements match.PartyDirectory.
type PartyRepo struct {
	db *sql.DB
}

func NewPartyRepo(db *sql.DB) *PartyRepo {
	return &PartyRepo{db: db}
}

// CustomerByBankAlias returns the enabled customer whose bank alias exactly
// equals alias, or nil when there is none.
func (r *PartyRepo) CustomerByBankAlias(alias string) (*domain.Customer, error) {
	row := r.db.QueryRow(
		`SELECT id, display_name, bank_alias, disabled FROM customers
		 WHERE bank_alias = ? AND disabled = 0 LIMIT 1`, alias,
	)
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// SupplierByBankAlias is the supplier counterpart of CustomerByBankAlias.
func (r *PartyRepo) SupplierByBankAlias(alias string) (*domain.Supplier, error) {
	row := r.db.QueryRow(
		`SELECT id, display_name, bank_alias, disabled FROM suppliers
		 WHERE bank_alias = ? AND disabled = 0 LIMIT 1`, alias,
	)
	s, err := scanSupplier(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *PartyRepo) EnabledCustomers() ([]domain.Customer, error) {
	rows, err := r.db.Query(
		`SELECT id, display_name, bank_alias, disabled FROM customers
		 WHERE disabled = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		var disabled int
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.BankAlias, &disabled); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.Disabled = disabled != 0
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PartyRepo) EnabledSuppliers() ([]domain.Supplier, error) {
	rows, err := r.db.Query(
		`SELECT id, display_name, bank_alias, disabled FROM suppliers
		 WHERE disabled = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		var s domain.Supplier
		var disabled int
		if err := rows.Scan(&s.ID, &s.DisplayName, &s.BankAlias, &disabled); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		s.Disabled = disabled != 0
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *PartyRepo) InsertCustomer(c *domain.Customer) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO customers (id, display_name, bank_alias, disabled)
		 VALUES (?,?,?,?)`,
		c.ID, c.DisplayName, c.BankAlias, boolToInt(c.Disabled),
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *PartyRepo) InsertSupplier(s *domain.Supplier) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO suppliers (id, display_name, bank_alias, disabled)
		 VALUES (?,?,?,?)`,
		s.ID, s.DisplayName, s.BankAlias, boolToInt(s.Disabled),
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *PartyRepo) CountParties() (int, error) {
	var customers, suppliers int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM customers").Scan(&customers); err != nil {
		return 0, err
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM suppliers").Scan(&suppliers); err != nil {
		return 0, err
	}
	return customers + suppliers, nil
}

func scanCustomer(row *sql.Row) (*domain.Customer, error) {
	var c domain.Customer
	var disabled int
	if err := row.Scan(&c.ID, &c.DisplayName, &c.BankAlias, &disabled); err != nil {
		return nil, err
	}
	c.Disabled = disabled != 0
	return &c, nil
}

func scanSupplier(row *sql.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	var disabled int
	if err := row.Scan(&s.ID, &s.DisplayName, &s.BankAlias, &disabled); err != nil {
		return nil, err
	}
	s.Disabled = disabled != 0
	return &s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
