package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/swisscluster/bank-importer/internal/api"
	"github.com/swisscluster/bank-importer/internal/domain"
	"github.com/swisscluster/bank-importer/internal/importer"
	"github.com/swisscluster/bank-importer/internal/repository"
)

func main() {
	// Optional .env file; real env vars win.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "bank-importer.db"
	}

	fetchTimeout := 30 * time.Second
	if v := os.Getenv("HTTP_FETCH_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			fetchTimeout = time.Duration(secs) * time.Second
		}
	}

	log.Printf("Initializing database at %s", dbPath)
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	partyRepo := repository.NewPartyRepo(db)
	accountRepo := repository.NewBankAccountRepo(db)
	txnRepo := repository.NewBankTransactionRepo(db)

	// Create services.
	importSvc := importer.NewService(partyRepo, accountRepo, txnRepo, fetchTimeout)

	// Seed registries if DB is empty.
	count, err := partyRepo.CountParties()
	if err != nil {
		log.Fatalf("Failed to count parties: %v", err)
	}
	if count == 0 {
		log.Println("Database is empty, seeding parties from testdata...")
		if err := seedParties(partyRepo, accountRepo); err != nil {
			log.Printf("WARNING: Failed to seed parties: %v", err)
		}
	} else {
		log.Printf("Database already has %d parties, skipping seed", count)
	}

	// Create router.
	router := api.NewRouter(importSvc, txnRepo)

	log.Printf("CAMT.053 Bank Statement Importer")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("API base: http://localhost:%s/api/v1", port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/import/preview")
	log.Printf("  POST   /api/v1/import/commit")
	log.Printf("  GET    /api/v1/transactions")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedFile mirrors testdata/parties.json.
type seedFile struct {
	Customers    []domain.Customer    `json:"customers"`
	Suppliers    []domain.Supplier    `json:"suppliers"`
	BankAccounts []domain.BankAccount `json:"bank_accounts"`
}

func seedParties(partyRepo *repository.PartyRepo, accountRepo *repository.BankAccountRepo) error {
	// Try multiple possible locations for testdata.
	candidates := []string{
		"testdata/parties.json",
		filepath.Join(".", "testdata", "parties.json"),
	}

	// Also try to find relative to the executable.
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "parties.json"),
			filepath.Join(dir, "..", "..", "testdata", "parties.json"),
		)
	}

	var data []byte
	var loadErr error
	for _, path := range candidates {
		data, loadErr = os.ReadFile(path)
		if loadErr == nil {
			log.Printf("Loaded parties from %s", path)
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find parties.json in any candidate path: %w", loadErr)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("unmarshal parties: %w", err)
	}

	for i := range seed.Customers {
		if err := partyRepo.InsertCustomer(&seed.Customers[i]); err != nil {
			return err
		}
	}
	for i := range seed.Suppliers {
		if err := partyRepo.InsertSupplier(&seed.Suppliers[i]); err != nil {
			return err
		}
	}
	for i := range seed.BankAccounts {
		if err := accountRepo.Insert(&seed.BankAccounts[i]); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d customers, %d suppliers, %d bank accounts",
		len(seed.Customers), len(seed.Suppliers), len(seed.BankAccounts))
	return nil
}
