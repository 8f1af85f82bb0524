// Package match resolves statement counterparties against the customer and
// supplier registries: an exact bank-alias lookup first, then a fuzzy pass
// (substring, then similarity ratio), then a legacy free-text fallback over
// the entry description.
package match

import (
	"fmt"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/swisscluster/bank-importer/internal/domain"
)

// Similarity thresholds. Structured names are cleaner than free text, so
// the description fallback demands a stricter ratio.
const (
	structuredThreshold  = 0.85
	descriptionThreshold = 0.9
)

// PartyDirectory is the read-only registry view the resolver needs.
// Disabled parties are excluded by the implementation.
type PartyDirectory interface {
	CustomerByBankAlias(alias string) (*domain.Customer, error)
	SupplierByBankAlias(alias string) (*domain.Supplier, error)
	EnabledCustomers() ([]domain.Customer, error)
	EnabledSuppliers() ([]domain.Supplier, error)
}

type Resolver struct {
	dir PartyDirectory
}

func NewResolver(dir PartyDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve finds the party for one entry. Direction picks the candidate
// names: money out (DBIT) searches creditor then ultimate creditor, money
// in (CRDT) searches debtor then ultimate debtor. When no structured name
// matches, the raw description is tried as a last resort. A nil match with
// a nil error means the row proceeds unassigned.
func (r *Resolver) Resolve(info domain.PartyInfo, cdtDbtInd, description string) (*domain.PartyMatch, error) {
	var candidates []string
	switch cdtDbtInd {
	case "DBIT":
		candidates = []string{info.CreditorName, info.UltimateCreditor}
	case "CRDT":
		candidates = []string{info.DebtorName, info.UltimateDebtor}
	}

	for _, name := range candidates {
		if name == "" {
			continue
		}
		m, err := r.exactMatch(name)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
		m, err = r.fuzzyMatch(name)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}

	return r.ResolveFromDescription(description)
}

// exactMatch looks for an enabled customer, then supplier, whose bank alias
// equals the trimmed name.
func (r *Resolver) exactMatch(name string) (*domain.PartyMatch, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}

	customer, err := r.dir.CustomerByBankAlias(trimmed)
	if err != nil {
		return nil, fmt.Errorf("customer alias lookup: %w", err)
	}
	if customer != nil {
		return &domain.PartyMatch{PartyType: domain.PartyCustomer, Party: customer.ID}, nil
	}

	supplier, err := r.dir.SupplierByBankAlias(trimmed)
	if err != nil {
		return nil, fmt.Errorf("supplier alias lookup: %w", err)
	}
	if supplier != nil {
		return &domain.PartyMatch{PartyType: domain.PartySupplier, Party: supplier.ID}, nil
	}
	return nil, nil
}

// scanParty is one registry row flattened for the fuzzy passes. Scan order
// is customers before suppliers.
type scanParty struct {
	id          string
	displayName string
	partyType   domain.PartyType
}

func (r *Resolver) scanParties() ([]scanParty, error) {
	customers, err := r.dir.EnabledCustomers()
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	suppliers, err := r.dir.EnabledSuppliers()
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	parties := make([]scanParty, 0, len(customers)+len(suppliers))
	for _, c := range customers {
		if c.DisplayName != "" {
			parties = append(parties, scanParty{c.ID, c.DisplayName, domain.PartyCustomer})
		}
	}
	for _, s := range suppliers {
		if s.DisplayName != "" {
			parties = append(parties, scanParty{s.ID, s.DisplayName, domain.PartySupplier})
		}
	}
	return parties, nil
}

// fuzzyMatch lower-cases both sides, tries a display-name substring pass,
// then the similarity pass against the 0.85 threshold.
func (r *Resolver) fuzzyMatch(name string) (*domain.PartyMatch, error) {
	search := strings.ToLower(strings.TrimSpace(name))
	if search == "" {
		return nil, nil
	}

	parties, err := r.scanParties()
	if err != nil {
		return nil, err
	}

	for _, p := range parties {
		if strings.Contains(search, strings.ToLower(p.displayName)) {
			return &domain.PartyMatch{PartyType: p.partyType, Party: p.id}, nil
		}
	}

	return bestSimilarityMatch(parties, search, structuredThreshold), nil
}

// ResolveFromDescription is the legacy fallback: it runs alias-substring
// and display-name passes directly against the free-text description, then
// a per-word similarity pass with the stricter threshold.
func (r *Resolver) ResolveFromDescription(description string) (*domain.PartyMatch, error) {
	if description == "" {
		return nil, nil
	}
	descLower := strings.ToLower(description)

	customers, err := r.dir.EnabledCustomers()
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	for _, c := range customers {
		if c.BankAlias != "" && strings.Contains(descLower, strings.ToLower(c.BankAlias)) {
			return &domain.PartyMatch{PartyType: domain.PartyCustomer, Party: c.ID}, nil
		}
	}

	suppliers, err := r.dir.EnabledSuppliers()
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	for _, s := range suppliers {
		if s.BankAlias != "" && strings.Contains(descLower, strings.ToLower(s.BankAlias)) {
			return &domain.PartyMatch{PartyType: domain.PartySupplier, Party: s.ID}, nil
		}
	}

	parties, err := r.scanParties()
	if err != nil {
		return nil, err
	}

	for _, p := range parties {
		if strings.Contains(descLower, strings.ToLower(p.displayName)) {
			return &domain.PartyMatch{PartyType: p.partyType, Party: p.id}, nil
		}
	}

	var best *domain.PartyMatch
	bestScore := 0.0
	for _, p := range parties {
		nameLower := strings.ToLower(p.displayName)
		for _, word := range strings.Fields(descLower) {
			score := Similarity(nameLower, word)
			if score > descriptionThreshold && score >= bestScore {
				bestScore = score
				best = &domain.PartyMatch{PartyType: p.partyType, Party: p.id}
			}
		}
	}
	return best, nil
}

// bestSimilarityMatch scans parties in order and keeps the best score above
// the threshold. A later party replaces an earlier one on an equal score;
// with customers scanned first, ties deliberately resolve to the supplier.
func bestSimilarityMatch(parties []scanParty, search string, threshold float64) *domain.PartyMatch {
	var best *domain.PartyMatch
	bestScore := 0.0
	for _, p := range parties {
		score := Similarity(strings.ToLower(p.displayName), search)
		if score > threshold && score >= bestScore {
			bestScore = score
			best = &domain.PartyMatch{PartyType: p.partyType, Party: p.id}
		}
	}
	return best
}

// Similarity is a normalized edit-distance ratio in [0, 1] over runes.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	return 1 - float64(distance)/float64(maxLen)
}
