package camt

import (
	"strings"
	"unicode"

	"github.com/swisscluster/bank-importer/internal/domain"
)

// ExtractPartyInfo pulls counterparty details from the entry's first
// transaction-details block. Best-effort by contract: any missing node
// leaves the corresponding field empty, never fails.
func ExtractPartyInfo(e *Entry) domain.PartyInfo {
	var info domain.PartyInfo

	details := e.transactionDetails()
	if len(details) == 0 {
		return info
	}
	td := details[0]

	if rp := td.RelatedParties; rp != nil {
		info.DebtorName = partyName(rp.Debtor)
		info.DebtorAccount = accountIdentifier(rp.DebtorAccount)
		info.CreditorName = partyName(rp.Creditor)
		info.CreditorAccount = accountIdentifier(rp.CreditorAccount)
		if rp.UltimateDebtor != nil {
			info.UltimateDebtor = directName(rp.UltimateDebtor)
		}
		if rp.UltimateCreditor != nil {
			info.UltimateCreditor = directName(rp.UltimateCreditor)
		}
	}

	if ra := td.RelatedAgents; ra != nil {
		if ra.DebtorAgent != nil {
			info.DebtorAgentName = ra.DebtorAgent.FinInstnID.Name
		}
		if ra.CreditorAgent != nil {
			info.CreditorAgentName = ra.CreditorAgent.FinInstnID.Name
		}
	}

	return info
}

// partyName resolves a party's name: direct Nm, then the nested Pty/Nm of
// newer schema versions, then an address-line heuristic.
func partyName(p *Party) string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	if p.Nested != nil && p.Nested.Name != "" {
		return p.Nested.Name
	}
	if name := nameFromAddress(p.PostalAddress); name != "" {
		return name
	}
	if p.Nested != nil {
		return nameFromAddress(p.Nested.PostalAddress)
	}
	return ""
}

func directName(p *Party) string {
	if p.Name != "" {
		return p.Name
	}
	if p.Nested != nil {
		return p.Nested.Name
	}
	return ""
}

// nameFromAddress returns the first address line that does not carry a
// digit in its first 10 characters. Street and postal-code lines usually
// do, so this prefers a name-like line.
func nameFromAddress(addr *PostalAddress) string {
	if addr == nil {
		return ""
	}
	for _, line := range addr.AddressLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !hasDigitPrefix(trimmed, 10) {
			return trimmed
		}
	}
	return ""
}

func hasDigitPrefix(s string, n int) bool {
	for i, r := range s {
		if i >= n {
			break
		}
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// accountIdentifier returns the account's IBAN, falling back to its generic
// identifier.
func accountIdentifier(acct *CashAccount) string {
	if acct == nil {
		return ""
	}
	if acct.ID.IBAN != "" {
		return acct.ID.IBAN
	}
	return acct.ID.Other.ID
}
