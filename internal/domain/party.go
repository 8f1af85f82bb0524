package domain

// PartyType identifies which registry a resolved party belongs to.
type PartyType string

const (
	PartyCustomer PartyType = "Customer"
	PartySupplier PartyType = "Supplier"
)

// Customer is a party that sends us money. BankAlias holds the name exactly
// as it appears on bank statements and is used for exact matching.
type Customer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	BankAlias   string `json:"bank_alias,omitempty"`
	Disabled    bool   `json:"disabled"`
}

// Supplier is a party we pay.
type Supplier struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	BankAlias   string `json:"bank_alias,omitempty"`
	Disabled    bool   `json:"disabled"`
}

// PartyMatch is the result of party resolution. Both fields are always set
// together; a nil *PartyMatch means no confident match was found.
type PartyMatch struct {
	PartyType PartyType `json:"party_type"`
	Party     string    `json:"party"`
}

// PartyInfo holds counterparty details extracted from an entry's structured
// sub-elements. Every field is optional; absence is normal for real-world
// statements.
type PartyInfo struct {
	DebtorName        string `json:"debtor_name,omitempty"`
	DebtorAccount     string `json:"debtor_account,omitempty"`
	CreditorName      string `json:"creditor_name,omitempty"`
	CreditorAccount   string `json:"creditor_account,omitempty"`
	DebtorAgentName   string `json:"debtor_agent_name,omitempty"`
	CreditorAgentName string `json:"creditor_agent_name,omitempty"`
	UltimateDebtor    string `json:"ultimate_debtor,omitempty"`
	UltimateCreditor  string `json:"ultimate_creditor,omitempty"`
}
