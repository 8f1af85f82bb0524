package camt

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"golang.org/x/net/html/charset"
)

// StatementDocument is one parsed CAMT.053 file plus the namespace selected
// by the dialect detector. Built per file, discarded after walking.
type StatementDocument struct {
	Namespace string
	Document  *Document
}

// The structs below map the CAMT.053 tree with unqualified element names,
// which makes them valid for every schema version the detector knows about.
// All nesting that varies between bank dialects is kept optional.

type Document struct {
	XMLName       xml.Name                `xml:"Document"`
	BkToCstmrStmt BankToCustomerStatement `xml:"BkToCstmrStmt"`
}

type BankToCustomerStatement struct {
	Statements []Statement `xml:"Stmt"`
}

type Statement struct {
	ID      string  `xml:"Id"`
	Account Account `xml:"Acct"`
	Entries []Entry `xml:"Ntry"`
}

type Account struct {
	ID AccountID `xml:"Id"`
}

type AccountID struct {
	IBAN  string  `xml:"IBAN"`
	Other OtherID `xml:"Othr"`
}

type OtherID struct {
	ID string `xml:"Id"`
}

type Entry struct {
	Amount       Amount               `xml:"Amt"`
	ReversalInd  string               `xml:"RvslInd"`
	CdtDbtInd    string               `xml:"CdtDbtInd"`
	Status       EntryStatus          `xml:"Sts"`
	BookingDate  DateAndTime          `xml:"BookgDt"`
	ValueDate    DateAndTime          `xml:"ValDt"`
	AcctSvcrRef  string               `xml:"AcctSvcrRef"`
	BkTxCd       BankTransactionCode  `xml:"BkTxCd"`
	Charges      Charges              `xml:"Chrgs"`
	AddtlNtryInf string               `xml:"AddtlNtryInf"`
	EntryDetails []EntryDetails       `xml:"NtryDtls"`
	TxDetails    []TransactionDetails `xml:"TxDtls"` // some dialects flatten details onto the entry
	RmtInf       *RemittanceInfo      `xml:"RmtInf"` // likewise for remittance info
}

// EntryStatus handles both encodings seen across versions: a nested code
// element (<Sts><Cd>BOOK</Cd></Sts>) and direct text (<Sts>BOOK</Sts>).
type EntryStatus struct {
	Code string `xml:"Cd"`
	Text string `xml:",chardata"`
}

type DateAndTime struct {
	DateTime string `xml:"DtTm"`
	Date     string `xml:"Dt"`
}

type Amount struct {
	Value    string `xml:",chardata"`
	Currency string `xml:"Ccy,attr"`
}

type Charges struct {
	TotalChargesAndTaxAmount Amount `xml:"TtlChrgsAndTaxAmt"`
}

type BankTransactionCode struct {
	Proprietary ProprietaryCode `xml:"Prtry"`
}

type ProprietaryCode struct {
	Code string `xml:"Cd"`
}

type EntryDetails struct {
	TxDetails []TransactionDetails `xml:"TxDtls"`
}

type TransactionDetails struct {
	RmtInf         *RemittanceInfo `xml:"RmtInf"`
	RelatedParties *RelatedParties `xml:"RltdPties"`
	RelatedAgents  *RelatedAgents  `xml:"RltdAgts"`
}

type RemittanceInfo struct {
	Structured []StructuredRemittance `xml:"Strd"`
}

type StructuredRemittance struct {
	CreditorRefInfo *CreditorReferenceInfo `xml:"CdtrRefInf"`
}

type CreditorReferenceInfo struct {
	Type      CreditorReferenceType `xml:"Tp"`
	Reference string                `xml:"Ref"`
}

type CreditorReferenceType struct {
	CodeOrProprietary CodeOrProprietary `xml:"CdOrPrtry"`
}

type CodeOrProprietary struct {
	Code        string `xml:"Cd"`
	Proprietary string `xml:"Prtry"`
}

type RelatedParties struct {
	Debtor           *Party       `xml:"Dbtr"`
	DebtorAccount    *CashAccount `xml:"DbtrAcct"`
	Creditor         *Party       `xml:"Cdtr"`
	CreditorAccount  *CashAccount `xml:"CdtrAcct"`
	UltimateDebtor   *Party       `xml:"UltmtDbtr"`
	UltimateCreditor *Party       `xml:"UltmtCdtr"`
}

// Party covers both the flat layout (<Dbtr><Nm>) of .001.04 and the nested
// one (<Dbtr><Pty><Nm>) of .001.08+.
type Party struct {
	Name          string               `xml:"Nm"`
	Nested        *PartyIdentification `xml:"Pty"`
	PostalAddress *PostalAddress       `xml:"PstlAdr"`
}

type PartyIdentification struct {
	Name          string         `xml:"Nm"`
	PostalAddress *PostalAddress `xml:"PstlAdr"`
}

type PostalAddress struct {
	AddressLines []string `xml:"AdrLine"`
}

type CashAccount struct {
	ID AccountID `xml:"Id"`
}

type RelatedAgents struct {
	DebtorAgent   *Agent `xml:"DbtrAgt"`
	CreditorAgent *Agent `xml:"CdtrAgt"`
}

type Agent struct {
	FinInstnID FinancialInstitution `xml:"FinInstnId"`
}

type FinancialInstitution struct {
	Name string `xml:"Nm"`
}

// Parse detects the file's dialect and unmarshals it into a
// StatementDocument. Malformed XML is the one fatal condition here.
func Parse(data []byte) (*StatementDocument, error) {
	ns := DetectNamespace(data)

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal CAMT.053 document: %w", err)
	}

	return &StatementDocument{Namespace: ns, Document: &doc}, nil
}
