package camt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatQRRReference(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "27 digits grouped 2-5-5-5-5-5",
			in:       "123456789012345678901234567",
			expected: "12 34567 89012 34567 89012 34567",
		},
		{
			name:     "already spaced input is regrouped",
			in:       "21 00000 00003 13947 14300 09017",
			expected: "21 00000 00003 13947 14300 09017",
		},
		{
			name:     "too short passes through",
			in:       "12345",
			expected: "12345",
		},
		{
			name:     "non-numeric passes through",
			in:       "RF18539007547034AB123456789",
			expected: "RF18539007547034AB123456789",
		},
		{
			name:     "empty passes through",
			in:       "",
			expected: "",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, FormatQRRReference(c.in))
		})
	}
}

func TestDetectNamespace(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		expected string
	}{
		{"v10", `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.10">`, NamespaceV10},
		{"v04", `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.04">`, NamespaceV04},
		{"v08", `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.08">`, NamespaceV08},
		{"unknown falls back to v02", `<Document xmlns="something-else">`, NamespaceV02},
		{"empty falls back to v02", "", NamespaceV02},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, DetectNamespace([]byte(c.content)))
		})
	}
}

const cascadeEntryXML = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.04">
 <BkToCstmrStmt><Stmt>
  <Acct><Id><IBAN>CH9300762011623852957</IBAN></Id></Acct>
  <Ntry>
   <Amt Ccy="CHF">100.00</Amt>
   <CdtDbtInd>CRDT</CdtDbtInd>
   <Sts>BOOK</Sts>
   <BookgDt><Dt>2024-03-04</Dt></BookgDt>
   <AcctSvcrRef>SVCR-REF-1</AcctSvcrRef>
   <BkTxCd><Prtry><Cd>WISE-CODE-1</Cd></Prtry></BkTxCd>
   <NtryDtls><TxDtls><RmtInf><Strd><CdtrRefInf>
    <Tp><CdOrPrtry><Prtry>QRR</Prtry></CdOrPrtry></Tp>
    <Ref>210000000003139471430009017</Ref>
   </CdtrRefInf></Strd></RmtInf></TxDtls></NtryDtls>
  </Ntry>
 </Stmt></BkToCstmrStmt>
</Document>`

func parseSingleEntry(t *testing.T, xmlContent string) *Entry {
	t.Helper()
	doc, err := Parse([]byte(xmlContent))
	require.NoError(t, err)
	require.Len(t, doc.Document.BkToCstmrStmt.Statements, 1)
	require.NotEmpty(t, doc.Document.BkToCstmrStmt.Statements[0].Entries)
	return &doc.Document.BkToCstmrStmt.Statements[0].Entries[0]
}

func TestReferenceCascadePriority(t *testing.T) {
	entry := parseSingleEntry(t, cascadeEntryXML)

	// The bank-assigned service reference beats the structured QRR one.
	ref, source := entry.Reference()
	assert.Equal(t, "SVCR-REF-1", ref)
	assert.Equal(t, RefSourceAcctSvcrRef, source)

	// Without it, the structured QRR reference wins, formatted.
	entry.AcctSvcrRef = ""
	ref, source = entry.Reference()
	assert.Equal(t, "21 00000 00003 13947 14300 09017", ref)
	assert.Equal(t, RefSourceRmtInf, source)

	// Without remittance info, the proprietary code is the fallback.
	entry.EntryDetails = nil
	ref, source = entry.Reference()
	assert.Equal(t, "WISE-CODE-1", ref)
	assert.Equal(t, RefSourceBkTxCd, source)

	entry.BkTxCd.Proprietary.Code = ""
	ref, source = entry.Reference()
	assert.Empty(t, ref)
	assert.Empty(t, source)
}

func TestReferenceNonQRRUsedVerbatim(t *testing.T) {
	entry := parseSingleEntry(t, cascadeEntryXML)
	entry.AcctSvcrRef = ""
	entry.EntryDetails[0].TxDetails[0].RmtInf.Structured[0].CreditorRefInfo.Type.CodeOrProprietary.Proprietary = "SCOR"

	ref, source := entry.Reference()
	assert.Equal(t, "210000000003139471430009017", ref)
	assert.Equal(t, RefSourceRmtInf, source)
}

func TestReferenceFlattenedRemittance(t *testing.T) {
	const flattened = `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.04">
 <BkToCstmrStmt><Stmt>
  <Ntry>
   <Amt Ccy="CHF">10.00</Amt>
   <CdtDbtInd>CRDT</CdtDbtInd>
   <Sts>BOOK</Sts>
   <BookgDt><Dt>2024-03-04</Dt></BookgDt>
   <RmtInf><Strd><CdtrRefInf>
    <Tp><CdOrPrtry><Prtry>QRR</Prtry></CdOrPrtry></Tp>
    <Ref>210000000003139471430009017</Ref>
   </CdtrRefInf></Strd></RmtInf>
  </Ntry>
 </Stmt></BkToCstmrStmt>
</Document>`
	entry := parseSingleEntry(t, flattened)

	ref, source := entry.Reference()
	assert.Equal(t, "21 00000 00003 13947 14300 09017", ref)
	assert.Equal(t, RefSourceRmtInf, source)
}

func TestStatusCode(t *testing.T) {
	entry := parseSingleEntry(t, cascadeEntryXML)
	assert.Equal(t, "BOOK", entry.StatusCode())
	assert.True(t, entry.Accepted())

	// Nested code form.
	const nested = `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.10">
 <BkToCstmrStmt><Stmt>
  <Ntry>
   <Amt Ccy="EUR">5.00</Amt>
   <CdtDbtInd>CRDT</CdtDbtInd>
   <Sts><Cd>PDNG</Cd></Sts>
   <BookgDt><Dt>2024-03-04</Dt></BookgDt>
  </Ntry>
 </Stmt></BkToCstmrStmt>
</Document>`
	pending := parseSingleEntry(t, nested)
	assert.Equal(t, "PDNG", pending.StatusCode())
	assert.True(t, pending.Accepted())

	pending.Status.Code = "INFO"
	assert.False(t, pending.Accepted())
}

func TestTransactionDate(t *testing.T) {
	cases := []struct {
		name     string
		booking  DateAndTime
		value    DateAndTime
		expected string
		ok       bool
	}{
		{
			name:     "booking date-time wins and is truncated",
			booking:  DateAndTime{DateTime: "2024-03-04T16:45:12+01:00"},
			value:    DateAndTime{Date: "2024-03-05"},
			expected: "2024-03-04",
			ok:       true,
		},
		{
			name:     "value date-time before booking plain date",
			booking:  DateAndTime{Date: "2024-03-06"},
			value:    DateAndTime{DateTime: "2024-03-05T00:10:00Z"},
			expected: "2024-03-05",
			ok:       true,
		},
		{
			name:     "booking plain date",
			booking:  DateAndTime{Date: "2024-03-06"},
			expected: "2024-03-06",
			ok:       true,
		},
		{
			name:     "value plain date as last resort",
			value:    DateAndTime{Date: "2024-03-07"},
			expected: "2024-03-07",
			ok:       true,
		},
		{
			name:    "date-time without zone",
			booking: DateAndTime{DateTime: "2024-03-04T16:45:12"},
			// Parsed with the naive layout.
			expected: "2024-03-04",
			ok:       true,
		},
		{
			name: "no date drops the entry",
			ok:   false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			entry := &Entry{BookingDate: c.booking, ValueDate: c.value}
			d, ok := entry.TransactionDate()
			assert.Equal(t, c.ok, ok)
			if c.ok {
				assert.Equal(t, c.expected, d.Format("2006-01-02"))
			}
		})
	}
}

func TestNetAmount(t *testing.T) {
	entry := &Entry{
		Amount: Amount{Value: "402.30", Currency: "CHF"},
		Charges: Charges{
			TotalChargesAndTaxAmount: Amount{Value: "2.30", Currency: "CHF"},
		},
	}
	net, currency := entry.NetAmount()
	assert.Equal(t, "CHF", currency)
	assert.True(t, net.Equal(decimal.RequireFromString("400.00")), "net=%s", net)

	// Charges in a different currency are ignored.
	entry.Charges.TotalChargesAndTaxAmount.Currency = "EUR"
	net, _ = entry.NetAmount()
	assert.True(t, net.Equal(decimal.RequireFromString("402.30")), "net=%s", net)
}

func TestReversalFlag(t *testing.T) {
	assert.False(t, (&Entry{}).Reversal())
	assert.True(t, (&Entry{ReversalInd: "true"}).Reversal())
	assert.True(t, (&Entry{ReversalInd: " TRUE "}).Reversal())
	assert.False(t, (&Entry{ReversalInd: "false"}).Reversal())
}

func TestParseRejectsMalformedXML(t *testing.T) {
	_, err := Parse([]byte("<Document><Unclosed"))
	assert.Error(t, err)
}
