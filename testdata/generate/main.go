// Command generate writes deterministic sample CAMT.053 statement files
// (one UBS-style .001.04 document and one Wise-style .001.10 document) next
// to the parties seed data, for manual testing of the preview endpoint.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func main() {
	baseDir := findTestdataDir()
	outDir := filepath.Join(baseDir, "statements")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", outDir, err)
	}

	startDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	ubs := buildUBSStatement(startDate)
	writeFile(filepath.Join(outDir, "ubs_2024-03.xml"), ubs)

	wise := buildWiseStatement(startDate.AddDate(0, 0, 7))
	writeFile(filepath.Join(outDir, "wise_2024-03.xml"), wise)

	log.Printf("Wrote sample statements to %s", outDir)
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	log.Printf("  %s (%d bytes)", path, len(content))
}

func findTestdataDir() string {
	for _, candidate := range []string{"testdata", filepath.Join("..", ".."), "."} {
		if _, err := os.Stat(filepath.Join(candidate, "parties.json")); err == nil {
			return candidate
		}
	}
	return "testdata"
}

// buildUBSStatement renders a camt.053.001.04 document the way UBS does:
// plain booking dates, AcctSvcrRef on some entries, a structured QRR
// reference on others, and charges in the entry currency.
func buildUBSStatement(start time.Time) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.04">
 <BkToCstmrStmt>
  <Stmt>
   <Id>STMT-UBS-2024-03</Id>
   <Acct><Id><IBAN>CH9300762011623852957</IBAN></Id></Acct>
`)

	// Customer payment in, matched by bank alias.
	fmt.Fprintf(&b, ubsCreditEntry,
		"1250.00", start.Format("2006-01-02"),
		"210000000003139471430009017", "ALPENBLICK IMMOBILIEN AG",
		"Gutschrift QR-Rechnung")

	// Supplier payment out with charges.
	fmt.Fprintf(&b, ubsDebitEntry,
		"402.30", "2.30", start.AddDate(0, 0, 1).Format("2006-01-02"),
		"UBS-REF-000017", "HELVETIA BUEROBEDARF AG",
		"Zahlung Buerobedarf")

	// Informational entry that the status filter must drop.
	fmt.Fprintf(&b, ubsInfoEntry, start.AddDate(0, 0, 2).Format("2006-01-02"))

	b.WriteString(`  </Stmt>
 </BkToCstmrStmt>
</Document>
`)
	return b.String()
}

const ubsCreditEntry = `   <Ntry>
    <Amt Ccy="CHF">%s</Amt>
    <CdtDbtInd>CRDT</CdtDbtInd>
    <Sts>BOOK</Sts>
    <BookgDt><Dt>%s</Dt></BookgDt>
    <AddtlNtryInf>%[5]s</AddtlNtryInf>
    <NtryDtls>
     <TxDtls>
      <RmtInf>
       <Strd>
        <CdtrRefInf>
         <Tp><CdOrPrtry><Prtry>QRR</Prtry></CdOrPrtry></Tp>
         <Ref>%[3]s</Ref>
        </CdtrRefInf>
       </Strd>
      </RmtInf>
      <RltdPties>
       <Dbtr><Nm>%[4]s</Nm></Dbtr>
       <DbtrAcct><Id><IBAN>CH5604835012345678009</IBAN></Id></DbtrAcct>
      </RltdPties>
     </TxDtls>
    </NtryDtls>
   </Ntry>
`

const ubsDebitEntry = `   <Ntry>
    <Amt Ccy="CHF">%s</Amt>
    <CdtDbtInd>DBIT</CdtDbtInd>
    <Sts>BOOK</Sts>
    <BookgDt><Dt>%[3]s</Dt></BookgDt>
    <AcctSvcrRef>%[4]s</AcctSvcrRef>
    <Chrgs><TtlChrgsAndTaxAmt Ccy="CHF">%[2]s</TtlChrgsAndTaxAmt></Chrgs>
    <AddtlNtryInf>%[6]s</AddtlNtryInf>
    <NtryDtls>
     <TxDtls>
      <RltdPties>
       <Cdtr><Nm>%[5]s</Nm></Cdtr>
      </RltdPties>
     </TxDtls>
    </NtryDtls>
   </Ntry>
`

const ubsInfoEntry = `   <Ntry>
    <Amt Ccy="CHF">10.00</Amt>
    <CdtDbtInd>CRDT</CdtDbtInd>
    <Sts>INFO</Sts>
    <BookgDt><Dt>%s</Dt></BookgDt>
    <AddtlNtryInf>Avisierung</AddtlNtryInf>
   </Ntry>
`

// buildWiseStatement renders a camt.053.001.10 document in the Wise
// dialect: nested status codes, date-times, and a proprietary bank
// transaction code as the only reference.
func buildWiseStatement(start time.Time) string {
	cet := time.FixedZone("CET", 3600)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.10">
 <BkToCstmrStmt>
  <Stmt>
   <Id>STMT-WISE-2024-03</Id>
   <Acct><Id><IBAN>BE68539007547034</IBAN></Id></Acct>
`)

	fmt.Fprintf(&b, wiseEntry,
		"880.00", "CRDT", start.In(cet).Format(time.RFC3339),
		"TRANSFER-775038412", "Received money from BERGMANN CONSULTING with reference INV-2024-118")

	fmt.Fprintf(&b, wiseEntry,
		"129.95", "DBIT", start.AddDate(0, 0, 1).In(cet).Format(time.RFC3339),
		"CARD-119920034", "Card transaction issued by Jura Logistik GmbH")

	b.WriteString(`  </Stmt>
 </BkToCstmrStmt>
</Document>
`)
	return b.String()
}

const wiseEntry = `   <Ntry>
    <Amt Ccy="EUR">%s</Amt>
    <CdtDbtInd>%s</CdtDbtInd>
    <Sts><Cd>BOOK</Cd></Sts>
    <BookgDt><DtTm>%s</DtTm></BookgDt>
    <BkTxCd><Prtry><Cd>%s</Cd></Prtry></BkTxCd>
    <AddtlNtryInf>%s</AddtlNtryInf>
   </Ntry>
`
