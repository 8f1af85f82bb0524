package camt

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reference provenance tags, kept verbatim from the legacy importer so
// debug output stays comparable across systems.
const (
	RefSourceAcctSvcrRef = "UBS_AcctSvcrRef"
	RefSourceRmtInf      = "UBS_RmtInf"
	RefSourceBkTxCd      = "Wise_BkTxCd"
)

// acceptedStatuses are the entry statuses that survive extraction. Pending
// entries already carry a booking date and amount, so they are kept
// alongside booked ones.
var acceptedStatuses = map[string]bool{
	"BOOK": true,
	"PDNG": true,
}

// StatusCode returns the entry status from either encoding: the nested code
// element or the element's direct text.
func (e *Entry) StatusCode() string {
	if e.Status.Code != "" {
		return e.Status.Code
	}
	return strings.TrimSpace(e.Status.Text)
}

// Accepted reports whether the entry's status admits it into output.
func (e *Entry) Accepted() bool {
	return acceptedStatuses[e.StatusCode()]
}

// TransactionDate resolves the entry date, trying booking date-time, value
// date-time, booking plain date, then value plain date. Date-times are
// truncated to the calendar date. ok is false when no candidate parses.
func (e *Entry) TransactionDate() (time.Time, bool) {
	candidates := []string{
		e.BookingDate.DateTime,
		e.ValueDate.DateTime,
		e.BookingDate.Date,
		e.ValueDate.Date,
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if t, ok := parseEntryDate(raw); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseEntryDate(raw string) (time.Time, bool) {
	if strings.Contains(raw, "T") {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC().Truncate(24 * time.Hour), true
			}
		}
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Reversal reports the entry's reversal indicator. The credit/debit
// indicator of a reversal entry already expresses the reversing movement,
// so the flag is surfaced as metadata only and never flips the amount.
func (e *Entry) Reversal() bool {
	return strings.EqualFold(strings.TrimSpace(e.ReversalInd), "true")
}

// Reference resolves the entry's reference number via the dialect cascade:
//
//  1. bank-assigned AcctSvcrRef on the entry (UBS),
//  2. structured creditor reference under NtryDtls/TxDtls or a flattened
//     TxDtls (QRR references are reformatted, others used verbatim),
//  3. the same structured reference directly under the entry,
//  4. proprietary bank transaction code (Wise).
//
// The second return value tags which branch supplied the value.
func (e *Entry) Reference() (string, string) {
	if e.AcctSvcrRef != "" {
		return e.AcctSvcrRef, RefSourceAcctSvcrRef
	}

	for _, td := range e.transactionDetails() {
		if ref := creditorReference(td.RmtInf); ref != "" {
			return ref, RefSourceRmtInf
		}
	}
	if ref := creditorReference(e.RmtInf); ref != "" {
		return ref, RefSourceRmtInf
	}

	if code := e.BkTxCd.Proprietary.Code; code != "" {
		return code, RefSourceBkTxCd
	}
	return "", ""
}

// transactionDetails returns the entry's TxDtls blocks, tolerating both the
// standard NtryDtls nesting and dialects that flatten TxDtls onto the entry.
func (e *Entry) transactionDetails() []TransactionDetails {
	var details []TransactionDetails
	for _, nd := range e.EntryDetails {
		details = append(details, nd.TxDetails...)
	}
	details = append(details, e.TxDetails...)
	return details
}

func creditorReference(rmt *RemittanceInfo) string {
	if rmt == nil {
		return ""
	}
	for _, strd := range rmt.Structured {
		cri := strd.CreditorRefInfo
		if cri == nil || cri.Reference == "" {
			continue
		}
		if cri.Type.CodeOrProprietary.Proprietary == "QRR" {
			return FormatQRRReference(cri.Reference)
		}
		return cri.Reference
	}
	return ""
}

// NetAmount returns the entry amount minus charges, with the currency code.
// Charges are only deducted when booked in the entry's own currency.
func (e *Entry) NetAmount() (decimal.Decimal, string) {
	amount := parseDecimal(e.Amount.Value)
	currency := e.Amount.Currency

	charge := decimal.Zero
	chargeAmt := e.Charges.TotalChargesAndTaxAmount
	if chargeAmt.Value != "" && chargeAmt.Currency == currency {
		charge = parseDecimal(chargeAmt.Value)
	}

	return amount.Sub(charge), currency
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatQRRReference renders a Swiss QRR creditor reference in the standard
// 2-5-5-5-5-5 grouping. Anything that is not exactly 27 digits after space
// stripping passes through unchanged.
func FormatQRRReference(ref string) string {
	clean := strings.TrimSpace(strings.ReplaceAll(ref, " ", ""))
	if len(clean) != 27 || !isDigits(clean) {
		return ref
	}
	groups := []string{
		clean[0:2], clean[2:7], clean[7:12], clean[12:17], clean[17:22], clean[22:27],
	}
	return strings.Join(groups, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
