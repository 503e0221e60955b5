// Package report defines the three-part settlement report and the layout
// constants of the flat file the counterparty validates byte-for-byte.
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record type discriminators, the leading field of every rendered record.
const (
	RecordTypeHeader  = "H"
	RecordTypeDetail  = "D"
	RecordTypeTrailer = "T"
)

// Wire layout constants. Changing either is a protocol break, not a
// cosmetic change.
const (
	FieldDelimiter  = "|"
	LineSeparator   = "\n"
	TimestampLayout = "20060102150405"
)

// Header is the single leading record of a rendered file.
type Header struct {
	RecordType    string
	FileType      string
	LayoutVersion string
	ProgramType   string // Always "ACH"
	CompanyID     string
	ProgramID     string
	GeneratedAt   time.Time
}

// Detail is one record per resolved transaction line.
type Detail struct {
	RecordType     string
	CompanyID      string
	ProgramID      string
	AccountNumber  string // Blank when the merchant or account is unresolved
	Amount         decimal.Decimal
	SequenceAnchor int64
}

// Trailer closes the file with the detail count and the batch total. The
// total is formatted with exactly two fractional digits; the underlying sum
// accumulates at full precision and is rounded once, at formatting time.
type Trailer struct {
	RecordType  string
	DetailCount int
	TotalAmount string
}

// Report is the ordered triple (header, detail sequence, trailer). A report
// with zero detail lines is never constructed; the pipeline short-circuits
// before building one.
type Report struct {
	Header  Header
	Details []Detail
	Trailer Trailer
}

// FileName derives the rendered file name from the company identifier, the
// program identifier, and the generation timestamp. Path separators are
// stripped so the name is safe as both an object key segment and a remote
// file name.
func FileName(companyID, programID string, generatedAt time.Time) string {
	name := companyID + "_" + programID + "_" + generatedAt.Format(TimestampLayout) + ".txt"
	return strings.NewReplacer("/", "", "\\", "").Replace(name)
}
