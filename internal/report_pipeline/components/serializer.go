package components

import (
	"bytes"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/settlement-reporting/internal/domain/report"
	"github.com/settlement-reporting/internal/report_pipeline/service"
	"github.com/shopspring/decimal"
)

// ErrEmptyReport is returned when serialization is attempted on a report
// without detail lines.
var ErrEmptyReport = errors.New("cannot render a report without detail lines")

// LayoutSerializerImpl renders the pipe-delimited layout. The field order,
// delimiter and line separator are fixed by the counterparty and must not
// vary between runs.
type LayoutSerializerImpl struct {
	logger *slog.Logger
}

// NewLayoutSerializer creates a serializer.
func NewLayoutSerializer(logger *slog.Logger) service.LayoutSerializer {
	return &LayoutSerializerImpl{logger: logger}
}

// Render emits one header line, one line per detail in order, and one
// trailer line. Detail amounts render at their stored scale, trailing
// zeros included; only the trailer total is fixed to two decimals.
func (s *LayoutSerializerImpl) Render(rpt *report.Report) ([]byte, error) {
	if rpt == nil || len(rpt.Details) == 0 {
		return nil, ErrEmptyReport
	}

	var buf bytes.Buffer

	h := rpt.Header
	writeRecord(&buf,
		h.RecordType,
		h.FileType,
		h.LayoutVersion,
		h.ProgramType,
		h.CompanyID,
		h.ProgramID,
		h.GeneratedAt.Format(report.TimestampLayout),
	)

	for _, d := range rpt.Details {
		writeRecord(&buf,
			d.RecordType,
			d.CompanyID,
			d.ProgramID,
			d.AccountNumber,
			detailAmount(d.Amount),
			strconv.FormatInt(d.SequenceAnchor, 10),
		)
	}

	t := rpt.Trailer
	writeRecord(&buf,
		t.RecordType,
		strconv.Itoa(t.DetailCount),
		t.TotalAmount,
	)

	s.logger.Debug("Rendered report layout", "bytes", buf.Len(), "details", len(rpt.Details))
	return buf.Bytes(), nil
}

// detailAmount renders an amount at its stored scale, so a source value of
// 20.00 stays "20.00" on the wire instead of collapsing to "20". Amounts
// arrive from NUMERIC columns scanned as text, which fixes the scale.
func detailAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

func writeRecord(buf *bytes.Buffer, fields ...string) {
	buf.WriteString(strings.Join(fields, report.FieldDelimiter))
	buf.WriteString(report.LineSeparator)
}
