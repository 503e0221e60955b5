// Package settlement holds the core domain types of the settlement report
// pipeline: funding transactions, merchant reference data, resolved report
// lines, and the program selectors the counterparty recognizes.
package settlement

// ProgramSelector identifies which of the two settlement programs a batch
// belongs to. Only the two constants below are recognized; anything else is
// a configuration error raised before any I/O occurs.
type ProgramSelector string

const (
	ProgramStandard ProgramSelector = "standard"
	ProgramSameDay  ProgramSelector = "sameday"
)

// ProgramType is the program type constant embedded in every header record.
const ProgramType = "ACH"

// ErrUnknownProgram indicates an unrecognized program selector
type ErrUnknownProgram struct {
	Selector ProgramSelector
}

func (e ErrUnknownProgram) Error() string {
	return "unknown settlement program selector: " + string(e.Selector)
}

// Is implements the errors.Is interface for ErrUnknownProgram
func (e ErrUnknownProgram) Is(target error) bool {
	t, ok := target.(ErrUnknownProgram)
	if !ok {
		return false
	}
	// An empty target selector matches any ErrUnknownProgram
	if t.Selector == "" {
		return true
	}
	return e.Selector == t.Selector
}
