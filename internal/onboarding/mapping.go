// Package onboarding decodes flat key-value merchant onboarding submissions
// into domain objects. Decoding is driven by an explicit mapping table of
// (key template, parser, target) tuples evaluated iteratively; there is no
// reflection and no tag scanning, so the accepted keys are exactly the ones
// listed in the table.
package onboarding

import (
	"fmt"
	"strings"
)

// Submission is the decoded onboarding payload: one merchant and the
// settlement accounts registered with it.
type Submission struct {
	MerchantID     string
	MerchantName   string
	AccountNumbers []string
}

// ErrMissingField indicates a required key was absent from the payload
type ErrMissingField struct {
	Key string
}

func (e ErrMissingField) Error() string {
	return "missing required onboarding field: " + e.Key
}

// Is implements the errors.Is interface for ErrMissingField
func (e ErrMissingField) Is(target error) bool {
	t, ok := target.(ErrMissingField)
	if !ok {
		return false
	}
	if t.Key == "" {
		return true
	}
	return e.Key == t.Key
}

// ErrInvalidField indicates a present key failed its parser
type ErrInvalidField struct {
	Key    string
	Reason string
}

func (e ErrInvalidField) Error() string {
	return fmt.Sprintf("invalid onboarding field %s: %s", e.Key, e.Reason)
}

// Is implements the errors.Is interface for ErrInvalidField
func (e ErrInvalidField) Is(target error) bool {
	t, ok := target.(ErrInvalidField)
	if !ok {
		return false
	}
	if t.Key == "" {
		return true
	}
	return e.Key == t.Key
}

// parser validates and normalizes a raw field value.
type parser func(value string) (string, error)

func nonEmptyString(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("must not be blank")
	}
	return v, nil
}

func accountNumber(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("must not be blank")
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("must contain digits only")
		}
	}
	return v, nil
}

// fieldMapping binds one payload key to one target field. Indexed mappings
// carry a key template with a single %d verb and are expanded from index 0
// upward until the first gap.
type fieldMapping struct {
	key      string
	indexed  bool
	required bool
	parse    parser
	assign   func(s *Submission, value string)
}

var submissionMappings = []fieldMapping{
	{
		key:      "merchant_id",
		required: true,
		parse:    nonEmptyString,
		assign:   func(s *Submission, v string) { s.MerchantID = v },
	},
	{
		key:      "merchant_name",
		required: true,
		parse:    nonEmptyString,
		assign:   func(s *Submission, v string) { s.MerchantName = v },
	},
	{
		key:     "account_%d_number",
		indexed: true,
		parse:   accountNumber,
		assign:  func(s *Submission, v string) { s.AccountNumbers = append(s.AccountNumbers, v) },
	},
}

// Decode evaluates the mapping table against a flat payload. Unknown keys
// are ignored. A submission must name at least one settlement account.
func Decode(fields map[string]string) (*Submission, error) {
	submission := &Submission{}

	for _, mapping := range submissionMappings {
		if mapping.indexed {
			if err := decodeIndexed(fields, mapping, submission); err != nil {
				return nil, err
			}
			continue
		}

		raw, ok := fields[mapping.key]
		if !ok {
			if mapping.required {
				return nil, ErrMissingField{Key: mapping.key}
			}
			continue
		}
		value, err := mapping.parse(raw)
		if err != nil {
			return nil, ErrInvalidField{Key: mapping.key, Reason: err.Error()}
		}
		mapping.assign(submission, value)
	}

	if len(submission.AccountNumbers) == 0 {
		return nil, ErrMissingField{Key: fmt.Sprintf(submissionMappings[2].key, 0)}
	}
	return submission, nil
}

func decodeIndexed(fields map[string]string, mapping fieldMapping, submission *Submission) error {
	for i := 0; ; i++ {
		key := fmt.Sprintf(mapping.key, i)
		raw, ok := fields[key]
		if !ok {
			return nil
		}
		value, err := mapping.parse(raw)
		if err != nil {
			return ErrInvalidField{Key: key, Reason: err.Error()}
		}
		mapping.assign(submission, value)
	}
}
