package network

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance; validator caches struct
// metadata, so one instance is shared.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateRecords checks field-level constraints and id uniqueness.
func validateRecords(holes []HoleRecord, connectors []ConnectorRecord) error {
	for i := range holes {
		if err := validate.Struct(&holes[i]); err != nil {
			return recordError(fmt.Sprintf("holes[%d]", i), err)
		}
	}
	for i := range connectors {
		if err := validate.Struct(&connectors[i]); err != nil {
			return recordError(fmt.Sprintf("connectors[%d]", i), err)
		}
	}

	if dups := duplicateIDs(len(holes), func(i int) string { return holes[i].ID }); len(dups) > 0 {
		return &InvalidGraphError{
			Code:    ErrCodeDuplicateID,
			Message: "hole ids must be unique",
			HoleIDs: dups,
		}
	}
	if dups := duplicateIDs(len(connectors), func(i int) string { return connectors[i].ID }); len(dups) > 0 {
		return &InvalidGraphError{
			Code:         ErrCodeDuplicateID,
			Message:      "connector ids must be unique",
			ConnectorIDs: dups,
		}
	}
	return nil
}

// recordError turns the first validator failure into an InvalidGraphError.
func recordError(where string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InvalidGraphError{Code: ErrCodeInvalidRecord, Message: fmt.Sprintf("%s: %v", where, err)}
	}

	e := verrs[0]
	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%s.%s: field is required", where, e.Field())
	case "gte":
		msg = fmt.Sprintf("%s.%s: must be at least %s", where, e.Field(), e.Param())
	case "oneof":
		msg = fmt.Sprintf("%s.%s: must be one of [%s], got %q", where, e.Field(), e.Param(), e.Value())
	default:
		msg = fmt.Sprintf("%s.%s: validation failed (%s)", where, e.Field(), e.Tag())
	}
	return &InvalidGraphError{Code: ErrCodeInvalidRecord, Message: msg}
}

func duplicateIDs(n int, id func(int) string) []string {
	seen := make(map[string]int, n)
	var dups []string
	for i := 0; i < n; i++ {
		seen[id(i)]++
		if seen[id(i)] == 2 {
			dups = append(dups, id(i))
		}
	}
	return dups
}
