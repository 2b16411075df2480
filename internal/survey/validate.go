package survey

import (
	"fmt"
	"strings"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// Field identifies an editable survey field.
type Field int

const (
	FieldGender Field = iota
	FieldAgeRange
	FieldEthnicity
	FieldBudgetTier
	FieldGroupType
	FieldGroupSize
	FieldChildFriendly
	FieldDurationDays
	FieldLocation
)

var fieldNames = map[Field]string{
	FieldGender:        "gender",
	FieldAgeRange:      "age",
	FieldEthnicity:     "ethnicity",
	FieldBudgetTier:    "budget",
	FieldGroupType:     "group type",
	FieldGroupSize:     "group size",
	FieldChildFriendly: "child friendly",
	FieldDurationDays:  "duration",
	FieldLocation:      "location",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// MissingPersonal lists the required personal fields that are unset.
func MissingPersonal(r model.Record) []Field {
	var missing []Field
	if r.Gender == "" {
		missing = append(missing, FieldGender)
	}
	if r.AgeRange == "" {
		missing = append(missing, FieldAgeRange)
	}
	return missing
}

// MissingTrip lists the required trip fields that are unset.
func MissingTrip(r model.Record) []Field {
	var missing []Field
	if r.BudgetTier == "" {
		missing = append(missing, FieldBudgetTier)
	}
	if r.GroupType == "" {
		missing = append(missing, FieldGroupType)
	}
	if r.GroupSize == "" {
		missing = append(missing, FieldGroupSize)
	}
	if r.DurationDays == "" {
		missing = append(missing, FieldDurationDays)
	}
	if r.LocationLabel == "" {
		missing = append(missing, FieldLocation)
	}
	return missing
}

// ValidatePersonal holds when gender and age range are both set.
func ValidatePersonal(r model.Record) bool {
	return len(MissingPersonal(r)) == 0
}

// ValidateTrip holds when budget, group type, group size, duration and location are all set.
func ValidateTrip(r model.Record) bool {
	return len(MissingTrip(r)) == 0
}

// ValidationError reports required fields missing from the active section.
type ValidationError struct {
	Section Section
	Missing []Field
	Notice  model.Notice
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = f.String()
	}
	return fmt.Sprintf("%s section: missing %s", e.Section, strings.Join(names, ", "))
}

func personalError(missing []Field) *ValidationError {
	return &ValidationError{
		Section: SectionPersonal,
		Missing: missing,
		Notice:  model.Notice{Title: "Missing Information", Message: "Please fill out gender and age"},
	}
}

func tripError(missing []Field) *ValidationError {
	return &ValidationError{
		Section: SectionTrip,
		Missing: missing,
		Notice:  model.Notice{Title: "Missing Information", Message: "Please fill out all required trip details"},
	}
}
