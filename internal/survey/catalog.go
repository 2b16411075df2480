package survey

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CustomKey is the picker value that switches the location to free entry.
const CustomKey = "custom"

// Option is one entry of a picker. An empty Value is the placeholder.
type Option struct {
	Label string
	Value string
}

// Destination is a selectable catalog location. Catalog entries carry no coordinates.
type Destination struct {
	Key   string
	Label string
}

var destinations = []Destination{
	{Key: "new-york", Label: "New York, USA"},
	{Key: "paris", Label: "Paris, France"},
	{Key: "tokyo", Label: "Tokyo, Japan"},
	{Key: "london", Label: "London, UK"},
	{Key: "rome", Label: "Rome, Italy"},
	{Key: "sydney", Label: "Sydney, Australia"},
	{Key: "barcelona", Label: "Barcelona, Spain"},
	{Key: "dubai", Label: "Dubai, UAE"},
	{Key: "singapore", Label: "Singapore"},
}

// Destinations returns the catalog in display order.
func Destinations() []Destination {
	out := make([]Destination, len(destinations))
	copy(out, destinations)
	return out
}

// LookupDestination finds a catalog entry by key.
func LookupDestination(key string) (Destination, bool) {
	for _, d := range destinations {
		if d.Key == key {
			return d, true
		}
	}
	return Destination{}, false
}

// FindDestination matches s against catalog keys and labels, ignoring case
// and diacritics. "paris", "Paris, France" and "PARÍS" all find Paris.
func FindDestination(s string) (Destination, bool) {
	q := Fold(s)
	if q == "" {
		return Destination{}, false
	}
	for _, d := range destinations {
		if d.Key == q || Fold(d.Label) == q {
			return d, true
		}
		if city, _, _ := strings.Cut(d.Label, ","); Fold(city) == q {
			return d, true
		}
	}
	return Destination{}, false
}

// Fold lowercases s, trims it and strips diacritics, so "Zürich" and "zurich" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	out, _, _ := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	return out
}

// LocationOptions returns the location picker: placeholder, catalog, then custom.
func LocationOptions() []Option {
	opts := []Option{{Label: "Select a location", Value: ""}}
	for _, d := range destinations {
		opts = append(opts, Option{Label: d.Label, Value: d.Key})
	}
	return append(opts, Option{Label: "Custom Location", Value: CustomKey})
}

var ethnicities = []string{
	"African", "Asian", "Caucasian", "Hispanic/Latino",
	"Middle Eastern", "Native American", "Pacific Islander", "Other", "Prefer not to say",
}

var fieldOptions = map[Field][]Option{
	FieldGender: {
		{"Select Gender", ""},
		{"Male", "male"},
		{"Female", "female"},
		{"Non-binary", "non-binary"},
		{"Prefer not to say", "not-specified"},
	},
	FieldAgeRange: {
		{"Select Age Range", ""},
		{"Under 18", "under-18"},
		{"18-24", "18-24"},
		{"25-34", "25-34"},
		{"35-44", "35-44"},
		{"45-54", "45-54"},
		{"55-64", "55-64"},
		{"65+", "65+"},
	},
	FieldBudgetTier: {
		{"Select Budget", ""},
		{"Budget-friendly", "budget"},
		{"Mid-range", "mid-range"},
		{"Luxury", "luxury"},
	},
	FieldGroupType: {
		{"Select Group Type", ""},
		{"Individual", "individual"},
		{"Couple", "couple"},
		{"Friends", "friends"},
		{"Family", "family"},
	},
	FieldGroupSize: {
		{"Select Group Size", ""},
		{"1 person", "1"},
		{"2 people", "2"},
		{"3-4 people", "3-4"},
		{"5-8 people", "5-8"},
		{"9+ people", "9+"},
	},
}

func init() {
	opts := []Option{{"Select Ethnicity", ""}}
	for _, e := range ethnicities {
		opts = append(opts, Option{Label: e, Value: strings.ToLower(e)})
	}
	fieldOptions[FieldEthnicity] = opts
}

// Options returns the picker entries for a categorical field, placeholder first.
// Free-text fields return nil.
func Options(f Field) []Option {
	return fieldOptions[f]
}

// OptionLabel returns the display label of value within the field's picker,
// or the raw value when it is not one of the listed options.
func OptionLabel(f Field, value string) string {
	for _, o := range fieldOptions[f] {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
