package schema

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ColumnType names the value producer used to fill a column.
// Tags outside the known set are kept verbatim so they can be reported.
type ColumnType string

const (
	String         ColumnType = "String"
	Integer        ColumnType = "Integer"
	Boolean        ColumnType = "Boolean"
	Decimal        ColumnType = "Decimal"
	CurrencyAmount ColumnType = "CurrencyAmount"
	Date           ColumnType = "Date"
	Birthdate      ColumnType = "Birthdate"
	Timestamp      ColumnType = "Timestamp"
	Name           ColumnType = "Name"
	FirstName      ColumnType = "FirstName"
	LastName       ColumnType = "LastName"
	Email          ColumnType = "Email"
	PhoneNumber    ColumnType = "PhoneNumber"
	Address        ColumnType = "Address"
	StreetAddress  ColumnType = "StreetAddress"
	City           ColumnType = "City"
	State          ColumnType = "State"
	Zipcode        ColumnType = "Zipcode"
	Country        ColumnType = "Country"
	Company        ColumnType = "Company"
	JobTitle       ColumnType = "JobTitle"
	URL            ColumnType = "URL"
	CreditCard     ColumnType = "CreditCard"
	Color          ColumnType = "Color"
	Text           ColumnType = "Text"
	UUID           ColumnType = "UUID"

	// Custom columns carry no generator of their own and must declare a constant.
	Custom ColumnType = "Custom"
)

var knownTypes = []ColumnType{
	String, Integer, Boolean, Decimal, CurrencyAmount,
	Date, Birthdate, Timestamp,
	Name, FirstName, LastName, Email, PhoneNumber,
	Address, StreetAddress, City, State, Zipcode, Country,
	Company, JobTitle, URL, CreditCard, Color, Text, UUID,
	Custom,
}

// Spellings used by the form-based authoring tools.
var typeAliases = map[string]ColumnType{
	"str":              String,
	"int":              Integer,
	"bool":             Boolean,
	"float":            Decimal,
	"currency":         CurrencyAmount,
	"money":            CurrencyAmount,
	"dob":              Birthdate,
	"datetime":         Timestamp,
	"fullname":         Name,
	"phone":            PhoneNumber,
	"street":           StreetAddress,
	"zip":              Zipcode,
	"postalcode":       Zipcode,
	"job":              JobTitle,
	"creditcardnumber": CreditCard,
	"randomtext":       Text,
	"guid":             UUID,
}

var typeLookup = func() map[string]ColumnType {
	m := make(map[string]ColumnType, len(knownTypes)+len(typeAliases))
	for _, t := range knownTypes {
		m[normalizeTag(string(t))] = t
	}
	for alias, t := range typeAliases {
		m[alias] = t
	}
	return m
}()

func normalizeTag(tag string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(tag) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseColumnType maps a tag such as "Phone Number" or "phone_number" onto
// its canonical ColumnType. Unrecognized tags are returned trimmed but
// otherwise unchanged.
func ParseColumnType(tag string) ColumnType {
	if t, ok := typeLookup[normalizeTag(tag)]; ok {
		return t
	}
	return ColumnType(strings.TrimSpace(tag))
}

// Known reports whether t is one of the canonical column types.
func (t ColumnType) Known() bool {
	for _, k := range knownTypes {
		if k == t {
			return true
		}
	}
	return false
}

// KnownTypes returns every canonical column type in display order.
func KnownTypes() []ColumnType {
	out := make([]ColumnType, len(knownTypes))
	copy(out, knownTypes)
	return out
}

func (t *ColumnType) UnmarshalYAML(value *yaml.Node) error {
	var tag string
	if err := value.Decode(&tag); err != nil {
		return err
	}
	*t = ParseColumnType(tag)
	return nil
}
