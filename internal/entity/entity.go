package entity

import "strings"

// Type is a closed enumeration of sensitive entity categories. Detector
// output is validated against it at the boundary; anything unrecognized
// collapses to Unknown and is handled by the generic fallback generator.
type Type string

const (
	Person         Type = "PERSON"
	Organization   Type = "ORGANIZATION"
	Location       Type = "LOCATION"
	EmailAddress   Type = "EMAIL_ADDRESS"
	PhoneNumber    Type = "PHONE_NUMBER"
	CreditCard     Type = "CREDIT_CARD"
	USSSN          Type = "US_SSN"
	Passport       Type = "PASSPORT"
	DriverLicense  Type = "DRIVER_LICENSE"
	IPAddress      Type = "IP_ADDRESS"
	DateTime       Type = "DATE_TIME"
	URL            Type = "URL"
	BankNumber     Type = "BANK_NUMBER"
	Crypto         Type = "CRYPTO"
	MedicalLicense Type = "MEDICAL_LICENSE"
	Unknown        Type = "UNKNOWN"
)

// all lists every concrete type, in the order used for default detection.
var all = []Type{
	EmailAddress, PhoneNumber, CreditCard,
	USSSN, Passport, DriverLicense,
	IPAddress, Person, Location,
	Organization, DateTime, URL,
	BankNumber, Crypto, MedicalLicense,
}

// All returns the closed set of concrete entity types (Unknown excluded).
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// Parse maps a free-form type string onto the closed enumeration.
// Unrecognized values map to Unknown, never to an error.
func Parse(s string) Type {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	// Legacy detector names.
	switch t {
	case "US_DRIVER_LICENSE":
		return DriverLicense
	case "US_BANK_NUMBER":
		return BankNumber
	}
	return Unknown
}

// Valid reports whether t is a member of the closed enumeration.
func (t Type) Valid() bool {
	for _, known := range all {
		if t == known {
			return true
		}
	}
	return t == Unknown
}

func (t Type) String() string { return string(t) }

// Detection is a single detector finding: the literal matched value, its
// category, and the detector's confidence in [0,1].
type Detection struct {
	Type       Type    `json:"entity_type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}
