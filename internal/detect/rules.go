package detect

import (
	"regexp"

	"github.com/inkognito-mcp/inkognito/internal/entity"
)

// DefaultRules returns the built-in pattern-based detection rules.
// Pattern detection covers structured identifiers only; PERSON,
// ORGANIZATION and LOCATION need the HTTP detector's model.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "email",
			Type:       entity.EmailAddress,
			Pattern:    regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			Confidence: 0.95,
		},
		{
			Name:       "ssn",
			Type:       entity.USSSN,
			Pattern:    regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			Confidence: 0.9,
		},
		{
			Name:       "credit_card",
			Type:       entity.CreditCard,
			Pattern:    regexp.MustCompile(`\b(?:\d{4}[- ]){3}\d{4}\b|\b\d{16}\b`),
			Confidence: 0.8,
		},
		{
			Name:       "phone",
			Type:       entity.PhoneNumber,
			Pattern:    regexp.MustCompile(`\+?\d{1,3}[-. ]?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}\b`),
			Confidence: 0.7,
		},
		{
			Name:       "ipv4",
			Type:       entity.IPAddress,
			Pattern:    regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`),
			Confidence: 0.9,
		},
		{
			Name:       "url",
			Type:       entity.URL,
			Pattern:    regexp.MustCompile(`https?://[^\s<>"')\]]+`),
			Confidence: 0.9,
		},
		{
			Name:       "iso_date",
			Type:       entity.DateTime,
			Pattern:    regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2})?)?\b`),
			Confidence: 0.65,
		},
		{
			Name:       "iban",
			Type:       entity.BankNumber,
			Pattern:    regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),
			Confidence: 0.8,
		},
		{
			Name:       "eth_address",
			Type:       entity.Crypto,
			Pattern:    regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`),
			Confidence: 0.95,
		},
		{
			Name:       "btc_address",
			Type:       entity.Crypto,
			Pattern:    regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`),
			Confidence: 0.6,
		},
		{
			Name:       "passport",
			Type:       entity.Passport,
			Pattern:    regexp.MustCompile(`\b[A-Z]{1,2}\d{7}\b`),
			Confidence: 0.6,
		},
		{
			Name:       "driver_license",
			Type:       entity.DriverLicense,
			Pattern:    regexp.MustCompile(`\bDL-\d{8}\b`),
			Confidence: 0.85,
		},
		{
			Name:       "medical_license",
			Type:       entity.MedicalLicense,
			Pattern:    regexp.MustCompile(`\bMD-\d{7}\b`),
			Confidence: 0.85,
		},
	}
}
