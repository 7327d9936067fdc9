package entity

import "testing"

// TestParse tests mapping free-form type strings onto the closed set
func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
	}{
		{"PERSON", Person},
		{"person", Person},
		{"  Email_Address  ", EmailAddress},
		{"US_SSN", USSSN},
		{"US_DRIVER_LICENSE", DriverLicense},
		{"US_BANK_NUMBER", BankNumber},
		{"CRYPTO", Crypto},
		{"", Unknown},
		{"NOT_A_TYPE", Unknown},
		{"UNKNOWN", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.expected {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if !Person.Valid() {
		t.Error("Person should be valid")
	}
	if !Unknown.Valid() {
		t.Error("Unknown should be a valid member of the enumeration")
	}
	if Type("GIBBERISH").Valid() {
		t.Error("Arbitrary strings should not be valid")
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 15 {
		t.Errorf("Expected 15 concrete types, got %d", len(all))
	}
	for _, typ := range all {
		if typ == Unknown {
			t.Error("All() should not include Unknown")
		}
	}

	// Mutating the returned slice must not affect later calls.
	all[0] = Unknown
	if All()[0] == Unknown {
		t.Error("All() should return an independent copy")
	}
}
