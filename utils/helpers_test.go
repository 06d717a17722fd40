package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword("secret123", hash); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		exp  bool
	}{
		{"admin", true},
		{"controller", true},
		{"staff", true},
		{"owner", false},
		{"", false},
		{"Admin", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.role, func(t *testing.T) {
			if got := IsValidRole(tc.role); got != tc.exp {
				t.Fatalf("role %q: expected %v, got %v", tc.role, tc.exp, got)
			}
		})
	}
}

func TestIsValidGender(t *testing.T) {
	for _, valid := range []string{"", "MALE", "FEMALE", "OTHER"} {
		if !IsValidGender(valid) {
			t.Fatalf("expected %q valid", valid)
		}
	}
	for _, invalid := range []string{"male", "M", "unknown"} {
		if IsValidGender(invalid) {
			t.Fatalf("expected %q invalid", invalid)
		}
	}
}

func TestIsValidOrderType(t *testing.T) {
	for _, valid := range []string{"UID", "CU_ROLL_NUMBER", "CU_REGISTRATION_NUMBER"} {
		if !IsValidOrderType(valid) {
			t.Fatalf("expected %q valid", valid)
		}
	}
	for _, invalid := range []string{"", "uid", "ROLL"} {
		if IsValidOrderType(invalid) {
			t.Fatalf("expected %q invalid", invalid)
		}
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"xlsx", "xls"}

	tests := []struct {
		name     string
		filename string
		exp      bool
	}{
		{"xlsx allowed", "foils.xlsx", true},
		{"case insensitive", "FOILS.XLSX", true},
		{"xls allowed", "legacy.xls", true},
		{"csv rejected", "foils.csv", false},
		{"no extension", "foils", false},
		{"empty name", "", false},
		{"dotted name picks last extension", "report.backup.xlsx", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidFileExtension(tc.filename, allowed); got != tc.exp {
				t.Fatalf("%q: expected %v, got %v", tc.filename, tc.exp, got)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}
