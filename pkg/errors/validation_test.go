package errors

import "testing"

func TestValidateCrateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "serde", false},
		{"with hyphen", "openssl-sys", false},
		{"with underscore", "phf_shared", false},
		{"empty", "", true},
		{"path traversal", "../etc", true},
		{"leading digit", "0day", true},
		{"slash", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCrateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCrateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTargetTriple(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"linux", "x86_64-unknown-linux-gnu", false},
		{"ios", "aarch64-apple-ios", false},
		{"androideabi", "armv7-linux-androideabi", false},
		{"empty", "", true},
		{"single word", "linux", true},
		{"uppercase", "X86-LINUX", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargetTriple(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTargetTriple(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://raw.githubusercontent.com/x/y/LICENSE"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateURL("ftp://example.com/file"); err == nil {
		t.Error("expected error for non-http scheme")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("expected error for empty URL")
	}
}
