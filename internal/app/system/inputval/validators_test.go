package inputval

import "testing"

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"student", true},
		{"teacher", true},
		{"school_admin", true},
		{"super_admin", true},
		{"donor", true},

		// Case insensitive, whitespace trimmed
		{"STUDENT", true},
		{"  teacher  ", true},

		{"", false},
		{"   ", false},
		{"admin", false},
		{"principal", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := IsValidRole(tt.role); got != tt.want {
				t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestIsValidWalletAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"0x52908400098527886E0F7030069857D2E4169EE7", true},
		{"0x52908400098527886e0f7030069857d2e4169ee7", true},
		{"  0x52908400098527886e0f7030069857d2e4169ee7  ", true},

		{"", false},
		{"52908400098527886e0f7030069857d2e4169ee7", false},    // no prefix
		{"0x52908400098527886e0f7030069857d2e4169ee", false},   // too short
		{"0x52908400098527886e0f7030069857d2e4169ee77", false}, // too long
		{"0x52908400098527886e0f7030069857d2e4169eg7", false},  // bad hex
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := IsValidWalletAddress(tt.addr); got != tt.want {
				t.Errorf("IsValidWalletAddress(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com", true},
		{"http://example.com/path", true},
		{"https://example.com/path?query=1", true},
		{"http://localhost:8080", true},
		{"  https://example.com  ", true},

		{"", false},
		{"   ", false},
		{"ftp://example.com", false},
		{"mailto:user@example.com", false},
		{"example.com", false},
		{"//example.com", false},
		{"not a url", false},
		{"file:///path/to/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidHTTPURL(tt.url); got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"000000000000000000000000", true},
		{"  507f1f77bcf86cd799439011  ", true},

		{"", false},
		{"507f1f77bcf86cd79943901", false},   // too short
		{"507f1f77bcf86cd7994390111", false}, // too long
		{"507f1f77bcf86cd79943901g", false},  // invalid hex char
		{"not-a-valid-id", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsValidObjectID(tt.id); got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,email" label:"Email address"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "John", Email: "john@example.com"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "John", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{Name: "", Email: ""},
			wantErrors: true,
			wantFirst:  "Full name is required.", // First error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
	})
}

func TestResult_Details(t *testing.T) {
	r := &Result{
		Errors: []FieldError{
			{Field: "title", Message: "title is required."},
			{Field: "title", Message: "title must be at most 200 characters."},
			{Field: "amount", Message: "amount must be greater than 0."},
		},
	}
	d := r.Details()
	if len(d) != 2 {
		t.Fatalf("Details() has %d fields, want 2", len(d))
	}
	if d["title"] != "title is required." {
		t.Errorf("Details()[title] = %q, want first message kept", d["title"])
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type RoleInput struct {
		Role string `validate:"required,role" label:"Role"`
	}
	type WalletInput struct {
		Address string `validate:"required,walletaddr" label:"Wallet address"`
	}
	type ImpactInput struct {
		Kind string `validate:"required,impacttype" label:"Impact type"`
	}
	type IDInput struct {
		ID string `validate:"required,objectid" label:"Resource ID"`
	}

	t.Run("valid role", func(t *testing.T) {
		if result := Validate(RoleInput{Role: "teacher"}); result.HasErrors() {
			t.Errorf("Validate(valid role) has errors: %v", result.Errors)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		if result := Validate(RoleInput{Role: "wizard"}); !result.HasErrors() {
			t.Error("Validate(invalid role) should have errors")
		}
	})

	t.Run("valid wallet address", func(t *testing.T) {
		in := WalletInput{Address: "0x52908400098527886e0f7030069857d2e4169ee7"}
		if result := Validate(in); result.HasErrors() {
			t.Errorf("Validate(valid wallet) has errors: %v", result.Errors)
		}
	})

	t.Run("invalid wallet address", func(t *testing.T) {
		if result := Validate(WalletInput{Address: "not-an-address"}); !result.HasErrors() {
			t.Error("Validate(invalid wallet) should have errors")
		}
	})

	t.Run("valid impact type", func(t *testing.T) {
		if result := Validate(ImpactInput{Kind: "trees_planted"}); result.HasErrors() {
			t.Errorf("Validate(valid impact) has errors: %v", result.Errors)
		}
	})

	t.Run("invalid impact type", func(t *testing.T) {
		if result := Validate(ImpactInput{Kind: "smiles_generated"}); !result.HasErrors() {
			t.Error("Validate(invalid impact) should have errors")
		}
	})

	t.Run("valid ObjectID", func(t *testing.T) {
		if result := Validate(IDInput{ID: "507f1f77bcf86cd799439011"}); result.HasErrors() {
			t.Errorf("Validate(valid ID) has errors: %v", result.Errors)
		}
	})

	t.Run("invalid ObjectID", func(t *testing.T) {
		if result := Validate(IDInput{ID: "invalid-id"}); !result.HasErrors() {
			t.Error("Validate(invalid ID) should have errors")
		}
	})
}
