package validation

import "testing"

func TestPwdAliasEnforcedAtBinding(t *testing.T) {
	Init()
	type form struct {
		Password string `json:"password" validate:"required,pwd"`
	}

	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"policy met", "Passw0rd", true},
		{"too short", "Ab1", false},
		{"no digit", "Password", false},
		{"no upper", "passw0rd", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := std.Struct(form{Password: tt.in})
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("weak password passed binding validation")
				}
				if details := ToDetails(err); details["password"] == "" {
					t.Errorf("no detail for password field: %v", details)
				}
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"jack@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld@twice.com", false},
		{"@example.com", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.in); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"ok", "Passw0rd", true},
		{"minimum length", "Ab1cde", true},
		{"too short", "Ab1", false},
		{"no digit", "Password", false},
		{"no upper", "passw0rd", false},
		{"no lower", "PASSW0RD", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPassword(tt.in); got != tt.want {
				t.Errorf("ValidPassword(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
