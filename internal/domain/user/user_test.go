package user

import (
	"errors"
	"regexp"
	"testing"
)

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"janedoe", true},
		{"jane.doe_1", true},
		{"janedoe@example.com", true},
		{"0788123456", true},
		{"+250788123456", true},
		{"+14155552671", true},
		{"  janedoe  ", true},
		{"ab", false},
		{"12345", false},
		{"jane doe", false},
		{"+0123456789", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Secret1", true},
		{"Str0ngP@ss!", true},
		{"secret1", false},
		{"SECRET1", false},
		{"Secret", false},
		{"Se1", false},
	}

	for _, tt := range tests {
		if got := IsStrongPassword(tt.in); got != tt.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsLanguage(t *testing.T) {
	for _, in := range []string{"EN", "fr", "Sw", "rw"} {
		if !IsLanguage(in) {
			t.Errorf("expected %q to be a supported language", in)
		}
	}
	if IsLanguage("de") {
		t.Errorf("de should not be supported")
	}
}

func TestGenerateUsername(t *testing.T) {
	pattern := regexp.MustCompile(`^(alice|alicemukamana|alicem|amukamana)\d{3}$`)

	for i := 0; i < 50; i++ {
		got, err := GenerateUsername("Alice Mukamana")
		if err != nil {
			t.Fatalf("GenerateUsername error: %v", err)
		}
		if !pattern.MatchString(got) {
			t.Fatalf("unexpected username %q", got)
		}
	}
}

func TestGenerateUsername_SingleNameAndSymbols(t *testing.T) {
	got, err := GenerateUsername("  Bob!!  ")
	if err != nil {
		t.Fatalf("GenerateUsername error: %v", err)
	}
	if !regexp.MustCompile(`^bob\d{3}$`).MatchString(got) {
		t.Fatalf("unexpected username %q", got)
	}

	got, err = GenerateUsername("1234")
	if err != nil {
		t.Fatalf("GenerateUsername error: %v", err)
	}
	if !regexp.MustCompile(`^user\d{3}$`).MatchString(got) {
		t.Fatalf("expected user fallback, got %q", got)
	}
}

func TestGenerateUsername_Empty(t *testing.T) {
	if _, err := GenerateUsername("   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestLookup_Conflicts(t *testing.T) {
	existing := User{Email: "a@x.com", Phone: "0788000000", Username: "alice"}

	got := Lookup{Email: "A@X.com", Phone: "0788111111", Username: "ALICE"}.Conflicts(existing)
	if len(got) != 2 || got[0] != "email" || got[1] != "username" {
		t.Fatalf("unexpected conflicts %v", got)
	}

	if got := (Lookup{Phone: "0788000000"}).Conflicts(existing); len(got) != 1 || got[0] != "phone" {
		t.Fatalf("unexpected conflicts %v", got)
	}
}

func TestPublicOmitsHash(t *testing.T) {
	u := User{ID: "u1", Email: "a@x.com", PasswordHash: "secret", Role: RoleClient}
	p := u.Public()

	if p.ID != "u1" || p.Email != "a@x.com" || p.Role != RoleClient {
		t.Fatalf("unexpected projection %+v", p)
	}
}

func TestSignUpRequest_Normalize(t *testing.T) {
	blank := "   "
	lang := "fr"
	req := SignUpRequest{Email: " a@x.com ", Name: " Alice ", Username: &blank, Language: &lang}
	req.Normalize()

	if req.Email != "a@x.com" || req.Name != "Alice" {
		t.Fatalf("expected trimmed fields, got %+v", req)
	}
	if req.Username != nil {
		t.Fatalf("blank username should be dropped")
	}
	if *req.Language != "FR" {
		t.Fatalf("expected upper-cased language, got %q", *req.Language)
	}
}

func TestLoginRequest_NormalizeKeepsPassword(t *testing.T) {
	req := LoginRequest{Identifier: " amani ", Password: " Secret1 "}
	req.Normalize()

	if req.Identifier != "amani" {
		t.Fatalf("expected trimmed identifier, got %q", req.Identifier)
	}
	if req.Password != " Secret1 " {
		t.Fatalf("password must be kept as typed, got %q", req.Password)
	}
}
