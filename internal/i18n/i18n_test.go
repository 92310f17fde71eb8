package i18n

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
		ok   bool
	}{
		{"EN", language.English, true},
		{"fr", language.French, true},
		{"fr-CA", language.French, true},
		{"SW", language.Swahili, true},
		{"rw", Kinyarwanda, true},
		{"de", language.Und, false},
		{"", language.Und, false},
		{"!!", language.Und, false},
	}

	for _, tt := range tests {
		got, ok := ParseTag(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseTag(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveTag_Precedence(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/welcome?lang=sw", nil)
	r.Header.Set(LangHeader, "fr")
	r.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	if got := ResolveTag(r, language.English); got != language.Swahili {
		t.Fatalf("query param should win, got %v", got)
	}

	r = httptest.NewRequest("GET", "/api/v1/welcome", nil)
	r.Header.Set(LangHeader, "FR")
	r.Header.Set("Accept-Language", "sw")
	if got := ResolveTag(r, language.English); got != language.French {
		t.Fatalf("x-lang should beat Accept-Language, got %v", got)
	}

	r = httptest.NewRequest("GET", "/api/v1/welcome", nil)
	r.Header.Set("Accept-Language", "de-DE,fr;q=0.8")
	if got := ResolveTag(r, language.English); got != language.French {
		t.Fatalf("Accept-Language match, got %v", got)
	}

	r = httptest.NewRequest("GET", "/api/v1/welcome", nil)
	r.Header.Set("Accept-Language", "de-DE")
	if got := ResolveTag(r, language.French); got != language.French {
		t.Fatalf("unsupported language should use fallback, got %v", got)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(language.English, language.English, MsgWelcome); got != "Welcome to the eMali Estates API!" {
		t.Fatalf("en welcome = %q", got)
	}
	if got := Message(language.French, language.English, MsgInvalidCreds); got != "Identifiants invalides" {
		t.Fatalf("fr invalid creds = %q", got)
	}
	// no Swahili entry for the conflict message
	if got := Message(language.Swahili, language.English, MsgConflict); got != "Email, phone or username already in use" {
		t.Fatalf("sw conflict fallback = %q", got)
	}
	if got := Message(Kinyarwanda, language.French, MsgLoggedOut); got != "Déconnexion réussie" {
		t.Fatalf("rw logout fallback = %q", got)
	}
}

func TestFallback(t *testing.T) {
	if got := Fallback("fr"); got != language.French {
		t.Fatalf("Fallback(fr) = %v", got)
	}
	if got := Fallback("xx"); got != language.English {
		t.Fatalf("Fallback(xx) = %v", got)
	}
}

func TestMessage_FallbackWithArgs(t *testing.T) {
	if got := Message(Kinyarwanda, language.English, MsgOTPMailCode, "123456"); got != "Your OTP is: 123456" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := Message(language.French, language.English, MsgOTPMailCode, "123456"); got != "Votre code OTP est : 123456" {
		t.Fatalf("expected french copy, got %q", got)
	}
	if got := Message(language.Swahili, language.English, MsgOTPMailHeading); got != "One-Time Password (OTP)" {
		t.Fatalf("missing swahili key should fall back, got %q", got)
	}
}
