package user

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var (
	localRWPhone = regexp.MustCompile(`^07\d{8}$`)
	intlRWPhone  = regexp.MustCompile(`^\+2507\d{8}$`)
	e164Phone    = regexp.MustCompile(`^\+[1-9]\d{9,14}$`)

	// 3-32 chars of letters, digits, _ . - ; RE2 has no lookahead so the
	// "at least one letter" rule is checked separately.
	usernameChars = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)
)

func IsPhone(v string) bool {
	return localRWPhone.MatchString(v) || intlRWPhone.MatchString(v) || e164Phone.MatchString(v)
}

func IsUsername(v string) bool {
	if !usernameChars.MatchString(v) {
		return false
	}

	return strings.IndexFunc(v, unicode.IsLetter) >= 0
}

func IsEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return false
	}

	return addr.Address == v && strings.Contains(v, "@")
}

// IsIdentifier accepts a username, an e-mail address or a phone number.
func IsIdentifier(v string) bool {
	v = strings.TrimSpace(v)

	return IsEmail(v) || IsPhone(v) || IsUsername(v)
}

// IsStrongPassword requires at least 6 characters with one lower-case letter,
// one upper-case letter and one digit.
func IsStrongPassword(v string) bool {
	if len([]rune(v)) < 6 {
		return false
	}

	var lower, upper, digit bool
	for _, r := range v {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	return lower && upper && digit
}

func IsLanguage(v string) bool {
	switch Language(strings.ToUpper(v)) {
	case LanguageEN, LanguageFR, LanguageSW, LanguageRW:
		return true
	}
	return false
}
