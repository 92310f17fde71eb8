package user

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var ErrEmptyName = errors.New("full name must be a non-empty string")

var nonLetters = regexp.MustCompile(`[^a-z\s]`)

// GenerateUsername derives a username from a full name: one of first, first+last,
// first+last initial or first initial+last, followed by a random 3-digit number.
func GenerateUsername(fullName string) (string, error) {
	if strings.TrimSpace(fullName) == "" {
		return "", ErrEmptyName
	}

	clean := nonLetters.ReplaceAllString(strings.ToLower(fullName), "")
	parts := strings.Fields(clean)

	var first, last string
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}

	var options []string
	if first != "" {
		options = append(options, first)
	}
	if first != "" && last != "" {
		options = append(options,
			first+last,
			first+last[:1],
			first[:1]+last,
		)
	}
	if len(options) == 0 {
		options = append(options, "user")
	}

	base := options[randInt(len(options))]
	suffix := 100 + randInt(900)

	return base + strconv.Itoa(suffix), nil
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
