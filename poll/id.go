package poll

import (
	"math/rand/v2"
	"strings"
)

const (
	// IDLength is the number of characters in a generated poll id.
	IDLength = 8

	// idAlphabet holds the 36 symbols ids are drawn from.
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateID returns IDLength characters drawn uniformly from A-Z and 0-9.
//
// Uniqueness is not guaranteed; [PollStore] re-rolls on collision.
func GenerateID() string {
	b := make([]byte, IDLength)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}

// NormalizeID trims surrounding whitespace and uppercases a user-entered id.
//
// The store matches ids exactly, so presentation code should pass user input
// through NormalizeID before calling [PollStore.GetPoll]. [Session.Join]
// does this itself.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// validID reports whether id is non-empty and drawn from the id alphabet.
func validID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(idAlphabet, r) {
			return false
		}
	}
	return true
}
