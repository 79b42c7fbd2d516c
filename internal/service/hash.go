package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/hireloop/interview-core-go/internal/model"
)

// contentHash content-addresses a suggestion for dedup. Warning suggestions
// hash on type and title alone so repeated low-quality flags with slightly
// different bodies still collapse; every other type also hashes its body,
// question list, and skill list.
func contentHash(suggestionType model.SuggestionType, content model.SuggestionContent) string {
	h := sha256.New()
	h.Write([]byte(string(suggestionType)))
	h.Write([]byte{0})
	h.Write([]byte(normalizeForHash(content.Title)))

	if suggestionType != model.SuggestionWarning {
		h.Write([]byte{0})
		h.Write([]byte(normalizeForHash(content.Body)))
		for _, q := range content.Questions {
			h.Write([]byte{1})
			h.Write([]byte(normalizeForHash(q)))
		}
		for _, s := range content.Skills {
			h.Write([]byte{2})
			h.Write([]byte(normalizeForHash(s)))
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

func normalizeForHash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
