package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateCardID creates a unique ID for a card based on timestamp and Danish word
// Format: epochMillis_md5(word)[:8]
func GenerateCardID(danishWord string) string {
	// Get current timestamp in milliseconds
	now := time.Now()
	epochMillis := now.UnixNano() / 1000000

	// Calculate MD5 hash of the word
	hash := md5.Sum([]byte(danishWord))
	hashStr := hex.EncodeToString(hash[:])[:8] // Use first 8 chars of MD5

	// Combine timestamp and hash
	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := ""
	for _, r := range s {
		if isWordRune(r) || r == '-' || r == '_' {
			result += string(r)
		} else {
			result += "_"
		}
	}
	return result
}

// isWordRune checks if a rune is alphanumeric, including the Danish letters
func isWordRune(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
		return true
	}
	switch r {
	case 'æ', 'ø', 'å', 'Æ', 'Ø', 'Å':
		return true
	}
	return false
}
