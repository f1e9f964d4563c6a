package batch

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"codeberg.org/tlinquata/ordkort/internal/sentence"
)

// WordEntry represents a word with optional translation
type WordEntry struct {
	Danish      string
	Translation string
	// NeedsTranslation indicates if translation from English to Danish is needed
	NeedsTranslation bool
}

// maxWordLength bounds accepted word length in runes.
const maxWordLength = 50

// ReadWordsFile reads words from a file and returns a WordEntry slice.
// Blank lines and lines starting with '#' are skipped.
// Supported formats:
// - Danish word only: "æble" (will be translated to English)
// - With translation: "æble = apple" (both provided, no translation needed)
// - English only: "= apple" (will be translated to Danish)
func ReadWordsFile(filename string) ([]WordEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []WordEntry
	for _, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			danish := strings.TrimSpace(parts[0])
			english := strings.TrimSpace(parts[1])

			switch {
			case danish == "" && english != "":
				// Format: "= ENGLISH" - need to translate English to Danish
				entries = append(entries, WordEntry{
					Translation:      english,
					NeedsTranslation: true,
				})
			case danish != "" && english != "":
				// Format: "DANISH = ENGLISH" - both provided
				entries = append(entries, WordEntry{
					Danish:      danish,
					Translation: english,
				})
			}
			// Lines with an empty English part are ignored
		} else {
			entries = append(entries, WordEntry{Danish: line})
		}
	}

	return entries, nil
}

// ValidateDanishWord checks that a word looks like a Danish dictionary
// entry: letters (including æøåÆØÅ), hyphens and apostrophes, at most 50
// runes.
func ValidateDanishWord(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return fmt.Errorf("word is empty")
	}
	if utf8.RuneCountInString(word) > maxWordLength {
		return fmt.Errorf("word %q exceeds %d characters", word, maxWordLength)
	}

	for _, r := range word {
		if isDanishLetter(r) || r == '-' || r == '\'' || r == ' ' {
			continue
		}
		return fmt.Errorf("word %q contains invalid character %q", word, r)
	}

	return nil
}

func isDanishLetter(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	switch r {
	case 'æ', 'ø', 'å', 'Æ', 'Ø', 'Å', 'é', 'É':
		return true
	}
	return false
}

// NormalizeCEFRLevel validates a proficiency level from a batch file or
// flag and returns its canonical uppercase form.
func NormalizeCEFRLevel(s string) (sentence.CEFRLevel, error) {
	return sentence.ParseCEFRLevel(s)
}

// WriteFailedWords writes the words that failed processing to a file, one
// per line, so a later run can retry just those.
func WriteFailedWords(filename string, words []string) error {
	if len(words) == 0 {
		return nil
	}

	content := strings.Join(words, "\n") + "\n"
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write failed words file: %w", err)
	}
	return nil
}

// splitLines splits a string by newlines, tolerating CRLF endings.
func splitLines(s string) []string {
	var lines []string
	current := ""
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
