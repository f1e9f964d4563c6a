package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// MinAudioFileSize is the smallest size a pronunciation file can
// plausibly have. Anything below it is an error page or a truncated
// stream, not audio.
const MinAudioFileSize = 1024

// ValidateDanishText validates that the input text is usable as
// text-to-speech input.
func ValidateDanishText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			return nil
		}
	}

	return fmt.Errorf("text must contain letters")
}

// ValidAudioFile reports whether path holds a plausible MP3 file: it
// exists, is at least MinAudioFileSize bytes, and starts with an ID3 tag
// or an MPEG frame header.
func ValidAudioFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() < MinAudioFileSize {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, 10)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}

	return bytes.HasPrefix(header, []byte("ID3")) ||
		bytes.Contains(header, []byte{0xFF, 0xFB})
}

// WriteValidatedAudio writes downloaded audio bytes to outputFile and
// verifies the result looks like a real MP3. Bogus downloads are removed
// so they cannot poison an Anki media folder.
func WriteValidatedAudio(outputFile string, data []byte) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	if !ValidAudioFile(outputFile) {
		os.Remove(outputFile)
		return fmt.Errorf("downloaded audio is not a valid mp3 file")
	}
	return nil
}
