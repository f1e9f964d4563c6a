package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveCards moves a finished cards directory aside so a fresh run can
// reuse the path. The directory is renamed into a sibling archive folder
// under a timestamped name, which is returned.
func ArchiveCards(cardsDir string) (string, error) {
	if _, err := os.Stat(cardsDir); os.IsNotExist(err) {
		return "", fmt.Errorf("cards directory does not exist: %s", cardsDir)
	}

	archiveDir := filepath.Join(filepath.Dir(cardsDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, "cards-"+timestamp)

	// Two runs within the same second need a finer-grained name.
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, "cards-"+timestamp)
	}

	if err := os.Rename(cardsDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive cards directory: %w", err)
	}

	return archivePath, nil
}
