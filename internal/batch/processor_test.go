package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/tlinquata/ordkort/internal/testutil"
)

func TestReadWordsFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []WordEntry
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "comments skipped",
			fileContent: `# fruit vocabulary
æble
# a comment between words
pære`,
			want: []WordEntry{
				{Danish: "æble"},
				{Danish: "pære"},
			},
		},
		{
			name: "words with translations",
			fileContent: `æble = apple
kat = cat
hund = dog`,
			want: []WordEntry{
				{Danish: "æble", Translation: "apple"},
				{Danish: "kat", Translation: "cat"},
				{Danish: "hund", Translation: "dog"},
			},
		},
		{
			name: "mixed format",
			fileContent: `æble
kat = cat
hund
brød = bread`,
			want: []WordEntry{
				{Danish: "æble"},
				{Danish: "kat", Translation: "cat"},
				{Danish: "hund"},
				{Danish: "brød", Translation: "bread"},
			},
		},
		{
			name: "empty lines and whitespace",
			fileContent: `
æble

kat = cat

  hund

`,
			want: []WordEntry{
				{Danish: "æble"},
				{Danish: "kat", Translation: "cat"},
				{Danish: "hund"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "æble\r\nkat = cat\r\nhund",
			want: []WordEntry{
				{Danish: "æble"},
				{Danish: "kat", Translation: "cat"},
				{Danish: "hund"},
			},
		},
		{
			name:        "multiple equals signs",
			fileContent: `test = word = with = equals`,
			want: []WordEntry{
				{Danish: "test", Translation: "word = with = equals"},
			},
		},
		{
			name: "english only format",
			fileContent: `= apple
= cat
= dog`,
			want: []WordEntry{
				{Translation: "apple", NeedsTranslation: true},
				{Translation: "cat", NeedsTranslation: true},
				{Translation: "dog", NeedsTranslation: true},
			},
		},
		{
			name: "all three formats mixed",
			fileContent: `æble
kat = cat
= dog
brød = bread
= table
stol`,
			want: []WordEntry{
				{Danish: "æble"},
				{Danish: "kat", Translation: "cat"},
				{Translation: "dog", NeedsTranslation: true},
				{Danish: "brød", Translation: "bread"},
				{Translation: "table", NeedsTranslation: true},
				{Danish: "stol"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "test.txt")
			err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644)
			if err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadWordsFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadWordsFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadWordsFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadWordsFile_WordListHelper(t *testing.T) {
	path := testutil.CreateWordListFile(t, t.TempDir(), []string{"æble", "kat = cat", "= dog"})

	got, err := ReadWordsFile(path)
	if err != nil {
		t.Fatalf("ReadWordsFile() failed: %v", err)
	}

	want := []WordEntry{
		{Danish: "æble"},
		{Danish: "kat", Translation: "cat"},
		{Translation: "dog", NeedsTranslation: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadWordsFile() = %v, want %v", got, want)
	}
}

func TestReadWordsFile_FileNotFound(t *testing.T) {
	_, err := ReadWordsFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestValidateDanishWord(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		wantErr bool
	}{
		{"simple word", "hund", false},
		{"danish letters", "æble", false},
		{"all special letters", "øjeblikkeligåbenÆØÅ", false},
		{"hyphenated", "tv-avis", false},
		{"apostrophe", "a'et", false},
		{"accented e", "idé", false},
		{"multi word", "slå op", false},
		{"empty", "", true},
		{"only spaces", "   ", true},
		{"digits", "hund3", true},
		{"punctuation", "hund!", true},
		{"cyrillic", "куче", true},
		{"too long", strings.Repeat("a", 51), true},
		{"exactly max length", strings.Repeat("a", 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDanishWord(tt.word)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDanishWord(%q) error = %v, wantErr %v", tt.word, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeCEFRLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"b1", "B1", false},
		{" A2 ", "A2", false},
		{"C2", "C2", false},
		{"Z9", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeCEFRLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeCEFRLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("NormalizeCEFRLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteFailedWords(t *testing.T) {
	tmpDir := t.TempDir()
	outFile := filepath.Join(tmpDir, "failed.txt")

	err := WriteFailedWords(outFile, []string{"hund", "rejser"})
	if err != nil {
		t.Fatalf("WriteFailedWords() failed: %v", err)
	}

	content, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	expected := "hund\nrejser\n"
	if string(content) != expected {
		t.Errorf("Expected content %q, got %q", expected, string(content))
	}
}

func TestWriteFailedWords_Helpers(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "failed.txt")

	if err := WriteFailedWords(outFile, []string{"stol"}); err != nil {
		t.Fatalf("WriteFailedWords() failed: %v", err)
	}

	testutil.AssertFileExists(t, outFile)
	testutil.AssertFileContains(t, outFile, "stol")
}

func TestWriteFailedWords_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	outFile := filepath.Join(tmpDir, "failed.txt")

	if err := WriteFailedWords(outFile, nil); err != nil {
		t.Fatalf("WriteFailedWords() failed: %v", err)
	}

	// No file should be created for an empty word list.
	if _, err := os.Stat(outFile); !os.IsNotExist(err) {
		t.Error("Expected no file for empty word list")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "unix line endings",
			input: "line1\nline2\nline3",
			want:  []string{"line1", "line2", "line3"},
		},
		{
			name:  "windows line endings",
			input: "line1\r\nline2\r\nline3",
			want:  []string{"line1", "line2", "line3"},
		},
		{
			name:  "mixed line endings",
			input: "line1\nline2\r\nline3",
			want:  []string{"line1", "line2", "line3"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single line no ending",
			input: "single line",
			want:  []string{"single line"},
		},
		{
			name:  "trailing newline",
			input: "line1\nline2\n",
			want:  []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines() = %v, want %v", got, tt.want)
			}
		})
	}
}
