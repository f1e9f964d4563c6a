package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"codeberg.org/tlinquata/ordkort/internal/sentence"
)

// Card represents one row of the Anki import: the seven columns of the
// Danish vocabulary note type.
type Card struct {
	Front        string // example sentence with the word blanked or removed
	Image        string // <img src="..."> reference, empty when no image was found
	Definition   string // Danish definition / front hint
	Back         string // the word itself, empty on the definition-front card
	FullSentence string // the intact example sentence
	GrammarInfo  string // IPA/type/inflection line plus [sound:word.mp3]
	TwoCards     string // "y" on the first card of a word, empty otherwise

	// Local media paths, used when packaging an .apkg. The rendered
	// Image and GrammarInfo columns reference these files by name.
	AudioPath string
	ImagePath string
	Word      string // resolved word, used for media naming and sorting
}

// Fields returns the seven CSV columns in order.
func (c Card) Fields() []string {
	return []string{
		c.Front,
		c.Image,
		c.Definition,
		c.Back,
		c.FullSentence,
		c.GrammarInfo,
		c.TwoCards,
	}
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath string // Output CSV file path
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath: "anki_import.csv",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// AddRecord builds the card types for one completed word record and adds
// them to the collection. Records that ended in error or carry fewer than
// two sentences cannot fill the templates and are reported as an error so
// the caller can log the skip.
func (g *Generator) AddRecord(rec *sentence.WordRecord, audioPath, imagePath string) (int, error) {
	cards, err := CardsFromRecord(rec, audioPath, imagePath)
	if err != nil {
		return 0, err
	}
	g.cards = append(g.cards, cards...)
	return len(cards), nil
}

// CardsFromRecord builds the three card types for a word:
//  1. first sentence with the word blanked, definition on the front;
//  2. first sentence with the word removed outright, word+definition front;
//  3. second sentence with the word blanked.
func CardsFromRecord(rec *sentence.WordRecord, audioPath, imagePath string) ([]Card, error) {
	if rec.Status.Kind == sentence.StatusError {
		return nil, fmt.Errorf("record for %q has error: %s", rec.RequestedWord, rec.Status.Message)
	}

	sentences := rec.DanishSentences()
	if len(sentences) < 2 {
		return nil, fmt.Errorf("record for %q has %d sentences, need at least 2", rec.RequestedWord, len(sentences))
	}

	word := rec.ResolvedWord
	grammarDetails := formatGrammarDetails(rec.Grammar)
	definition := stripEnglishFromDefinition(rec.Grammar.DanishDefinition)
	grammarColumn := fmt.Sprintf("%s [sound:%s.mp3]", grammarDetails, strings.ToLower(word))
	imageColumn := ""
	if imagePath != "" {
		imageColumn = fmt.Sprintf(`<img src="%s">`, filepath.Base(imagePath))
	}

	cards := []Card{
		{
			Front:        removeWordFromSentence(sentences[0], word, true),
			Image:        imageColumn,
			Definition:   definition,
			Back:         word,
			FullSentence: sentences[0],
			GrammarInfo:  grammarColumn,
			TwoCards:     "y",
			AudioPath:    audioPath,
			ImagePath:    imagePath,
			Word:         word,
		},
		{
			Front:        removeWordFromSentence(sentences[0], word, false),
			Image:        imageColumn,
			Definition:   fmt.Sprintf("%s - %s", word, definition),
			FullSentence: sentences[0],
			GrammarInfo:  grammarColumn,
			AudioPath:    audioPath,
			ImagePath:    imagePath,
			Word:         word,
		},
		{
			Front:        removeWordFromSentence(sentences[1], word, true),
			Image:        imageColumn,
			Definition:   definition,
			Back:         word,
			FullSentence: sentences[1],
			GrammarInfo:  grammarColumn,
			AudioPath:    audioPath,
			ImagePath:    imagePath,
			Word:         word,
		},
	}

	return cards, nil
}

// GenerateCSV creates a CSV file for Anki import. No header row: Anki
// treats every row as a note.
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, card := range g.cards {
		if err := writer.Write(card.Fields()); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	return nil
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio, withImages int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.AudioPath != "" {
			withAudio++
		}
		if card.ImagePath != "" {
			withImages++
		}
	}

	return
}

var (
	parentheticalRe       = regexp.MustCompile(`\s*\([^)]*\)`)
	trailingDashEnglishRe = regexp.MustCompile(`\s*[-–—]\s*[A-Za-z\s,]+$`)
	trailingDashDefRe     = regexp.MustCompile(`\s*[-–—]\s*[A-Za-z ,;'"()]+$`)
	trailingParenDefRe    = regexp.MustCompile(`\s*\([A-Za-z ,;'"-]+\)\s*$`)
	spaceRunsRe           = regexp.MustCompile(`\s+`)
	spaceBeforePunctRe    = regexp.MustCompile(`\s+([,.!?])`)
)

// formatGrammarDetails renders the extra-info column from dictionary
// fields: `/IPA/ – type, køn: …` for nouns, `bøjning: …` for verbs and
// adjectives. English parentheticals are stripped so only Danish forms
// remain on the card.
func formatGrammarDetails(g sentence.GrammarInfo) string {
	var ipa string
	if p := strings.TrimSpace(g.Pronunciation); p != "" {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p + "/"
		}
		ipa = p
	}

	var grammarParts []string
	wordType := strings.ToLower(strings.TrimSpace(g.WordType))
	wordType = strings.TrimSpace(parentheticalRe.ReplaceAllString(wordType, ""))
	if wordType != "" {
		grammarParts = append(grammarParts, wordType)
	}

	switch wordType {
	case "substantiv", "noun":
		if gender := cleanGrammarValue(g.Gender); gender != "" {
			grammarParts = append(grammarParts, "køn: "+gender)
		}
	default:
		if inflections := cleanGrammarValue(g.Inflections); inflections != "" {
			grammarParts = append(grammarParts, "bøjning: "+inflections)
		}
	}

	switch {
	case ipa != "" && len(grammarParts) > 0:
		return ipa + " – " + strings.Join(grammarParts, ", ")
	case ipa != "":
		return ipa
	case len(grammarParts) > 0:
		return strings.Join(grammarParts, ", ")
	default:
		return "Grammatik info nødvendig"
	}
}

// cleanGrammarValue strips parentheticals and trailing dash-English from a
// dictionary field, dropping literal "null" placeholders.
func cleanGrammarValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return ""
	}
	s = parentheticalRe.ReplaceAllString(s, "")
	s = trailingDashEnglishRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// stripEnglishFromDefinition removes an English translation trailing the
// Danish definition after a dash or inside a final parenthesis.
func stripEnglishFromDefinition(definition string) string {
	if definition == "" {
		return ""
	}
	definition = trailingDashDefRe.ReplaceAllString(definition, "")
	definition = trailingParenDefRe.ReplaceAllString(definition, "")
	return strings.TrimSpace(definition)
}

// removeWordFromSentence blanks (or removes) the word in a sentence,
// trying the exact form first and then common Danish inflected surface
// forms, including double-consonant stems such as kat → katten. The first
// matching pattern wins.
func removeWordFromSentence(text, word string, useBlank bool) string {
	for _, pattern := range blankPatterns(word) {
		re, err := regexp.Compile(`(?i)(^|[^\p{L}])` + regexp.QuoteMeta(pattern) + `([^\p{L}]|$)`)
		if err != nil {
			continue
		}
		if !re.MatchString(text) {
			continue
		}
		replacement := "${1}___${2}"
		if !useBlank {
			replacement = "${1}${2}"
		}
		text = re.ReplaceAllString(text, replacement)
		break
	}

	if !useBlank {
		text = strings.TrimSpace(spaceRunsRe.ReplaceAllString(text, " "))
		text = spaceBeforePunctRe.ReplaceAllString(text, "$1")
	}

	return text
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// blankPatterns enumerates the surface forms tried when blanking a word
// out of its sentence.
func blankPatterns(word string) []string {
	base := strings.ToLower(word)
	patterns := []string{word, capitalize(base), strings.ToUpper(base)}

	if strings.HasSuffix(base, "e") {
		stem := strings.TrimSuffix(base, "e")
		patterns = append(patterns, stem+"en", stem+"er", stem+"erne")
	} else {
		patterns = append(patterns, base+"en", base+"et", base+"e", base+"er", base+"erne")
	}

	runes := []rune(base)
	if len(runes) >= 2 {
		last := runes[len(runes)-1]
		if last == runes[len(runes)-2] {
			// Already doubled: katt → katten
			stem := string(runes[:len(runes)-1])
			patterns = append(patterns, stem+"en", stem+"er", stem+"erne")
		} else if !strings.ContainsRune("aeiouæøå", last) {
			// Double the final consonant: kat → katten
			stem := base + string(last)
			patterns = append(patterns, stem+"en", stem+"er", stem+"erne")
		}
	}

	return patterns
}
