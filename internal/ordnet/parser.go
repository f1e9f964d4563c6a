package ordnet

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"codeberg.org/tlinquata/ordkort/internal/sentence"
)

// WordData holds the dictionary fields scraped from one ordnet.dk entry
// page. Found is false when the page carries no usable entry; all other
// fields are then empty.
type WordData struct {
	Word               string
	Pronunciation      string
	WordType           string
	Gender             string
	Plural             string
	Inflections        string
	Definition         string
	EnglishTranslation string
	AudioURL           string
	Found              bool
}

// GrammarInfo converts the scraped fields into the form merged into a
// word record after sentence generation.
func (d *WordData) GrammarInfo() sentence.GrammarInfo {
	return sentence.GrammarInfo{
		Pronunciation:      d.Pronunciation,
		WordType:           d.WordType,
		Gender:             d.Gender,
		Plural:             d.Plural,
		Inflections:        d.Inflections,
		DanishDefinition:   d.Definition,
		EnglishTranslation: d.EnglishTranslation,
	}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	pluralForm    = regexp.MustCompile(`(?i)([a-zæøå]+(?:er|e|ne|ene|s))`)
	parenthetical = regexp.MustCompile(`\(([a-zA-Z\s]+)\)`)
)

// inflectionKeywords mark tekstmedium spans carrying verb conjugations,
// adjective comparison or noun declension tables.
var inflectionKeywords = []string{
	"datid", "nutid", "tillægsform", "infinitiv",
	"komparativ", "superlativ",
	"bestemt", "ubestemt", "genitiv",
}

// ParseWordData extracts dictionary information for word from an
// ordnet.dk search result page. A page without a recognizable entry
// yields Found == false, not an error.
func ParseWordData(r io.Reader, word string) (*WordData, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ordnet.dk page: %w", err)
	}

	data := &WordData{Word: word}

	// A page without a searchResultBox is the "no results" page; one
	// without a definitionBoxTop is a bare suggestion listing.
	if findNode(root, element("div", "searchResultBox")) == nil {
		return data, nil
	}
	entry := findNode(root, element("div", "definitionBoxTop"))
	if entry == nil {
		return data, nil
	}

	data.Found = true
	data.Pronunciation = extractPronunciation(root)
	data.WordType = extractWordType(entry)
	data.Gender = extractGender(entry)
	data.Plural = extractPlural(entry)
	data.Inflections = extractInflections(entry)
	data.Definition = extractDefinition(root, entry)
	data.EnglishTranslation = extractEnglishTranslation(entry)
	data.AudioURL = extractAudioURL(root)

	return data, nil
}

// extractPronunciation returns the first lydskrift transcription from the
// udtale section, normalized from [ ... ] brackets to / ... / slashes.
func extractPronunciation(root *html.Node) string {
	udtale := findNode(root, elementWithID("div", "id-udt"))
	if udtale == nil {
		return ""
	}
	span := findNode(udtale, element("span", "lydskrift"))
	if span == nil {
		return ""
	}
	text := nodeText(span)
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return strings.NewReplacer("[", "/", "]", "/").Replace(text)
	}
	return "/" + text + "/"
}

// extractWordType returns the part of speech, e.g. "substantiv" from
// "substantiv, fælleskøn".
func extractWordType(entry *html.Node) string {
	span := findNode(entry, element("span", "tekstmedium"))
	if span == nil {
		return ""
	}
	wordType, _, _ := strings.Cut(nodeText(span), ",")
	return strings.ToLower(strings.TrimSpace(wordType))
}

func extractGender(entry *html.Node) string {
	span := findNode(entry, element("span", "tekstmedium"))
	if span == nil {
		return ""
	}
	text := strings.ToLower(nodeText(span))
	switch {
	case strings.Contains(text, "fælleskøn"):
		return "en"
	case strings.Contains(text, "intetkøn"):
		return "et"
	case strings.Contains(text, "flertal"):
		return "plural"
	case strings.Contains(text, ", en") || strings.HasSuffix(text, " en"):
		return "en"
	case strings.Contains(text, ", et") || strings.HasSuffix(text, " et"):
		return "et"
	}
	return ""
}

// extractPlural returns the plural form listed after a "flertal" or "pl."
// marker. Only the text after the marker is scanned so the match is the
// listed form, not a fragment of the marker word itself.
func extractPlural(entry *html.Node) string {
	for _, span := range findNodes(entry, element("span", "tekstmedium")) {
		lower := strings.ToLower(nodeText(span))

		var rest string
		if i := strings.Index(lower, "flertal"); i >= 0 {
			rest = lower[i+len("flertal"):]
		} else if i := strings.Index(lower, "pl."); i >= 0 {
			rest = lower[i+len("pl."):]
		} else {
			continue
		}

		if m := pluralForm.FindStringSubmatch(rest); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractInflections joins the tekstmedium spans that carry inflection
// tables, identified by their Danish grammar keywords.
func extractInflections(entry *html.Node) string {
	var inflections []string
	for _, span := range findNodes(entry, element("span", "tekstmedium")) {
		text := nodeText(span)
		lower := strings.ToLower(text)

		// A bare article marker is gender, not an inflection table.
		if lower == "en" || lower == "et" {
			continue
		}
		for _, keyword := range inflectionKeywords {
			if strings.Contains(lower, keyword) {
				inflections = append(inflections, text)
				break
			}
		}
	}
	return strings.Join(inflections, ", ")
}

// extractDefinition returns the first Danish definition. Definitions
// usually live in sibling boxes below the headword box, so the whole
// document is the fallback scope.
func extractDefinition(root, entry *html.Node) string {
	if indent := findNode(entry, element("div", "definitionIndent")); indent != nil {
		if span := findNode(indent, element("span", "definition")); span != nil {
			if text := cleanDefinition(nodeText(span)); text != "" {
				return text
			}
		}
	}
	if span := findNode(root, element("span", "definition")); span != nil {
		return cleanDefinition(nodeText(span))
	}
	return ""
}

func cleanDefinition(text string) string {
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if text != "" && !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}

// extractEnglishTranslation returns a translation span when one exists,
// falling back to a parenthetical ASCII phrase in the entry text.
func extractEnglishTranslation(entry *html.Node) string {
	for _, span := range findNodes(entry, element("span", "translation")) {
		if text := nodeText(span); text != "" && hasASCIILetter(text) {
			return text
		}
	}
	if m := parenthetical.FindStringSubmatch(nodeText(entry)); m != nil {
		if candidate := strings.TrimSpace(m[1]); candidate != "" {
			return candidate
		}
	}
	return ""
}

func hasASCIILetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// extractAudioURL returns the first pronunciation mp3 link from the
// udtale section. ordnet.dk exposes plain links with ids ending in
// "_fallback" next to its flash player anchors.
func extractAudioURL(root *html.Node) string {
	udtale := findNode(root, elementWithID("div", "id-udt"))
	if udtale == nil {
		return ""
	}
	for _, link := range findNodes(udtale, element("a", "")) {
		if !strings.HasSuffix(attr(link, "id"), "_fallback") {
			continue
		}
		if href := attr(link, "href"); href != "" {
			return absoluteURL(href)
		}
	}
	return ""
}

// absoluteURL resolves href against the ordnet.dk origin when the page
// uses a relative link.
func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	base, err := url.Parse("https://ordnet.dk")
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// element matches an element node by tag and, when class is non-empty,
// by CSS class.
func element(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return false
		}
		return class == "" || hasClass(n, class)
	}
}

func elementWithID(tag, id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && attr(n, "id") == id
	}
}

// findNode returns the first node in depth-first order matched by match,
// or nil.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findNodes(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if match(n) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findNodes(c, match)...)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// nodeText returns the concatenated text content of n, trimmed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
