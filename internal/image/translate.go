package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// QueryTranslator turns a Danish word into an English search query.
// Stock photo sites index their material in English, so searching with
// the Danish word directly usually returns nothing useful.
type QueryTranslator struct {
	client *openai.Client
}

// NewQueryTranslator creates a translator backed by the OpenAI API.
func NewQueryTranslator(apiKey string) *QueryTranslator {
	if apiKey == "" {
		return &QueryTranslator{}
	}
	return &QueryTranslator{client: openai.NewClient(apiKey)}
}

// TranslateQuery returns an English query for the Danish word. Without an
// API key, or when the API call fails, it falls back to the static map and
// finally to the original word.
func (qt *QueryTranslator) TranslateQuery(ctx context.Context, word string) string {
	if qt.client == nil {
		return translateDanishQuery(word)
	}

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the Danish word '%s' to English for use as an image search query. "+
					"Respond with only one or two English words, nothing else.", word),
			},
		},
		MaxTokens:   20,
		Temperature: 0.3,
	}

	resp, err := qt.client.CreateChatCompletion(ctx, req)
	if err != nil || len(resp.Choices) == 0 {
		return translateDanishQuery(word)
	}

	translated := strings.TrimSpace(strings.Trim(resp.Choices[0].Message.Content, `".`))
	if translated == "" {
		return translateDanishQuery(word)
	}
	return translated
}

// translateDanishQuery is the offline fallback: a small map of common
// vocabulary-list words. Unknown words pass through unchanged.
func translateDanishQuery(query string) string {
	translations := map[string]string{
		"æble":     "apple",
		"jordbær":  "strawberry",
		"kirsebær": "cherry",
		"pære":     "pear",
		"fersken":  "peach",
		"drue":     "grapes",
		"banan":    "banana",
		"appelsin": "orange",
		"citron":   "lemon",
		"kat":      "cat",
		"hund":     "dog",
		"brød":     "bread",
		"vand":     "water",
		"hus":      "house",
		"træ":      "tree",
		"blomst":   "flower",
		"bog":      "book",
		"stol":     "chair",
		"bord":     "table",
		"vindue":   "window",
		"dør":      "door",
		"hånd":     "hand",
		"øje":      "eye",
		"sol":      "sun",
		"måne":     "moon",
		"stjerne":  "star",
		"hav":      "sea",
		"bjerg":    "mountain",
		"bil":      "car",
		"bus":      "bus",
		"tog":      "train",
		"fly":      "airplane",
		"skole":    "school",
		"lærer":    "teacher",
		"elev":     "student",
		"ven":      "friend",
		"familie":  "family",
		"mor":      "mother",
		"far":      "father",
		"bror":     "brother",
		"søster":   "sister",
		"barn":     "child",
		"mand":     "man",
		"kvinde":   "woman",
		"dreng":    "boy",
		"pige":     "girl",
		"mad":      "food",
		"frugt":    "fruit",
		"grøntsag": "vegetable",
		"mælk":     "milk",
		"ost":      "cheese",
		"kød":      "meat",
		"fisk":     "fish",
		"kylling":  "chicken",
		"æg":       "egg",
		"sukker":   "sugar",
		"salt":     "salt",
		"kaffe":    "coffee",
		"te":       "tea",
		"vin":      "wine",
		"øl":       "beer",
		"saft":     "juice",
		"by":       "city",
		"landsby":  "village",
		"gade":     "street",
		"park":     "park",
		"butik":    "shop",
		"hotel":    "hotel",
		"hospital": "hospital",
		"apotek":   "pharmacy",
		"bank":     "bank",
		"politi":   "police",
		"lufthavn": "airport",
		"station":  "train station",
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if translated, ok := translations[query]; ok {
		return translated
	}

	// No translation found. The providers might still return results for
	// loanwords and cognates.
	return query
}
