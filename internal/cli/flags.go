package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	OutputDir    string
	AnkiMediaDir string
	CSVPath      string
	APKGPath     string
	DeckName     string
	BatchFile    string
	Level        string
	SkipAudio    bool
	SkipImages   bool
	Archive      bool
	ListModels   bool
	GUIMode      bool

	// Provider selection
	AudioProvider      string
	ImageProvider      string
	GenerationProvider string
	Model              string

	// Batch tuning
	RequiredSentences int
	BatchThreshold    int
	MaxChunkSize      int
	TokenBudget       int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Level:              "B1",
		DeckName:           "Danish Vocabulary",
		AudioProvider:      "ordnet",
		ImageProvider:      "pixabay",
		GenerationProvider: "openai",
		RequiredSentences:  2,
		BatchThreshold:     5,
		MaxChunkSize:       10,
		TokenBudget:        4000,
	}
}
