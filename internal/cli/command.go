package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/tlinquata/ordkort/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ordkort [word ...]",
		Short: "Danish Anki Flashcard Generator",
		Long: `ordkort generates Anki flashcard materials from Danish words.

It generates CEFR-graded example sentences, fetches pronunciation and
grammar from ordnet.dk, downloads real speaker audio, and assembles
importable Anki decks.

Examples:
  ordkort hund kat hus            # Generate cards for three words
  ordkort --batch words.txt       # Process a word list from file
  ordkort --gui                   # Launch the interactive GUI`,
		Args:    cobra.ArbitraryArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Default output directory matches the GUI's state directory
	home, _ := os.UserHomeDir()
	defaultOutputDir := filepath.Join(home, ".local", "state", "ordkort", "cards")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ordkort.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", defaultOutputDir, "Output directory")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process words from file (one per line, optionally 'word = translation')")
	cmd.Flags().BoolVar(&flags.GUIMode, "gui", false, "Launch the graphical interface")
	cmd.Flags().StringVarP(&flags.Level, "level", "l", flags.Level, "CEFR level for generated sentences (A1-C2)")
	cmd.Flags().StringVar(&flags.AnkiMediaDir, "anki-media", "", "Anki collection.media directory to copy audio into")
	cmd.Flags().StringVar(&flags.CSVPath, "csv", "", "Write cards as a CSV import file")
	cmd.Flags().StringVar(&flags.APKGPath, "apkg", "", "Write cards as an .apkg deck package")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	cmd.Flags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip audio download")
	cmd.Flags().BoolVar(&flags.SkipImages, "skip-images", false, "Skip image search")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the previous output directory before processing")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Provider selection
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Audio source: ordnet, forvo, openai or espeak")
	cmd.Flags().StringVar(&flags.ImageProvider, "image-provider", flags.ImageProvider, "Image source: pixabay or unsplash")
	cmd.Flags().StringVar(&flags.GenerationProvider, "generation-provider", flags.GenerationProvider, "Sentence generation backend: openai or gemini")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Chat model for sentence generation (default depends on provider)")

	// Batch tuning
	cmd.Flags().IntVar(&flags.RequiredSentences, "required-sentences", flags.RequiredSentences, "Accepted sentences required per word (1 or 2)")
	cmd.Flags().IntVar(&flags.BatchThreshold, "batch-threshold", flags.BatchThreshold, "Word count at or below which one combined request is used")
	cmd.Flags().IntVar(&flags.MaxChunkSize, "max-chunk-size", flags.MaxChunkSize, "Words per request above the batch threshold (max 25)")
	cmd.Flags().IntVar(&flags.TokenBudget, "token-budget", flags.TokenBudget, "Upper bound on per-request completion tokens")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("output.anki_media", cmd.Flags().Lookup("anki-media"))
	viper.BindPFlag("output.deck_name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("generation.provider", cmd.Flags().Lookup("generation-provider"))
	viper.BindPFlag("generation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("generation.level", cmd.Flags().Lookup("level"))
	viper.BindPFlag("generation.required_sentences", cmd.Flags().Lookup("required-sentences"))
	viper.BindPFlag("generation.batch_threshold", cmd.Flags().Lookup("batch-threshold"))
	viper.BindPFlag("generation.max_chunk_size", cmd.Flags().Lookup("max-chunk-size"))
	viper.BindPFlag("generation.token_budget", cmd.Flags().Lookup("token-budget"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio-provider"))
	viper.BindPFlag("image.provider", cmd.Flags().Lookup("image-provider"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".ordkort" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ordkort")
	}

	// Environment variables
	viper.SetEnvPrefix("ORDKORT")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("generation.gemini_key")
}

// GetForvoKey retrieves the Forvo API key from environment or config
func GetForvoKey() string {
	if key := os.Getenv("FORVO_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.forvo_key")
}

// GetPixabayKey retrieves the Pixabay API key from environment or config
func GetPixabayKey() string {
	if key := os.Getenv("PIXABAY_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("image.pixabay_key")
}

// GetUnsplashKey retrieves the Unsplash access key from environment or config
func GetUnsplashKey() string {
	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		return key
	}
	return viper.GetString("image.unsplash_key")
}
