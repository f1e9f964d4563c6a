package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/tlinquata/ordkort/internal"
	"codeberg.org/tlinquata/ordkort/internal/anki"
	"codeberg.org/tlinquata/ordkort/internal/archive"
	"codeberg.org/tlinquata/ordkort/internal/audio"
	"codeberg.org/tlinquata/ordkort/internal/batch"
	"codeberg.org/tlinquata/ordkort/internal/cli"
	"codeberg.org/tlinquata/ordkort/internal/image"
	"codeberg.org/tlinquata/ordkort/internal/ordnet"
	"codeberg.org/tlinquata/ordkort/internal/phonetic"
	"codeberg.org/tlinquata/ordkort/internal/sentence"
	"codeberg.org/tlinquata/ordkort/internal/translation"
)

// perWordAudioDelay is the pause between audio downloads so ordnet.dk is
// not hammered during batch runs.
const perWordAudioDelay = time.Second

// Summary reports what a processing run produced.
type Summary struct {
	Total      int // words submitted
	OK         int // words with accepted sentences
	Failed     int // words that ended in error
	Cards      int // cards written to the export
	WithAudio  int
	WithImages int
	CSVPath    string
	APKGPath   string
}

// Processor glues the whole pipeline together: sentence generation,
// dictionary enrichment, audio and image download, and card export.
type Processor struct {
	flags            *cli.Flags
	obs              sentence.Observer
	translator       *translation.Translator
	translationCache *translation.TranslationCache
	phoneticFetcher  *phonetic.Fetcher
	dictionary       *ordnet.Client
}

// NewProcessor creates a new word processor. A nil observer logs to stdout.
func NewProcessor(flags *cli.Flags, obs sentence.Observer) *Processor {
	if obs == nil {
		obs = sentence.WriterObserver{W: os.Stdout}
	}
	apiKey := cli.GetOpenAIKey()
	return &Processor{
		flags:            flags,
		obs:              obs,
		translator:       translation.NewTranslator(apiKey),
		translationCache: translation.NewTranslationCache(),
		phoneticFetcher:  phonetic.NewFetcher(apiKey),
		dictionary:       ordnet.NewClient(),
	}
}

// RunBatch processes the words listed in the batch file.
func (p *Processor) RunBatch(ctx context.Context) (*Summary, error) {
	entries, err := batch.ReadWordsFile(p.flags.BatchFile)
	if err != nil {
		return nil, err
	}

	var words []string
	for _, entry := range entries {
		if entry.NeedsTranslation {
			// English-only line: resolve the Danish side first.
			danish, err := p.translator.TranslateToDanish(entry.Translation)
			if err != nil {
				p.obs.Logf("Could not translate '%s' to Danish: %v", entry.Translation, err)
				continue
			}
			p.obs.Logf("Translated '%s' to Danish: %s", entry.Translation, danish)
			entry.Danish = danish
		}
		if entry.Translation != "" {
			p.translationCache.Add(entry.Danish, entry.Translation)
		}
		words = append(words, entry.Danish)
	}

	return p.RunWords(ctx, words)
}

// RunWords validates the given words and runs the pipeline over them.
func (p *Processor) RunWords(ctx context.Context, words []string) (*Summary, error) {
	for _, word := range words {
		if err := batch.ValidateDanishWord(word); err != nil {
			return nil, fmt.Errorf("invalid word '%s': %w", word, err)
		}
	}
	return p.run(ctx, words)
}

func (p *Processor) run(ctx context.Context, words []string) (*Summary, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("no words to process")
	}

	if p.flags.Archive {
		archived, err := archive.ArchiveCards(p.flags.OutputDir)
		if err != nil {
			p.obs.Logf("Archive skipped: %v", err)
		} else {
			p.obs.Logf("Previous cards archived to %s", archived)
		}
	}

	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result, runErr := p.generateSentences(ctx, words)
	if result == nil {
		return nil, runErr
	}

	summary := &Summary{Total: len(words)}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath: p.csvPath(),
	})

	okRecords := result.OKRecords()
	for i, rec := range okRecords {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		p.obs.Logf("Enriching %d/%d: %s", i+1, len(okRecords), rec.ResolvedWord)
		p.enrich(ctx, rec)

		audioPath := ""
		if !p.flags.SkipAudio {
			path, err := p.downloadAudio(ctx, rec.ResolvedWord)
			if err != nil {
				p.obs.Logf("Audio for '%s' failed: %v", rec.ResolvedWord, err)
			} else {
				audioPath = path
			}
			if i < len(okRecords)-1 {
				sleepCtx(ctx, perWordAudioDelay)
			}
		}

		imagePath := ""
		if !p.flags.SkipImages {
			path, err := p.downloadImage(ctx, rec.ResolvedWord)
			if err != nil {
				// Images are optional: log and carry on.
				p.obs.Logf("Image for '%s' failed: %v", rec.ResolvedWord, err)
			} else {
				imagePath = path
			}
		}

		n, err := gen.AddRecord(rec, audioPath, imagePath)
		if err != nil {
			p.obs.Logf("Skipping cards for '%s': %v", rec.ResolvedWord, err)
			summary.Failed++
			continue
		}
		summary.OK++
		summary.Cards += n

		if audioPath != "" && p.flags.AnkiMediaDir != "" {
			if err := audio.CopyToAnkiMedia(audioPath, rec.ResolvedWord, p.flags.AnkiMediaDir); err != nil {
				p.obs.Logf("Could not copy audio into Anki media: %v", err)
			}
		}
	}

	if err := p.export(gen, summary); err != nil {
		return summary, err
	}

	failed := result.FailedWords()
	summary.Failed += len(failed)
	if len(failed) > 0 {
		failedFile := filepath.Join(p.flags.OutputDir, "failed_words.txt")
		if err := batch.WriteFailedWords(failedFile, failed); err != nil {
			p.obs.Logf("Could not write failed words file: %v", err)
		} else {
			p.obs.Logf("Failed words written to %s", failedFile)
		}
	}

	_, summary.WithAudio, summary.WithImages = gen.Stats()
	p.printSummary(summary)

	return summary, runErr
}

// generateSentences drives the sentence orchestrator over the word list.
func (p *Processor) generateSentences(ctx context.Context, words []string) (*sentence.BatchResult, error) {
	level, err := batch.NormalizeCEFRLevel(p.flags.Level)
	if err != nil {
		return nil, err
	}

	clientConfig := &sentence.ClientConfig{
		Provider: p.flags.GenerationProvider,
		Model:    p.flags.Model,
	}
	switch p.flags.GenerationProvider {
	case "gemini":
		clientConfig.APIKey = cli.GetGeminiKey()
	default:
		clientConfig.APIKey = cli.GetOpenAIKey()
	}
	client, err := sentence.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	config := sentence.DefaultConfig()
	config.Level = level
	config.RequiredSentences = p.flags.RequiredSentences
	config.BatchThreshold = p.flags.BatchThreshold
	config.MaxChunkSize = p.flags.MaxChunkSize
	config.TokenBudgetCap = p.flags.TokenBudget

	orch := sentence.NewOrchestrator(client, config, p.obs)
	return orch.Process(ctx, words)
}

// enrich merges ordnet.dk dictionary data into a completed record. When
// the dictionary has no entry, the generation-service grammar stays and a
// phonetic transcription is fetched as a fallback reference.
func (p *Processor) enrich(ctx context.Context, rec *sentence.WordRecord) {
	data, err := p.dictionary.Lookup(ctx, rec.ResolvedWord)
	if err != nil {
		p.obs.Logf("ordnet lookup for '%s' failed: %v", rec.ResolvedWord, err)
		if err := p.phoneticFetcher.FetchAndSave(rec.ResolvedWord, p.flags.OutputDir); err != nil {
			p.obs.Logf("Phonetic fallback for '%s' failed: %v", rec.ResolvedWord, err)
		}
		p.fillTranslation(rec)
		return
	}

	rec.MergeGrammar(data.GrammarInfo())
	p.fillTranslation(rec)
}

// fillTranslation makes sure the record carries an English translation,
// preferring the one supplied in the batch file.
func (p *Processor) fillTranslation(rec *sentence.WordRecord) {
	if rec.Grammar.EnglishTranslation != "" {
		return
	}
	if cached, ok := p.translationCache.Get(rec.RequestedWord); ok {
		rec.MergeGrammar(sentence.GrammarInfo{EnglishTranslation: cached})
		return
	}
	english, err := p.translator.TranslateWord(rec.ResolvedWord)
	if err != nil {
		p.obs.Logf("Translation for '%s' failed: %v", rec.ResolvedWord, err)
		return
	}
	p.translationCache.Add(rec.ResolvedWord, english)
	rec.MergeGrammar(sentence.GrammarInfo{EnglishTranslation: english})
}

// downloadAudio fetches pronunciation audio for a word unless a valid
// file already exists from a previous run.
func (p *Processor) downloadAudio(ctx context.Context, word string) (string, error) {
	outputFile := filepath.Join(p.flags.OutputDir, strings.ToLower(word)+".mp3")
	if audio.ValidAudioFile(outputFile) {
		p.obs.Logf("Audio for '%s' already present, skipping", word)
		return outputFile, nil
	}

	provider, err := p.newAudioProvider()
	if err != nil {
		return "", err
	}

	if err := provider.GenerateAudio(ctx, word, outputFile); err != nil {
		return "", err
	}
	return outputFile, nil
}

// newAudioProvider builds the configured audio provider. The default
// ordnet source falls back to OpenAI TTS when an API key is available, so
// words missing from the dictionary still get audio.
func (p *Processor) newAudioProvider() (audio.Provider, error) {
	config := audio.DefaultProviderConfig()
	config.Provider = p.flags.AudioProvider
	config.OutputDir = p.flags.OutputDir
	config.ForvoKey = cli.GetForvoKey()
	config.OpenAIKey = cli.GetOpenAIKey()

	provider, err := audio.NewProvider(config)
	if err != nil {
		return nil, err
	}

	if config.Provider == "ordnet" && config.OpenAIKey != "" {
		fallbackConfig := *config
		fallbackConfig.Provider = "openai"
		if fallback, err := audio.NewProvider(&fallbackConfig); err == nil {
			provider = audio.NewProviderWithFallback(provider, fallback)
		}
	}

	return provider, nil
}

// downloadImage searches for a representative image and stores it next to
// the cards.
func (p *Processor) downloadImage(ctx context.Context, word string) (string, error) {
	searcher, err := image.NewSearcher(&image.ProviderConfig{
		Provider:    p.flags.ImageProvider,
		PixabayKey:  cli.GetPixabayKey(),
		UnsplashKey: cli.GetUnsplashKey(),
	})
	if err != nil {
		return "", err
	}

	// The stock photo APIs index English terms, so search on a
	// translation of the word.
	query := image.NewQueryTranslator(cli.GetOpenAIKey()).TranslateQuery(ctx, word)

	opts := image.DefaultSearchOptions(query)
	opts.Language = "en"

	dl := image.NewDownloader(searcher, &image.DownloadOptions{
		OutputDir:         p.flags.OutputDir,
		OverwriteExisting: true,
		CreateDir:         true,
		FileNamePattern:   internal.SanitizeFilename(strings.ToLower(word)) + "_{source}.jpg",
		MaxSizeBytes:      10 * 1024 * 1024,
	})
	_, outputPath, err := dl.DownloadBestMatchWithOptions(ctx, opts)
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

// export writes the CSV and optional APKG outputs.
func (p *Processor) export(gen *anki.Generator, summary *Summary) error {
	if err := gen.GenerateCSV(); err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	summary.CSVPath = p.csvPath()

	if p.flags.APKGPath != "" {
		if err := gen.GenerateAPKG(p.flags.APKGPath, p.flags.DeckName); err != nil {
			return fmt.Errorf("failed to generate APKG: %w", err)
		}
		summary.APKGPath = p.flags.APKGPath
	}

	return nil
}

func (p *Processor) csvPath() string {
	if p.flags.CSVPath != "" {
		return p.flags.CSVPath
	}
	return filepath.Join(p.flags.OutputDir, "anki_import.csv")
}

func (p *Processor) printSummary(s *Summary) {
	p.obs.Logf("")
	p.obs.Logf("=== Processing Summary ===")
	p.obs.Logf("Total words: %d", s.Total)
	p.obs.Logf("Succeeded: %d", s.OK)
	if s.Failed > 0 {
		p.obs.Logf("Failed: %d", s.Failed)
	}
	p.obs.Logf("Cards: %d (%d with audio, %d with images)", s.Cards, s.WithAudio, s.WithImages)
	p.obs.Logf("CSV: %s", s.CSVPath)
	if s.APKGPath != "" {
		p.obs.Logf("APKG: %s", s.APKGPath)
	}
	p.obs.Logf("==========================")
}

// sleepCtx sleeps for d or until the context is canceled.
func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
