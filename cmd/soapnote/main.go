package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cliniscribe/cliniscribe/internal/adapters/extractors"
	"github.com/cliniscribe/cliniscribe/internal/application/services"
	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/infrastructure/clients/inference"
	"github.com/cliniscribe/cliniscribe/internal/infrastructure/observability"
	"github.com/cliniscribe/cliniscribe/pkg/config"
	"github.com/cliniscribe/cliniscribe/pkg/secrets"
)

func main() {
	text := flag.String("text", "", "transcript text to process")
	file := flag.String("file", "", "path to a transcript file")
	format := flag.String("format", "json", "output format: json or text")
	flag.Parse()

	transcript, err := readTranscript(*text, *file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if *format != "json" && *format != "text" {
		fmt.Fprintf(os.Stderr, "unknown format %q: use json or text\n", *format)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if result, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv("")); err != nil {
		log.Printf("Warning: Vault secrets not applied: %v", err)
	} else if result.Enabled {
		log.Printf("Loaded %d secrets from vault path %s (%d skipped)", result.Loaded, result.Path, result.Skipped)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.InitLogger(cfg.Service.Name, cfg.Service.Environment)

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Printf("Warning: OpenTelemetry shutdown: %v", err)
				}
			}()
		}
	}

	extractor, err := extractors.NewLexiconExtractorFromFile(cfg.Lexicon.LexiconPath)
	if err != nil {
		log.Fatalf("Failed to load lexicon: %v", err)
	}
	normalizer, err := services.NewNormalizerService(cfg.Lexicon.LexiconPath, cfg.Lexicon.SynonymPath)
	if err != nil {
		log.Fatalf("Failed to build normalizer: %v", err)
	}

	// Sentiment is optional for note assembly. Without a configured
	// classifier the Subjective section carries the placeholder.
	var mapper *services.SentimentService
	if classifier, err := inference.NewClient(&cfg.Inference); err != nil {
		log.Printf("Warning: sentiment skipped, no classifier configured: %v", err)
	} else {
		mapper, err = services.NewSentimentServiceFromFile(classifier, cfg.Lexicon.IntentRulesPath)
		if err != nil {
			log.Fatalf("Failed to load intent rules: %v", err)
		}
	}

	transcriptSvc := services.NewTranscriptService(extractor, normalizer, mapper)

	spans, err := extractor.Extract(ctx, transcript)
	if err != nil {
		log.Fatalf("Entity extraction failed: %v", err)
	}
	ents := normalizer.Normalize(ctx, spans)
	durations := services.Durations(transcript)

	var sentiment *entities.SentimentResult
	var intent *entities.IntentResult
	if mapper != nil {
		_, summary, err := transcriptSvc.AnalyzeDialogue(ctx, transcript)
		if err != nil {
			log.Fatalf("Dialogue analysis failed: %v", err)
		}
		sentiment = &entities.SentimentResult{Label: summary.OverallSentiment, RawScore: summary.AverageConfidence}
		intent = &entities.IntentResult{Label: summary.DominantIntent}
	}

	assembler := services.NewSoapService()
	note := assembler.Assemble(ents, durations, sentiment, intent)

	if *format == "text" {
		fmt.Print(assembler.RenderText(note))
		return
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	fmt.Println(string(out))
}

func readTranscript(text, file string) (string, error) {
	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("use either --text or --file, not both")
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read transcript file: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("a transcript is required: pass --text or --file")
}
