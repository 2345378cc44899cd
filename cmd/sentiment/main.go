package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cliniscribe/cliniscribe/internal/adapters/cache"
	"github.com/cliniscribe/cliniscribe/internal/adapters/extractors"
	"github.com/cliniscribe/cliniscribe/internal/application/services"
	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	"github.com/cliniscribe/cliniscribe/internal/infrastructure/clients/inference"
	redisclient "github.com/cliniscribe/cliniscribe/internal/infrastructure/clients/redis"
	"github.com/cliniscribe/cliniscribe/internal/infrastructure/observability"
	"github.com/cliniscribe/cliniscribe/pkg/config"
	"github.com/cliniscribe/cliniscribe/pkg/secrets"
)

type output struct {
	Statements []entities.StatementAnalysis `json:"statements"`
	Summary    entities.DialogueSummary     `json:"summary"`
}

func main() {
	text := flag.String("text", "", "transcript text to process")
	file := flag.String("file", "", "path to a transcript file")
	flag.Parse()

	transcript, err := readTranscript(*text, *file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
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

	classifier, err := inference.NewClient(&cfg.Inference)
	if err != nil {
		log.Fatalf("Sentiment analysis requires a configured classifier: %v", err)
	}

	mapper, err := services.NewSentimentServiceFromFile(classifier, cfg.Lexicon.IntentRulesPath)
	if err != nil {
		log.Fatalf("Failed to load intent rules: %v", err)
	}

	if cfg.Cache.Enabled {
		mapper.SetCache(buildCache(ctx, cfg), cfg.Cache.TTLSeconds)
	}

	extractor, err := extractors.NewLexiconExtractorFromFile(cfg.Lexicon.LexiconPath)
	if err != nil {
		log.Fatalf("Failed to load lexicon: %v", err)
	}
	normalizer, err := services.NewNormalizerService(cfg.Lexicon.LexiconPath, cfg.Lexicon.SynonymPath)
	if err != nil {
		log.Fatalf("Failed to build normalizer: %v", err)
	}

	svc := services.NewTranscriptService(extractor, normalizer, mapper)
	analyses, summary, err := svc.AnalyzeDialogue(ctx, transcript)
	if err != nil {
		log.Fatalf("Dialogue analysis failed: %v", err)
	}

	out, _ := json.MarshalIndent(output{Statements: analyses, Summary: summary}, "", "  ")
	fmt.Println(string(out))
}

func buildCache(ctx context.Context, cfg *config.Config) providers.CacheProvider {
	client, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Redis unavailable, using in-memory cache: %v", err)
		return cache.NewMemoryAdapter()
	}
	if err := client.Ping(ctx); err != nil {
		log.Printf("Warning: Redis unreachable, using in-memory cache: %v", err)
		return cache.NewMemoryAdapter()
	}
	return cache.NewRedisAdapter(client)
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
