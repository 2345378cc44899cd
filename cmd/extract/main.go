package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cliniscribe/cliniscribe/internal/adapters/extractors"
	"github.com/cliniscribe/cliniscribe/internal/application/services"
	"github.com/cliniscribe/cliniscribe/internal/infrastructure/observability"
	"github.com/cliniscribe/cliniscribe/pkg/config"
)

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

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.InitLogger(cfg.Service.Name, cfg.Service.Environment)

	extractor, err := extractors.NewLexiconExtractorFromFile(cfg.Lexicon.LexiconPath)
	if err != nil {
		log.Fatalf("Failed to load lexicon: %v", err)
	}
	normalizer, err := services.NewNormalizerService(cfg.Lexicon.LexiconPath, cfg.Lexicon.SynonymPath)
	if err != nil {
		log.Fatalf("Failed to build normalizer: %v", err)
	}

	svc := services.NewTranscriptService(extractor, normalizer, nil)
	summary, err := svc.Summarize(context.Background(), transcript)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
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
