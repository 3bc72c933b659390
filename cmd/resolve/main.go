package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"actas/internal/config"
	"actas/internal/domain"
	"actas/internal/export"
	"actas/internal/pipeline"
	"actas/internal/port"
	"actas/internal/validator/noop"
	"actas/internal/validator/openai"
)

// resolve runs the resolution pipeline on a candidates file without a
// database or server, writing export artifacts to a directory.
func main() {
	var (
		inPath    = flag.String("in", "", "path to a JSON file with raw field candidates (required)")
		outDir    = flag.String("out", ".", "directory for export artifacts")
		formats   = flag.String("formats", "toon,csv,xlsx", "comma-separated export formats")
		endpoint  = flag.String("endpoint", "", "chat completions endpoint (default: OpenAI)")
		apiKey    = flag.String("api-key", os.Getenv("ACTAS_VALIDATOR_API_KEY"), "validator API key (escalation disabled when empty)")
		model     = flag.String("model", "gpt-4o", "validator model")
		threshold = flag.Float64("threshold", pipeline.DefaultAcceptanceThreshold, "acceptance threshold for local results")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*inPath, *outDir, *formats, *endpoint, *apiKey, *model, *threshold); err != nil {
		log.Fatal(err)
	}
}

func run(inPath, outDir, formats, endpoint, apiKey, model string, threshold float64) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading candidates file: %w", err)
	}

	var candidates []domain.RawFieldCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return fmt.Errorf("parsing candidates file: %w", err)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("candidates file %s is empty", inPath)
	}

	var validator port.BatchValidator
	if apiKey != "" {
		cfg := &config.ValidatorConfig{APIKey: apiKey, Model: model, TimeoutSecs: 90}
		if endpoint != "" {
			validator = openai.NewValidatorWithEndpoint(cfg, endpoint)
		} else {
			validator = openai.NewValidator(cfg)
		}
	} else {
		log.Printf("resolve: no API key, escalated fields will stay unresolved")
		validator = noop.NewValidator()
	}

	resolver := pipeline.New(validator, threshold)

	results, resolveErr := resolver.ResolveDocument(context.Background(), candidates)
	if resolveErr != nil && !errors.Is(resolveErr, domain.ErrEscalationFailed) {
		return resolveErr
	}
	if resolveErr != nil {
		log.Printf("resolve: %v; writing partial results", resolveErr)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	for _, f := range strings.Split(formats, ",") {
		format := domain.ExportFormat(strings.TrimSpace(f))
		data, name, err := render(base, results, format)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("resolve: wrote %s", path)
	}

	resolved := 0
	for i := range results {
		if results[i].Value != nil {
			resolved++
		}
	}
	log.Printf("resolve: %d/%d fields resolved", resolved, len(results))
	return nil
}

func render(base string, results []domain.ResolutionResult, format domain.ExportFormat) ([]byte, string, error) {
	switch format {
	case domain.ExportFormatTOON:
		var buf bytes.Buffer
		if err := export.WriteTOON(&buf, results); err != nil {
			return nil, "", fmt.Errorf("writing toon: %w", err)
		}
		return buf.Bytes(), base + ".txt", nil

	case domain.ExportFormatCSV:
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return nil, "", fmt.Errorf("writing csv header: %w", err)
		}
		if err := w.WriteResults(results); err != nil {
			return nil, "", fmt.Errorf("writing csv rows: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", fmt.Errorf("flushing csv: %w", err)
		}
		return buf.Bytes(), base + ".csv", nil

	case domain.ExportFormatXLSX:
		buf, err := export.WriteXLSX(results)
		if err != nil {
			return nil, "", fmt.Errorf("writing xlsx: %w", err)
		}
		return buf.Bytes(), base + ".xlsx", nil
	}
	return nil, "", fmt.Errorf("unknown export format %q", format)
}
