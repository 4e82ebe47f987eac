// Package main provides a one-shot assessment bridge: token records in on
// stdin, assessed records out on stdout. Reference sets come from JSON files
// or from PostgreSQL.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/classifier"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/similarity"
	pgstore "github.com/On-Analytics/ERC20-Token-Listener/internal/storage/postgres"
)

func main() {
	safeJSON := flag.String("safe-json", "", "Path to safe tokens JSON file")
	fakeJSON := flag.String("fake-json", "", "Path to fake directory JSON file")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (alternative to JSON files)")
	symbolThreshold := flag.Float64("symbol-threshold", similarity.DefaultSymbolThreshold, "Symbol similarity accept threshold")
	nameThreshold := flag.Float64("name-threshold", similarity.DefaultNameThreshold, "Name similarity accept threshold")
	ndjson := flag.Bool("ndjson", false, "Emit newline-delimited JSON instead of an array")
	flag.Parse()

	ctx := context.Background()

	safeSet, fraudSet, err := loadReferenceSets(ctx, *safeJSON, *fakeJSON, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading reference sets: %v\n", err)
		os.Exit(1)
	}

	tokens, err := readTokens(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading tokens: %v\n", err)
		os.Exit(1)
	}

	engine := classifier.NewEngineWithThresholds(*symbolThreshold, *nameThreshold)
	assessed := engine.AssessBatch(tokens, safeSet, fraudSet)

	if err := writeAssessed(os.Stdout, assessed, *ndjson); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

// loadReferenceSets loads both sets from JSON files or from PostgreSQL.
// Missing sources mean empty sets; matching then never fires and tokens
// resolve on indicators alone.
func loadReferenceSets(ctx context.Context, safePath, fakePath, dsn string) ([]domain.ReferenceEntry, []domain.ReferenceEntry, error) {
	if safePath != "" || fakePath != "" {
		safeSet, err := readReferenceFile(safePath)
		if err != nil {
			return nil, nil, fmt.Errorf("read safe set: %w", err)
		}
		fraudSet, err := readReferenceFile(fakePath)
		if err != nil {
			return nil, nil, fmt.Errorf("read fake directory: %w", err)
		}
		return safeSet, fraudSet, nil
	}

	if dsn == "" {
		return nil, nil, nil
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	store := pgstore.NewReferenceStore(pool)
	safeSet, err := store.GetSafeTokens(ctx)
	if err != nil {
		return nil, nil, err
	}
	fraudSet, err := store.GetFakeDirectory(ctx)
	if err != nil {
		return nil, nil, err
	}
	return safeSet, fraudSet, nil
}

func readReferenceFile(path string) ([]domain.ReferenceEntry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []domain.ReferenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// readTokens accepts either a JSON array or newline-delimited JSON objects.
func readTokens(r io.Reader) ([]domain.TokenRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var tokens []domain.TokenRecord
		if err := json.Unmarshal(trimmed, &tokens); err != nil {
			return nil, fmt.Errorf("parse token array: %w", err)
		}
		return tokens, nil
	}

	var tokens []domain.TokenRecord
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var t domain.TokenRecord
		if err := json.Unmarshal(text, &t); err != nil {
			return nil, fmt.Errorf("parse token on line %d: %w", line, err)
		}
		tokens = append(tokens, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

func writeAssessed(w io.Writer, assessed []*domain.AssessedToken, ndjson bool) error {
	enc := json.NewEncoder(w)
	if ndjson {
		for _, a := range assessed {
			if err := enc.Encode(a); err != nil {
				return err
			}
		}
		return nil
	}

	enc.SetIndent("", "  ")
	if assessed == nil {
		assessed = []*domain.AssessedToken{}
	}
	return enc.Encode(assessed)
}
