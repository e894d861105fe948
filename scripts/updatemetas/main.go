// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

// Refreshes the embedded draft meta-schemas from json-schema.org.
// Run from the repository root: go run ./scripts/updatemetas
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const outputDir = "./metaschemas"

var metaURLs = map[string]string{
	"draft-04.json": "https://json-schema.org/draft-04/schema",
	"draft-06.json": "https://json-schema.org/draft-06/schema",
	"draft-07.json": "https://json-schema.org/draft-07/schema",
}

func main() {
	for name, url := range metaURLs {
		data, err := fetchMeta(url)
		if err != nil {
			log.Fatalf("Failed to fetch %s: %v", url, err)
		}
		if err := writeMeta(name, data); err != nil {
			log.Fatalf("Failed to write %s: %v", name, err)
		}
		log.Printf("Updated %s (%d bytes)", name, len(data))
	}
}

func fetchMeta(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/schema+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	return body, nil
}

func writeMeta(name string, data []byte) error {
	file, err := os.Create(filepath.Join(outputDir, name))
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	return nil
}
