// Package loader reads raw corpus material into documents: plain-text and
// markdown files from a directory, and statute datasets from CSV.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lexibase/lexibase/core"
)

// ErrMissingColumn is returned when a statute CSV lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Columns a statute CSV must carry.
var requiredColumns = []string{"section_number", "section_title", "description", "example_use_cases", "punishment"}

// LoadDirectory reads every .txt and .md file in dir as one document.
// The document ID is the file name, the title a humanized form of the
// stem. Files are returned in name order so corpus fingerprints are
// stable across runs.
func LoadDirectory(dir string) ([]core.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []core.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".txt" && ext != ".md" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		stem := strings.TrimSuffix(entry.Name(), ext)
		docs = append(docs, core.Document{
			ID:          entry.Name(),
			Title:       humanizeStem(stem),
			Text:        strings.TrimSpace(string(data)),
			SourceLabel: entry.Name(),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// LoadStatuteCSV reads an IPC-style statute dataset. Each row becomes one
// document combining the section's description, example use cases, and
// punishment, titled "IPC Section N: Title" so exact statute lookup can
// match on it.
func LoadStatuteCSV(path string) ([]core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, name, path)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows of %s: %w", path, err)
	}

	field := func(row []string, name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	label := filepath.Base(path)
	docs := make([]core.Document, 0, len(records))
	for _, row := range records {
		number := field(row, "section_number")
		title := field(row, "section_title")
		if number == "" {
			continue
		}

		fullTitle := fmt.Sprintf("IPC Section %s: %s", number, title)
		text := fmt.Sprintf("%s\n\nDescription: %s\n\nExample Use Cases: %s\n\nPunishment: %s",
			fullTitle,
			field(row, "description"),
			field(row, "example_use_cases"),
			field(row, "punishment"))

		docs = append(docs, core.Document{
			ID:          "ipc_section_" + number,
			Title:       fullTitle,
			Text:        text,
			SourceLabel: label,
		})
	}

	return docs, nil
}

// humanizeStem turns a file stem like "property_disputes" into
// "Property Disputes".
func humanizeStem(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
