// Command validate checks the game data files under ./data before they are
// shipped. It reports per file:
//   - JSON structure and required fields
//   - Empty categories, decks, and word lists
//   - Taboo cards carrying a word plus exactly 5 forbidden words
//   - Estimation answers being numeric and statements carrying a boolean
//   - Song CSV column presence and per-row year parseability
//   - Duplicate entries under accent- and case-insensitive comparison
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tvdberg/partyhub/catalog"
)

// ValidationResult captures the outcome of validating a single file. If
// Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func newResult(path string) ValidationResult {
	return ValidationResult{File: filepath.Base(path), Valid: true, Errors: []string{}}
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

type rawCategory struct {
	Label   string   `json:"label"`
	Color   string   `json:"color"`
	Items   []string `json:"items"`
	Persons []string `json:"persons"`
}

type rawWordFile struct {
	Categories map[string]rawCategory `json:"categories"`
}

// validateWordFile checks a categorized word file (hints, pictionary,
// who_am_i). The field holding the entries differs per file.
func validateWordFile(path, field string) ValidationResult {
	result := newResult(path)

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var raw rawWordFile
	if err := json.Unmarshal(data, &raw); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}
	if len(raw.Categories) == 0 {
		result.fail("Missing or empty \"categories\" object")
		return result
	}

	total := 0
	for name, cat := range raw.Categories {
		entries := cat.Items
		if field == "persons" {
			entries = cat.Persons
		}
		if len(entries) == 0 {
			result.fail("Category %q has no %s", name, field)
			continue
		}
		total += len(entries)
		reportDuplicates(&result, fmt.Sprintf("category %q", name), entries)
	}

	if result.Valid {
		result.info("Categories: %d", len(raw.Categories))
		result.info("Entries: %d", total)
	}
	return result
}

func validateTimerWords(path string) ValidationResult {
	result := newResult(path)

	var raw struct {
		Words []string `json:"words"`
	}
	if err := readJSONFile(path, &raw, &result); err != nil {
		return result
	}
	if len(raw.Words) == 0 {
		result.fail("Missing or empty \"words\" array")
		return result
	}
	reportDuplicates(&result, "word list", raw.Words)

	if result.Valid {
		result.info("Words: %d", len(raw.Words))
	}
	return result
}

func validateTaboo(path string) ValidationResult {
	result := newResult(path)

	var raw struct {
		Cards []struct {
			Word  string   `json:"word"`
			Taboo []string `json:"taboo"`
		} `json:"cards"`
	}
	if err := readJSONFile(path, &raw, &result); err != nil {
		return result
	}
	if len(raw.Cards) == 0 {
		result.fail("Missing or empty \"cards\" array")
		return result
	}

	words := make([]string, 0, len(raw.Cards))
	for i, card := range raw.Cards {
		if card.Word == "" {
			result.fail("Card %d has no word", i+1)
			continue
		}
		if len(card.Taboo) != 5 {
			result.fail("Card %q must carry exactly 5 forbidden words, has %d", card.Word, len(card.Taboo))
		}
		for _, t := range card.Taboo {
			if strings.TrimSpace(t) == "" {
				result.fail("Card %q has a blank forbidden word", card.Word)
			}
		}
		words = append(words, card.Word)
	}
	reportDuplicates(&result, "card deck", words)

	if result.Valid {
		result.info("Cards: %d", len(raw.Cards))
	}
	return result
}

func validateDilemmas(path string) ValidationResult {
	result := newResult(path)

	var raw struct {
		Dilemmas []struct {
			OptionA string `json:"option_a"`
			OptionB string `json:"option_b"`
		} `json:"dilemmas"`
	}
	if err := readJSONFile(path, &raw, &result); err != nil {
		return result
	}
	if len(raw.Dilemmas) == 0 {
		result.fail("Missing or empty \"dilemmas\" array")
		return result
	}
	for i, d := range raw.Dilemmas {
		if strings.TrimSpace(d.OptionA) == "" || strings.TrimSpace(d.OptionB) == "" {
			result.fail("Dilemma %d is missing an option", i+1)
		}
	}

	if result.Valid {
		result.info("Dilemmas: %d", len(raw.Dilemmas))
	}
	return result
}

func validateStatements(path string) ValidationResult {
	result := newResult(path)

	// Answer is decoded as raw JSON so a quoted "true" is caught instead of
	// silently failing the whole file.
	var raw struct {
		Statements []struct {
			Statement   string          `json:"statement"`
			Answer      json.RawMessage `json:"answer"`
			Explanation string          `json:"explanation"`
		} `json:"statements"`
	}
	if err := readJSONFile(path, &raw, &result); err != nil {
		return result
	}
	if len(raw.Statements) == 0 {
		result.fail("Missing or empty \"statements\" array")
		return result
	}

	texts := make([]string, 0, len(raw.Statements))
	for i, s := range raw.Statements {
		if strings.TrimSpace(s.Statement) == "" {
			result.fail("Statement %d is empty", i+1)
			continue
		}
		var answer bool
		if err := json.Unmarshal(s.Answer, &answer); err != nil {
			result.fail("Statement %q: answer must be true or false, got %s", s.Statement, string(s.Answer))
		}
		texts = append(texts, s.Statement)
	}
	reportDuplicates(&result, "statement deck", texts)

	if result.Valid {
		result.info("Statements: %d", len(raw.Statements))
	}
	return result
}

func validateQuestions(path string) ValidationResult {
	result := newResult(path)

	var raw []struct {
		Question string          `json:"question"`
		Answer   json.RawMessage `json:"answer"`
	}
	if err := readJSONFile(path, &raw, &result); err != nil {
		return result
	}
	if len(raw) == 0 {
		result.fail("Empty question list")
		return result
	}

	texts := make([]string, 0, len(raw))
	for i, q := range raw {
		if strings.TrimSpace(q.Question) == "" {
			result.fail("Question %d is empty", i+1)
			continue
		}
		var answer float64
		if err := json.Unmarshal(q.Answer, &answer); err != nil {
			result.fail("Question %q: answer must be numeric, got %s", q.Question, string(q.Answer))
		}
		texts = append(texts, q.Question)
	}
	reportDuplicates(&result, "question list", texts)

	if result.Valid {
		result.info("Questions: %d", len(raw))
	}
	return result
}

// validateSongs checks the CSV catalog: required columns, per-row years, and
// duplicate artist/title pairs within an origin.
func validateSongs(path string) ValidationResult {
	result := newResult(path)

	f, err := os.Open(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		result.fail("Failed to read header: %v", err)
		return result
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"origin", "artist", "title", "year"} {
		if _, ok := col[required]; !ok {
			result.fail("Missing required column %q", required)
		}
	}
	if !result.Valid {
		return result
	}

	field := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	seen := make(map[string]int)
	origins := make(map[string]int)
	rows := 0
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.fail("Row %d: %v", line, err)
			continue
		}
		rows++

		artist, title := field(row, "artist"), field(row, "title")
		if artist == "" || title == "" {
			result.fail("Row %d is missing artist or title", line)
			continue
		}
		if _, err := strconv.Atoi(field(row, "year")); err != nil {
			result.fail("Row %d (%s - %s): year %q is not a number", line, artist, title, field(row, "year"))
		}

		origin := field(row, "origin")
		origins[origin]++
		key := origin + "|" + catalog.Normalize(artist+"|"+title)
		if first, ok := seen[key]; ok {
			result.fail("Row %d duplicates row %d (%s - %s)", line, first, artist, title)
		} else {
			seen[key] = line
		}
	}

	if rows == 0 {
		result.fail("No song rows")
	}
	if result.Valid {
		result.info("Songs: %d", rows)
		result.info("Origins: %d", len(origins))
	}
	return result
}

func readJSONFile(path string, target any, result *ValidationResult) error {
	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		result.fail("Invalid JSON: %v", err)
		return err
	}
	return nil
}

// reportDuplicates flags entries that collide after normalization, so that
// "Café" and "cafe" are caught in review instead of silently deduplicated at
// load time.
func reportDuplicates(result *ValidationResult, where string, entries []string) {
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			result.fail("Blank entry in %s", where)
			continue
		}
		key := catalog.Normalize(entry)
		if first, ok := seen[key]; ok {
			result.fail("Duplicate in %s: %q collides with %q", where, entry, first)
		} else {
			seen[key] = entry
		}
	}
}

// main validates every known data file under the data directory, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	dataDir := flag.String("data", "data", "Directory holding the game data files")
	flag.Parse()

	checks := []struct {
		file     string
		validate func(string) ValidationResult
	}{
		{"hints.json", func(p string) ValidationResult { return validateWordFile(p, "items") }},
		{"pictionary.json", func(p string) ValidationResult { return validateWordFile(p, "items") }},
		{"who_am_i.json", func(p string) ValidationResult { return validateWordFile(p, "persons") }},
		{"thirty_seconds.json", validateTimerWords},
		{"taboo.json", validateTaboo},
		{"this_or_that.json", validateDilemmas},
		{"bluff.json", validateStatements},
		{"estimates.json", validateQuestions},
		{"songs.csv", validateSongs},
	}

	allValid := true
	for _, check := range checks {
		result := check.validate(filepath.Join(*dataDir, check.file))

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All data files are valid!")
	} else {
		fmt.Println("❌ Some data files have errors")
		os.Exit(1)
	}
}
