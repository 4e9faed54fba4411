package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func hasError(result ValidationResult, fragment string) bool {
	for _, err := range result.Errors {
		if strings.Contains(err, fragment) {
			return true
		}
	}
	return false
}

func TestValidateWordFile_Valid(t *testing.T) {
	path := writeTemp(t, "hints.json", `{
		"categories": {
			"animals": {"items": ["olifant", "giraffe", "pinguïn"]},
			"movies": {"label": "Films", "items": ["Titanic", "Jaws"]}
		}
	}`)

	result := validateWordFile(path, "items")
	if !result.Valid {
		t.Errorf("Expected valid word file, got errors: %v", result.Errors)
	}
	if result.File != "hints.json" {
		t.Errorf("Expected file name hints.json, got %s", result.File)
	}
}

func TestValidateWordFile_EmptyCategory(t *testing.T) {
	path := writeTemp(t, "hints.json", `{
		"categories": {"animals": {"items": []}}
	}`)

	result := validateWordFile(path, "items")
	if result.Valid {
		t.Error("Expected invalid result for empty category")
	}
	if !hasError(result, "has no items") {
		t.Errorf("Expected empty-category error, got: %v", result.Errors)
	}
}

func TestValidateWordFile_DuplicateAfterNormalization(t *testing.T) {
	path := writeTemp(t, "hints.json", `{
		"categories": {"animals": {"items": ["Café", "cafe"]}}
	}`)

	result := validateWordFile(path, "items")
	if result.Valid {
		t.Error("Expected invalid result for normalized duplicate")
	}
	if !hasError(result, "Duplicate") {
		t.Errorf("Expected duplicate error, got: %v", result.Errors)
	}
}

func TestValidateWordFile_InvalidJSON(t *testing.T) {
	path := writeTemp(t, "hints.json", `{"categories": not json}`)

	result := validateWordFile(path, "items")
	if result.Valid {
		t.Error("Expected invalid result for bad JSON")
	}
	if !hasError(result, "Invalid JSON") {
		t.Errorf("Expected 'Invalid JSON' error, got: %v", result.Errors)
	}
}

func TestValidateWordFile_MissingFile(t *testing.T) {
	result := validateWordFile("/non/existent/file.json", "items")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasError(result, "Failed to read file") {
		t.Errorf("Expected read error, got: %v", result.Errors)
	}
}

func TestValidateTaboo_CardCounts(t *testing.T) {
	path := writeTemp(t, "taboo.json", `{
		"cards": [
			{"word": "strand", "taboo": ["zee", "zand", "zon", "water", "vakantie"]},
			{"word": "fiets", "taboo": ["wiel", "trappen"]}
		]
	}`)

	result := validateTaboo(path)
	if result.Valid {
		t.Error("Expected invalid result for card with 2 forbidden words")
	}
	if !hasError(result, "exactly 5 forbidden words") {
		t.Errorf("Expected forbidden-word count error, got: %v", result.Errors)
	}
}

func TestValidateTaboo_Valid(t *testing.T) {
	path := writeTemp(t, "taboo.json", `{
		"cards": [{"word": "strand", "taboo": ["zee", "zand", "zon", "water", "vakantie"]}]
	}`)

	result := validateTaboo(path)
	if !result.Valid {
		t.Errorf("Expected valid taboo deck, got errors: %v", result.Errors)
	}
}

func TestValidateStatements_NonBooleanAnswer(t *testing.T) {
	path := writeTemp(t, "bluff.json", `{
		"statements": [
			{"statement": "Honing bederft nooit", "answer": true},
			{"statement": "Goudvissen hebben een geheugen van 3 seconden", "answer": "false"}
		]
	}`)

	result := validateStatements(path)
	if result.Valid {
		t.Error("Expected invalid result for quoted boolean")
	}
	if !hasError(result, "must be true or false") {
		t.Errorf("Expected boolean error, got: %v", result.Errors)
	}
}

func TestValidateQuestions_NonNumericAnswer(t *testing.T) {
	path := writeTemp(t, "estimates.json", `[
		{"question": "Hoeveel toetsen heeft een piano?", "answer": 88},
		{"question": "Hoe lang is de Nijl in km?", "answer": "6650"}
	]`)

	result := validateQuestions(path)
	if result.Valid {
		t.Error("Expected invalid result for quoted number")
	}
	if !hasError(result, "must be numeric") {
		t.Errorf("Expected numeric error, got: %v", result.Errors)
	}
}

func TestValidateDilemmas_MissingOption(t *testing.T) {
	path := writeTemp(t, "this_or_that.json", `{
		"dilemmas": [{"option_a": "Koffie", "option_b": ""}]
	}`)

	result := validateDilemmas(path)
	if result.Valid {
		t.Error("Expected invalid result for missing option")
	}
	if !hasError(result, "missing an option") {
		t.Errorf("Expected missing-option error, got: %v", result.Errors)
	}
}

func TestValidateSongs_Valid(t *testing.T) {
	path := writeTemp(t, "songs.csv",
		"origin,artist,title,year,position,youtube_link,spotify_link\n"+
			"top2000,Queen,Bohemian Rhapsody,1975,1,https://youtu.be/x,https://open.spotify.com/track/x\n"+
			"top2000,Eagles,Hotel California,1977,2,,\n")

	result := validateSongs(path)
	if !result.Valid {
		t.Errorf("Expected valid song catalog, got errors: %v", result.Errors)
	}
}

func TestValidateSongs_MissingColumn(t *testing.T) {
	path := writeTemp(t, "songs.csv",
		"artist,title,position\nQueen,Bohemian Rhapsody,1\n")

	result := validateSongs(path)
	if result.Valid {
		t.Error("Expected invalid result for missing columns")
	}
	if !hasError(result, `Missing required column "origin"`) {
		t.Errorf("Expected missing-column error, got: %v", result.Errors)
	}
}

func TestValidateSongs_BadYearAndDuplicate(t *testing.T) {
	path := writeTemp(t, "songs.csv",
		"origin,artist,title,year\n"+
			"top2000,Queen,Bohemian Rhapsody,1975\n"+
			"top2000,QUEEN,bohemian rhapsody,1975\n"+
			"top2000,Eagles,Hotel California,negentienzevenzeventig\n")

	result := validateSongs(path)
	if result.Valid {
		t.Error("Expected invalid result")
	}
	if !hasError(result, "duplicates row") {
		t.Errorf("Expected duplicate error, got: %v", result.Errors)
	}
	if !hasError(result, "is not a number") {
		t.Errorf("Expected year error, got: %v", result.Errors)
	}
}

func TestValidateTimerWords_Empty(t *testing.T) {
	path := writeTemp(t, "thirty_seconds.json", `{"words": []}`)

	result := validateTimerWords(path)
	if result.Valid {
		t.Error("Expected invalid result for empty word list")
	}
}
