package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultColor is used for categories that do not declare one.
const DefaultColor = "#4F46E5"

// Meta is display metadata attached to a category.
type Meta struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type rawWordFile struct {
	Categories map[string]rawCategory `json:"categories"`
}

type rawCategory struct {
	Label   string   `json:"label"`
	Color   string   `json:"color"`
	Items   []string `json:"items"`
	Persons []string `json:"persons"`
}

func readWordFile(path string) (*rawWordFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("word list %s: %w", path, err)
	}
	var raw rawWordFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("word list %s: %w", path, err)
	}
	if raw.Categories == nil {
		return nil, fmt.Errorf("word list %s: missing \"categories\" object", path)
	}
	return &raw, nil
}

// LoadWordLists loads a categorized word list JSON and returns the items per
// category, deduplicated by normalized key with first-seen order preserved.
func LoadWordLists(path string) (map[string][]string, error) {
	raw, err := readWordFile(path)
	if err != nil {
		return nil, err
	}
	categories := make(map[string][]string, len(raw.Categories))
	for name, info := range raw.Categories {
		if info.Items == nil {
			return nil, fmt.Errorf("word list %s: category %q is missing an \"items\" array", path, name)
		}
		categories[name] = dedupNormalized(info.Items)
	}
	return categories, nil
}

// LoadMeta loads label/color metadata per category from the same file
// format, applying defaults for absent fields.
func LoadMeta(path string) (map[string]Meta, error) {
	raw, err := readWordFile(path)
	if err != nil {
		return nil, err
	}
	meta := make(map[string]Meta, len(raw.Categories))
	for name, info := range raw.Categories {
		m := Meta{Label: info.Label, Color: info.Color}
		if m.Label == "" {
			m.Label = TitleLabel(name)
		}
		if m.Color == "" {
			m.Color = DefaultColor
		}
		meta[name] = m
	}
	return meta, nil
}

// LoadPersons loads the who-am-I person lists per category, plus the
// category labels.
func LoadPersons(path string) (map[string][]string, map[string]string, error) {
	raw, err := readWordFile(path)
	if err != nil {
		return nil, nil, err
	}
	persons := make(map[string][]string, len(raw.Categories))
	labels := make(map[string]string, len(raw.Categories))
	for name, info := range raw.Categories {
		persons[name] = dedupNormalized(info.Persons)
		if info.Label != "" {
			labels[name] = info.Label
		} else {
			labels[name] = TitleLabel(name)
		}
	}
	return persons, labels, nil
}

// wordToCategory builds a reverse index from normalized item to its category
// name, used to attach category metadata to drawn words.
func wordToCategory(categories map[string][]string) map[string]string {
	index := make(map[string]string)
	for cat, items := range categories {
		for _, item := range items {
			index[Normalize(item)] = cat
		}
	}
	return index
}

// dedupNormalized trims items, drops empties, and keeps the first occurrence
// of each normalized key.
func dedupNormalized(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	unique := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := Normalize(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}
