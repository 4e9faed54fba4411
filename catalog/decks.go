package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// TabooCard is a word to describe plus the words the describer may not say.
type TabooCard struct {
	Word  string   `json:"word"`
	Taboo []string `json:"taboo"`
}

// Dilemma is a this-or-that choice.
type Dilemma struct {
	OptionA string `json:"option_a"`
	OptionB string `json:"option_b"`
}

// Statement is a bluff statement with its true/false answer.
type Statement struct {
	Statement   string `json:"statement"`
	Answer      bool   `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// Question is a numeric estimation question.
type Question struct {
	Question string  `json:"question"`
	Answer   float64 `json:"answer"`
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadTimerWords loads the flat word list used by the turn-timer game,
// deduplicated case-insensitively.
func LoadTimerWords(path string) ([]string, error) {
	var raw struct {
		Words []string `json:"words"`
	}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	words := dedupNormalized(raw.Words)
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: empty word list", path)
	}
	return words, nil
}

// LoadTabooCards loads the taboo card deck.
func LoadTabooCards(path string) ([]TabooCard, error) {
	var raw struct {
		Cards []TabooCard `json:"cards"`
	}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if len(raw.Cards) == 0 {
		return nil, fmt.Errorf("%s: empty card deck", path)
	}
	for i, card := range raw.Cards {
		if card.Word == "" || len(card.Taboo) == 0 {
			return nil, fmt.Errorf("%s: card %d is missing its word or taboo list", path, i)
		}
	}
	return raw.Cards, nil
}

// LoadDilemmas loads the this-or-that deck.
func LoadDilemmas(path string) ([]Dilemma, error) {
	var raw struct {
		Dilemmas []Dilemma `json:"dilemmas"`
	}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if len(raw.Dilemmas) == 0 {
		return nil, fmt.Errorf("%s: empty dilemma deck", path)
	}
	return raw.Dilemmas, nil
}

// LoadStatements loads the bluff statement deck.
func LoadStatements(path string) ([]Statement, error) {
	var raw struct {
		Statements []Statement `json:"statements"`
	}
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if len(raw.Statements) == 0 {
		return nil, fmt.Errorf("%s: empty statement deck", path)
	}
	for i, s := range raw.Statements {
		if s.Statement == "" {
			return nil, fmt.Errorf("%s: statement %d is empty", path, i)
		}
	}
	return raw.Statements, nil
}

// LoadQuestions loads the estimation question deck.
func LoadQuestions(path string) ([]Question, error) {
	var questions []Question
	if err := readJSON(path, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s: empty question deck", path)
	}
	for i, q := range questions {
		if q.Question == "" {
			return nil, fmt.Errorf("%s: question %d is empty", path, i)
		}
	}
	return questions, nil
}
