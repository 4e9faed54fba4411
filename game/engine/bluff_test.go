package engine

import (
	"testing"

	"github.com/tvdberg/partyhub/catalog"
)

func testStatements() []catalog.Statement {
	return []catalog.Statement{
		{Statement: "Honey never spoils", Answer: true, Explanation: "Sealed honey keeps indefinitely"},
		{Statement: "Goldfish have a three-second memory", Answer: false, Explanation: "They remember for months"},
		{Statement: "Bananas are berries", Answer: true},
	}
}

func TestBluff_VoteAndReveal(t *testing.T) {
	bl := NewBluff(BluffConfig{NumTeams: 3, Threshold: 5})
	rng := testRand()

	stmt, err := bl.Next(rng, testStatements())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	if err := bl.Vote(0, stmt.Answer); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if err := bl.Vote(1, !stmt.Answer); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	// Team 1 changes its mind before the reveal.
	if err := bl.Vote(1, stmt.Answer); err != nil {
		t.Fatalf("re-vote failed: %v", err)
	}
	if err := bl.Vote(2, !stmt.Answer); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	res, err := bl.Reveal()
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if res.Answer != stmt.Answer {
		t.Error("reveal should carry the statement's answer")
	}
	if len(res.Awarded) != 2 || res.Awarded[0] != 0 || res.Awarded[1] != 1 {
		t.Errorf("expected teams 0 and 1 awarded, got %v", res.Awarded)
	}
	if bl.Scores[0] != 1 || bl.Scores[1] != 1 || bl.Scores[2] != 0 {
		t.Errorf("expected scores [1 1 0], got %v", bl.Scores)
	}

	if err := bl.Vote(2, true); err != ErrAlreadyRevealed {
		t.Errorf("vote after reveal: expected ErrAlreadyRevealed, got %v", err)
	}
}

func TestBluff_VoteValidation(t *testing.T) {
	bl := NewBluff(BluffConfig{NumTeams: 2, Threshold: 5})
	bl.Next(testRand(), testStatements())

	if err := bl.Vote(-1, true); err != ErrInvalidTeam {
		t.Errorf("expected ErrInvalidTeam, got %v", err)
	}
	if err := bl.Vote(2, true); err != ErrInvalidTeam {
		t.Errorf("expected ErrInvalidTeam, got %v", err)
	}
}

func TestBluff_NextClearsRound(t *testing.T) {
	bl := NewBluff(BluffConfig{NumTeams: 2, Threshold: 5})
	rng := testRand()
	deck := testStatements()

	stmt, _ := bl.Next(rng, deck)
	bl.Vote(0, stmt.Answer)
	bl.Reveal()

	if _, err := bl.Next(rng, deck); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if bl.Revealed {
		t.Error("new round should start hidden")
	}
	if len(bl.Votes) != 0 {
		t.Errorf("new round should start without votes, got %v", bl.Votes)
	}
	if bl.RoundNumber != 2 {
		t.Errorf("expected round 2, got %d", bl.RoundNumber)
	}
}

func TestBluff_DeckRecycles(t *testing.T) {
	bl := NewBluff(BluffConfig{NumTeams: 2, Threshold: 30})
	rng := testRand()
	deck := testStatements()

	for i := 0; i < 2*len(deck); i++ {
		if _, err := bl.Next(rng, deck); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
}

func TestBluff_WinnerAndUndo(t *testing.T) {
	bl := NewBluff(BluffConfig{NumTeams: 2, Threshold: 3})
	bl.Scores[0] = 2
	rng := testRand()

	stmt, _ := bl.Next(rng, testStatements())
	bl.Vote(0, stmt.Answer)
	bl.Vote(1, stmt.Answer)

	res, err := bl.Reveal()
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if res.Winner != bl.TeamNames[0] {
		t.Fatalf("expected team 0 to win, got %q", res.Winner)
	}
	if _, err := bl.Next(rng, testStatements()); err != ErrGameFinished {
		t.Errorf("Next after win: expected ErrGameFinished, got %v", err)
	}

	if err := bl.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if bl.Scores[0] != 2 || bl.Scores[1] != 0 {
		t.Errorf("undo should take back exactly the awarded points, got %v", bl.Scores)
	}
	if bl.Winner != "" {
		t.Errorf("expected winner cleared, got %q", bl.Winner)
	}

	if err := bl.Undo(); err != ErrNothingToUndo {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestBluff_RevealWithoutStatement(t *testing.T) {
	bl := NewBluff(BluffConfig{NumTeams: 2, Threshold: 5})
	if _, err := bl.Reveal(); err != ErrNoCurrentItem {
		t.Errorf("expected ErrNoCurrentItem, got %v", err)
	}
}
