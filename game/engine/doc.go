// Package engine implements the per-game state machines.
//
// Each game type owns a state struct with small mutating methods. Methods
// validate first and mutate second, so every operation is atomic from the
// caller's perspective: either fully applied or fully rejected. Validation
// failures are sentinel errors the HTTP layer maps to 4xx responses.
//
// Common shape shared by the scoring games:
//   - an ordered roster of 2-6 team names (blanks default to "Team {i+1}")
//   - a winner name that is set the instant a score or position crosses the
//     configured threshold, and blocks further score mutation until undone
//   - an append-only history whose entries capture exactly what one scoring
//     action changed, so undo can reverse it precisely
//   - a revealed flag gating the actions that need the answer to be visible
//
// Randomized draws go through the draw package with the caller's *rand.Rand,
// keeping every machine deterministic under test.
package engine
