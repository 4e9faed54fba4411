package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errEmptyPool marks the exhaustion response so handlers can word it as a
// friendly message instead of an error.
var errEmptyPool = fmt.Errorf("empty pool")

// Client is a thin MCP client that proxies to the REST API. The cookie jar
// carries the session identity across tool calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Party Hub",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Party Hub - MCP Interface

This is a thin client that proxies all requests to the REST API server.
Your session (and therefore the running games) is carried in a cookie, so
consecutive tool calls act on the same party.

AVAILABLE TOOLS:
- list_categories: List the word categories of a game
- start_words: Start a word-reveal game (hints or pictionary)
- next_word: Draw the next word
- reset_words: Make all words of the current selection drawable again
- start_guess_year: Start the year-guessing game
- guess_year_state: Current scores, timelines, and round
- next_song: Draw the next hidden song
- reveal_song: Reveal the current song's answer
- award_point: Award the current round to a team
- undo_award: Take the last award back`),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_categories",
		Description: "List the word categories available for a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"hints", "pictionary"},
					"description": "Game to list categories for",
				},
			},
			Required: []string{"game"},
		},
	}, c.handleListCategories)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_words",
		Description: "Start a word-reveal game with a category selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"hints", "pictionary"},
					"description": "Game to start",
				},
				"categories": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Category names, or [\"all\"]",
				},
			},
			Required: []string{"game", "categories"},
		},
	}, c.handleStartWords)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_word",
		Description: "Draw the next word of the running word-reveal game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleNextWord)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_words",
		Description: "Make every word of the current selection drawable again",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleResetWords)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_guess_year",
		Description: "Start the year-guessing game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"num_teams": map[string]interface{}{
					"type":        "integer",
					"description": "Number of teams (2-6)",
				},
				"threshold": map[string]interface{}{
					"type":        "integer",
					"description": "Points needed to win",
				},
				"difficulty": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"easy", "normal", "hard"},
					"description": "Pool difficulty",
				},
				"origins": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Song chart origins, or [\"all\"]",
				},
			},
			Required: []string{"num_teams", "threshold", "origins"},
		},
	}, c.handleStartGuessYear)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "guess_year_state",
		Description: "Get the year-guessing game's scores, timelines, and round",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGuessYearState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_song",
		Description: "Draw the next hidden song",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleNextSong)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal_song",
		Description: "Reveal the current song's artist, title, and year",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRevealSong)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "award_point",
		Description: "Award the current round to a team",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"team": map[string]interface{}{
					"type":        "integer",
					"description": "Team index (0-based)",
				},
			},
			Required: []string{"team"},
		},
	}, c.handleAwardPoint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo_award",
		Description: "Take the most recent award back",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleUndoAward)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent && resp.Header.Get("X-Empty-Pool") == "true" {
		return errEmptyPool
	}
	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	game, _ := args["game"].(string)

	var response struct {
		Categories []struct {
			Name  string `json:"name"`
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"categories"`
	}
	if err := c.apiCall("GET", "/api/categories?game="+game, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Categories for %s:\n\n", game)
	for _, cat := range response.Categories {
		fmt.Fprintf(&b, "- %s (%s, %d words)\n", cat.Name, cat.Label, cat.Count)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleStartWords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	game, _ := args["game"].(string)
	categories := stringArray(args["categories"])

	var response struct {
		Game       string   `json:"game"`
		Categories []string `json:"categories"`
	}
	err := c.apiCall("POST", "/api/start", map[string]interface{}{
		"game":       game,
		"categories": categories,
	}, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Started %s with categories: %s", response.Game, strings.Join(response.Categories, ", "))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleNextWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Word      string `json:"word"`
		Category  string `json:"category"`
		Remaining int    `json:"remaining"`
	}
	err := c.apiCall("POST", "/api/next", nil, &response)
	if err == errEmptyPool {
		return mcp.NewToolResultText("Every word has been played. Use reset_words to start over."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Word: %s", response.Word)
	if response.Category != "" {
		result += fmt.Sprintf(" (category: %s)", response.Category)
	}
	result += fmt.Sprintf("\nRemaining: %d", response.Remaining)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleResetWords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := c.apiCall("POST", "/api/reset_used", nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Word pool reset."), nil
}

func (c *Client) handleStartGuessYear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	numTeams, _ := args["num_teams"].(float64)
	threshold, _ := args["threshold"].(float64)
	difficulty, _ := args["difficulty"].(string)

	var state guessYearState
	err := c.apiCall("POST", "/api/gty/start", map[string]interface{}{
		"num_teams":  int(numTeams),
		"threshold":  int(threshold),
		"difficulty": difficulty,
		"origins":    stringArray(args["origins"]),
	}, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Game started.\n\n" + formatGuessYearState(&state)), nil
}

func (c *Client) handleGuessYearState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state guessYearState
	if err := c.apiCall("GET", "/api/gty/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGuessYearState(&state)), nil
}

func (c *Client) handleNextSong(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Round int `json:"round"`
		Song  struct {
			QRFile      string `json:"qr_file"`
			YoutubeLink string `json:"youtube_link"`
			SpotifyLink string `json:"spotify_link"`
		} `json:"song"`
	}
	err := c.apiCall("POST", "/api/gty/next", nil, &response)
	if err == errEmptyPool {
		return mcp.NewToolResultText("Every song has been played."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Round %d. Play the hidden song:\n", response.Round)
	if response.Song.SpotifyLink != "" {
		fmt.Fprintf(&b, "- Spotify: %s\n", response.Song.SpotifyLink)
	}
	if response.Song.YoutubeLink != "" {
		fmt.Fprintf(&b, "- YouTube: %s\n", response.Song.YoutubeLink)
	}
	if response.Song.QRFile != "" {
		fmt.Fprintf(&b, "- QR: /qr/%s\n", response.Song.QRFile)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleRevealSong(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Song struct {
			Artist string `json:"artist"`
			Title  string `json:"title"`
			Year   int    `json:"year"`
		} `json:"song"`
	}
	if err := c.apiCall("POST", "/api/gty/reveal", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s - %s (%d)", response.Song.Artist, response.Song.Title, response.Song.Year)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAwardPoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	team, _ := args["team"].(float64)

	var response struct {
		Scores []int  `json:"scores"`
		Winner string `json:"winner"`
	}
	err := c.apiCall("POST", "/api/gty/award", map[string]interface{}{"team": int(team)}, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Scores: %v", response.Scores)
	if response.Winner != "" {
		result += fmt.Sprintf("\nWinner: %s", response.Winner)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleUndoAward(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state guessYearState
	if err := c.apiCall("POST", "/api/gty/undo", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Award undone.\n\n" + formatGuessYearState(&state)), nil
}

// Formatting

type guessYearState struct {
	TeamNames []string `json:"team_names"`
	Scores    []int    `json:"scores"`
	TeamYears [][]int  `json:"team_years"`
	Jetons    []int    `json:"jetons"`
	Threshold int      `json:"threshold"`
	Round     int      `json:"round"`
	Revealed  bool     `json:"revealed"`
	Winner    string   `json:"winner"`
}

func formatGuessYearState(state *guessYearState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round %d, playing to %d points.\n", state.Round, state.Threshold)
	for i, name := range state.TeamNames {
		fmt.Fprintf(&b, "- %s: %d points", name, state.Scores[i])
		if i < len(state.Jetons) && state.Jetons[i] > 0 {
			fmt.Fprintf(&b, ", %d jetons", state.Jetons[i])
		}
		if i < len(state.TeamYears) && len(state.TeamYears[i]) > 0 {
			fmt.Fprintf(&b, ", timeline %v", state.TeamYears[i])
		}
		b.WriteString("\n")
	}
	if state.Winner != "" {
		fmt.Fprintf(&b, "Winner: %s\n", state.Winner)
	}
	return b.String()
}

func stringArray(raw interface{}) []string {
	items, _ := raw.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
