package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Profile:
		o.printProfile(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case MatchResult:
		o.printMatchResult(v)
	case Tower:
		o.printTower(v)
	case TowerList:
		o.printTowerList(v)
	case Inventory:
		o.printInventory(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Rating   int      `json:"rating"`
	Level    int      `json:"level"`
	Roles    []string `json:"roles"`
}

// AuthResult combines the player with issued tokens
type AuthResult struct {
	Player       Player    `json:"player"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Profile response type
type Profile struct {
	PlayerID     int64     `json:"player_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Level        int       `json:"level"`
	Experience   int       `json:"experience"`
	Rating       int       `json:"rating"`
	TotalMatches int       `json:"total_matches"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	PlayerID     int64  `json:"player_id"`
	Username     string `json:"username"`
	Rating       int    `json:"rating"`
	TotalMatches int    `json:"total_matches"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// Leaderboard response type
type Leaderboard []LeaderboardEntry

// MatchResult response type
type MatchResult struct {
	WinnerID     int64 `json:"winner_id"`
	LoserID      int64 `json:"loser_id"`
	WinnerRating int   `json:"winner_rating"`
	LoserRating  int   `json:"loser_rating"`
}

// Tower response type
type Tower struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TowerList response type
type TowerList []Tower

// InventoryEntry response type
type InventoryEntry struct {
	TowerID     int64  `json:"tower_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Inventory response type
type Inventory []InventoryEntry

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%d)\n", p.Username, p.ID)
	fmt.Printf("Email: %s\n", p.Email)
	fmt.Printf("Rating: %d\n", p.Rating)
	fmt.Printf("Level: %d\n", p.Level)
	fmt.Printf("Roles: %s\n", strings.Join(p.Roles, ", "))
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Access Token: %s\n", a.AccessToken)
	fmt.Printf("Refresh Token: %s\n", a.RefreshToken)
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printProfile(p Profile) {
	fmt.Printf("Player: %s (%d)\n", p.Username, p.PlayerID)
	fmt.Printf("Email: %s\n", p.Email)
	if p.AvatarURL != "" {
		fmt.Printf("Avatar: %s\n", p.AvatarURL)
	}
	fmt.Printf("Level: %d (%d xp)\n", p.Level, p.Experience)
	fmt.Printf("Rating: %d\n", p.Rating)
	fmt.Printf("Record: %d wins, %d losses (%d matches)\n", p.Wins, p.Losses, p.TotalMatches)
	fmt.Printf("Roles: %s\n", strings.Join(p.Roles, ", "))
	fmt.Printf("Joined: %s\n", p.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printLeaderboard(entries Leaderboard) {
	if len(entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}

	fmt.Printf("%-5s %-20s %-7s %-8s %-5s %-6s\n", "Rank", "Player", "Rating", "Matches", "Wins", "Losses")
	for _, e := range entries {
		fmt.Printf("%-5d %-20s %-7d %-8d %-5d %-6d\n",
			e.Rank, e.Username, e.Rating, e.TotalMatches, e.Wins, e.Losses)
	}
}

func (o *Output) printMatchResult(m MatchResult) {
	fmt.Printf("Winner: %d (rating %d)\n", m.WinnerID, m.WinnerRating)
	fmt.Printf("Loser: %d (rating %d)\n", m.LoserID, m.LoserRating)
}

func (o *Output) printTower(t Tower) {
	fmt.Printf("Tower: %s (%d)\n", t.Name, t.ID)
	if t.Description != "" {
		fmt.Printf("Description: %s\n", t.Description)
	}
}

func (o *Output) printTowerList(towers TowerList) {
	if len(towers) == 0 {
		fmt.Println("Catalog is empty")
		return
	}

	for _, t := range towers {
		fmt.Printf("%-5d %-20s %s\n", t.ID, t.Name, t.Description)
	}
}

func (o *Output) printInventory(items Inventory) {
	if len(items) == 0 {
		fmt.Println("Inventory is empty")
		return
	}

	fmt.Printf("%-5s %-20s %-8s\n", "ID", "Tower", "Quantity")
	for _, i := range items {
		fmt.Printf("%-5d %-20s %-8d\n", i.TowerID, i.Name, i.Quantity)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
