package cli

import (
	"encoding/json"
	"fmt"
	"os"
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

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case ClickResult:
		o.printClickResult(v)
	case Rankings:
		o.printRankings(v)
	case Users:
		o.printUsers(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ClickResult response type (matches API)
type ClickResult struct {
	Count uint64 `json:"count"`
}

// RankingEntry response type
type RankingEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Count    uint64 `json:"count"`
	Online   bool   `json:"online"`
}

// Rankings response type
type Rankings struct {
	Rankings []RankingEntry `json:"rankings"`
}

// User response type
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Blocked  bool   `json:"blocked"`
	Count    uint64 `json:"count"`
	Online   bool   `json:"online"`
}

// Users response type
type Users struct {
	Users []User `json:"users"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printClickResult(c ClickResult) {
	fmt.Printf("Count: %d\n", c.Count)
}

func (o *Output) printRankings(r Rankings) {
	fmt.Printf("Rankings (%d):\n", len(r.Rankings))
	for i, e := range r.Rankings {
		onlineStr := ""
		if e.Online {
			onlineStr = " [online]"
		}
		fmt.Printf("  %d. %s - %d%s\n", i+1, e.Username, e.Count, onlineStr)
	}
}

func (o *Output) printUsers(u Users) {
	fmt.Printf("Users (%d):\n", len(u.Users))
	for _, user := range u.Users {
		flags := ""
		if user.Blocked {
			flags += " [blocked]"
		}
		if user.Online {
			flags += " [online]"
		}
		fmt.Printf("  - %s (%s) role=%s count=%d%s\n", user.Username, user.ID, user.Role, user.Count, flags)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
