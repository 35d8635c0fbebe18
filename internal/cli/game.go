package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameClickCmd())
	cmd.AddCommand(newGameRankingsCmd())
	cmd.AddCommand(newGameCountCmd())

	return cmd
}

func newGameClickCmd() *cobra.Command {
	var times int

	cmd := &cobra.Command{
		Use:   "click",
		Short: "Increment your click count",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ClickResult

			for i := 0; i < times; i++ {
				if err := client.Post("/api/v1/game/click", nil, &result); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&times, "times", "n", 1, "Number of clicks to send")

	return cmd
}

func newGameRankingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rankings",
		Short: "Show the current leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Rankings

			if err := client.Get("/api/v1/game/rankings", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// newGameCountCmd asks for the current count over the live channel rather
// than the JSON API, exercising the query-count round trip.
func newGameCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Fetch your click count over the live channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dialLiveChannel()
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			query := envelope{Type: "query-count"}
			if err := conn.WriteJSON(query); err != nil {
				return fmt.Errorf("failed to send query: %w", err)
			}

			deadline := time.Now().Add(10 * time.Second)
			_ = conn.SetReadDeadline(deadline)

			// The channel also carries broadcasts; skip until the reply arrives
			for {
				var evt envelope
				if err := conn.ReadJSON(&evt); err != nil {
					return fmt.Errorf("failed to read reply: %w", err)
				}
				if evt.Type != "count-result" {
					continue
				}

				var payload struct {
					Count uint64 `json:"count"`
				}
				if err := json.Unmarshal(evt.Payload, &payload); err != nil {
					return fmt.Errorf("failed to parse reply: %w", err)
				}

				out := NewOutput(cfg.Output)
				out.Print(ClickResult{Count: payload.Count})
				return nil
			}
		},
	}
}

// envelope mirrors the live channel wire format
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// dialLiveChannel opens an authenticated WebSocket connection
func dialLiveChannel() (*websocket.Conn, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("a token is required for the live channel")
	}

	url := httpToWS(cfg.ServerURL) + "/api/v1/game/live?token=" + cfg.Token

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connection refused: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return conn, nil
}

func httpToWS(url string) string {
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	default:
		return "ws://" + url
	}
}
