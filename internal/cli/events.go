package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream live events from the server",
		Long: `Connect to the live WebSocket channel and stream events in real-time.

Events include:
  - presence-changed: A user connected or disconnected
  - score-changed: A user's click count changed

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// liveEvent is a received event with a local timestamp
type liveEvent struct {
	Time    time.Time       `json:"time"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func streamEvents(jsonOutput bool) error {
	conn, err := dialLiveChannel()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if !jsonOutput {
		fmt.Println("Connected to live channel")
	}

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		<-sigCh
		// A clean close makes the server drop presence immediately
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		close(done)
	}()

	for {
		var evt envelope
		if err := conn.ReadJSON(&evt); err != nil {
			select {
			case <-done:
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printEvent(evt, jsonOutput)
	}
}

func printEvent(evt envelope, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		out := liveEvent{
			Time:    now,
			Event:   evt.Type,
			Payload: evt.Payload,
		}
		jsonData, _ := json.Marshal(out)
		fmt.Println(string(jsonData))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		fmt.Printf("[%s] %s: %s\n", timestamp, evt.Type, string(evt.Payload))
	}
}
