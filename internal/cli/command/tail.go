package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/docmesh-go/internal/realtime"
)

// TailCommand returns the tail command, which joins a document's room
// over the realtime endpoint and prints the traffic it observes.
func TailCommand() *cli.Command {
	return &cli.Command{
		Name:      "tail",
		Usage:     "Follow a document's live editing session",
		ArgsUsage: "DOCUMENT_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ws-path",
				Usage: "Websocket endpoint path on the server",
				Value: "/ws",
			},
		},
		Action: tailDocument,
	}
}

func tailDocument(c *cli.Context) error {
	docID := c.Args().First()
	if docID == "" {
		return errors.New("document ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	url := newHTTPClient(c).WSBaseURL() + c.String("ws-path")

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer conn.Close()

	// Close the connection when interrupted so the read loop unblocks.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	join, err := realtime.Encode(realtime.Message{
		Type:       realtime.TypeRequestDocument,
		DocumentID: docID,
	})
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	w := c.App.Writer
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		var msg realtime.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			fmt.Fprintf(w, "%s unparseable frame (%d bytes)\n", timestamp(), len(data))
			continue
		}

		switch msg.Type {
		case realtime.TypeDocumentLoaded:
			fmt.Fprintf(w, "%s joined %s (%d bytes of content)\n", timestamp(), msg.DocumentID, len(msg.Content))
		case realtime.TypeEditOperation:
			fmt.Fprintf(w, "%s edit %s\n", timestamp(), compactPayload(msg.Payload))
		case realtime.TypeError:
			fmt.Fprintf(w, "%s server error [%s] %s\n", timestamp(), msg.Code, msg.Reason)
		default:
			fmt.Fprintf(w, "%s %s frame\n", timestamp(), msg.Type)
		}
	}
}

func timestamp() string {
	return time.Now().Format("15:04:05.000")
}

// compactPayload renders an opaque edit payload on one line, truncated
// so a busy session stays readable.
func compactPayload(payload json.RawMessage) string {
	const maxLen = 120

	s := string(payload)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
