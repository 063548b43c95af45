package showdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

// Conn is a single websocket connection to a Showdown server. It is
// not safe for concurrent writers; the outbound queue is the single
// writer by contract.
type Conn struct {
	ws *websocket.Conn
}

// Dial opens a websocket connection to the given server URL
// (e.g. wss://sim3.psim.us/showdown/websocket).
func Dial(ctx context.Context, serverURL string) (*Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, serverURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: status %d: %w", serverURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}
	return &Conn{ws: ws}, nil
}

// Receive blocks until the next frame arrives and returns the protocol
// messages it contains. A frame may carry several newline-separated
// messages, optionally prefixed by a ">roomid" line.
func (c *Conn) Receive() ([]Message, error) {
	_, payload, err := c.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}
	return parseFrame(string(payload)), nil
}

// Send writes one outbound frame ("room|text") to the connection.
func (c *Conn) Send(frame string) error {
	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Close closes the underlying websocket.
func (c *Conn) Close() error {
	return c.ws.Close()
}

func parseFrame(payload string) []Message {
	var room string
	lines := strings.Split(payload, "\n")
	var messages []Message
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, ">"):
			room = line[1:]
		case strings.HasPrefix(line, "|"):
			messages = append(messages, parseLine(room, line))
		case line != "":
			// Bare lines are room log text.
			messages = append(messages, Message{Room: room, Rest: line})
		}
	}
	return messages
}

func parseLine(room, line string) Message {
	rest := line[1:]
	command := rest
	if i := strings.Index(rest, "|"); i >= 0 {
		command = rest[:i]
		rest = rest[i+1:]
	} else {
		rest = ""
	}
	return Message{
		Room:    room,
		Command: command,
		Rest:    rest,
		Args:    strings.Split(rest, "|"),
	}
}
