package model

// MessageKind discriminates the OutboundMessage union.
type MessageKind int

const (
	// KindGlobalCommand is a command addressed to the server itself
	// (e.g. /away, /join room).
	KindGlobalCommand MessageKind = iota
	// KindRoomCommand is a command executed in a specific room
	// (e.g. /addhtmlbox).
	KindRoomCommand
	// KindChat is a plain chat line in a room.
	KindChat
)

// OutboundMessage is one message to deliver over the persistent
// connection. Immutable once created.
type OutboundMessage struct {
	Kind MessageKind
	Room string
	Text string
}

// GlobalCommand builds a server-level command message. The leading
// slash is added on the wire.
func GlobalCommand(command string) OutboundMessage {
	return OutboundMessage{Kind: KindGlobalCommand, Text: command}
}

// RoomCommand builds a command message scoped to a room.
func RoomCommand(room, command string) OutboundMessage {
	return OutboundMessage{Kind: KindRoomCommand, Room: room, Text: command}
}

// Chat builds a plain chat message for a room.
func Chat(room, text string) OutboundMessage {
	return OutboundMessage{Kind: KindChat, Room: room, Text: text}
}

// Wire renders the message in the Showdown client frame format:
// "room|text" where an empty room addresses the global context and a
// leading slash marks a command.
func (m OutboundMessage) Wire() string {
	switch m.Kind {
	case KindGlobalCommand:
		return "|/" + m.Text
	case KindRoomCommand:
		return m.Room + "|/" + m.Text
	default:
		return m.Room + "|" + m.Text
	}
}
