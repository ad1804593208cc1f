package model

// EventKind discriminates the two inbound event shapes.
type EventKind int

const (
	EventText EventKind = iota
	EventCallback
)

// Reserved callback payload literals.
const (
	PayloadCart = "Cart"
	PayloadBack = "Back"
)

// StartCommand forces the dialog back to StateStart regardless of what is
// stored for the session.
const StartCommand = "/start"

// Event is one inbound transport notification: either a plain text message
// or a button-click callback. Exactly one shape is produced per update;
// use the constructors.
type Event struct {
	Kind   EventKind
	ChatID int64

	// Text is set for EventText.
	Text string

	// Payload is the opaque callback token for EventCallback. MessageID is
	// the message carrying the pressed button, kept so handlers can delete
	// or edit it.
	Payload   string
	MessageID int
}

func NewTextEvent(chatID int64, text string) Event {
	return Event{Kind: EventText, ChatID: chatID, Text: text}
}

func NewCallbackEvent(chatID int64, messageID int, payload string) Event {
	return Event{Kind: EventCallback, ChatID: chatID, MessageID: messageID, Payload: payload}
}

func (e Event) IsStartCommand() bool {
	return e.Kind == EventText && e.Text == StartCommand
}
