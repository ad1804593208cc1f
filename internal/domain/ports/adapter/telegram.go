package adapter

import "context"

// Button is one selectable entry of an inline keyboard. Data is the opaque
// callback token delivered back when the button is pressed.
type Button struct {
	Text string
	Data string
}

type SendMessageParams struct {
	ChatID   int64
	Text     string
	Keyboard [][]Button
}

type SendPhotoParams struct {
	ChatID   int64
	PhotoURL string
	Caption  string
	Keyboard [][]Button
}

// Bot is the outbound transport port. The dialog layer renders through it
// and never builds transport payloads itself beyond button labels and
// callback tokens.
type Bot interface {
	SendMessage(ctx context.Context, p SendMessageParams) error
	SendPhoto(ctx context.Context, p SendPhotoParams) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard [][]Button) error
}
