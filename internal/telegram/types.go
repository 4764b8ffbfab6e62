package telegram

import "taskdog.app/bot/internal/model"

// Update is the Bot API webhook envelope. Only message updates are handled;
// everything else is acknowledged and dropped.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64           `json:"message_id"`
	From      *User           `json:"from"`
	Chat      Chat            `json:"chat"`
	Text      string          `json:"text"`
	Entities  []MessageEntity `json:"entities,omitempty"`

	ForwardFrom       *User  `json:"forward_from,omitempty"`
	ForwardFromChat   *Chat  `json:"forward_from_chat,omitempty"`
	ForwardSenderName string `json:"forward_sender_name,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// MessageEntity is a span of the message text. "text_mention" entities carry
// the resolved user; plain "mention" entities only mark the @username span.
type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	User   *User  `json:"user,omitempty"`
}

const (
	entityMention     = "mention"
	entityTextMention = "text_mention"
)

// ToIncomingMessage maps a Bot API message to the transport-independent form
// the router consumes.
func ToIncomingMessage(msg *Message) model.IncomingMessage {
	out := model.IncomingMessage{
		Chat: toChat(msg.Chat),
		Text: msg.Text,
	}
	if msg.From != nil {
		out.Sender = toUser(*msg.From)
	}

	for _, entity := range msg.Entities {
		if entity.Type != entityMention && entity.Type != entityTextMention {
			continue
		}
		mention := model.Mention{Offset: entity.Offset, Length: entity.Length}
		if entity.User != nil {
			user := toUser(*entity.User)
			mention.User = &user
		}
		out.Mentions = append(out.Mentions, mention)
	}

	if msg.ForwardFrom != nil || msg.ForwardFromChat != nil || msg.ForwardSenderName != "" {
		forward := &model.ForwardOrigin{SenderName: msg.ForwardSenderName}
		if msg.ForwardFrom != nil {
			user := toUser(*msg.ForwardFrom)
			forward.From = &user
		}
		if msg.ForwardFromChat != nil {
			chat := toChat(*msg.ForwardFromChat)
			forward.FromChat = &chat
		}
		out.Forward = forward
	}

	return out
}

func toUser(u User) model.User {
	return model.User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
	}
}

func toChat(c Chat) model.Chat {
	return model.Chat{
		ID:    c.ID,
		Kind:  model.ChatKind(c.Type),
		Title: c.Title,
	}
}
