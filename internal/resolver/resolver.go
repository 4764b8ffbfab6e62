package resolver

import (
	"fmt"
	"unicode/utf16"

	"taskdog.app/bot/internal/model"
)

// Resolve derives the task author and the initial participant set from chat
// metadata. It is a pure function: missing data degrades to fallback values,
// never to an error.
//
// A forwarded message is attributed to its original sender (or source
// channel), with the forwarder seeded as the first participant. In group
// chats, mention spans are harvested as participants; a group message with no
// mentions falls back to the chat title as a single synthetic participant.
func Resolve(msg model.IncomingMessage) (string, []string) {
	var author string
	var participants []string

	if msg.Forward != nil {
		author = forwardAuthor(msg.Forward)
		participants = appendParticipant(participants, DisplayName(msg.Sender))
	} else {
		author = DisplayName(msg.Sender)
	}

	if msg.Chat.Kind.IsGroup() {
		for _, mention := range msg.Mentions {
			if mention.User != nil {
				participants = appendParticipant(participants, DisplayName(*mention.User))
				continue
			}
			if literal := mentionText(msg.Text, mention); literal != "" {
				participants = appendParticipant(participants, literal)
			}
		}
		if len(participants) == 0 && msg.Forward == nil && msg.Chat.Title != "" {
			participants = append(participants, msg.Chat.Title)
		}
	}

	return author, participants
}

// DisplayName resolves a user to a human-readable name: username, else first
// name, else a textual "ID:<id>" fallback. Resolution never fails.
func DisplayName(u model.User) string {
	if u.Username != "" {
		return u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return fmt.Sprintf("ID:%d", u.ID)
}

func forwardAuthor(f *model.ForwardOrigin) string {
	switch {
	case f.From != nil:
		return DisplayName(*f.From)
	case f.SenderName != "":
		return f.SenderName
	case f.FromChat != nil:
		if f.FromChat.Title != "" {
			return f.FromChat.Title
		}
		return fmt.Sprintf("ID:%d", f.FromChat.ID)
	}
	return ""
}

// mentionText extracts the literal substring of a mention span. Telegram
// entity offsets count UTF-16 code units, not bytes or runes.
func mentionText(text string, m model.Mention) string {
	units := utf16.Encode([]rune(text))
	if m.Offset < 0 || m.Length <= 0 || m.Offset+m.Length > len(units) {
		return ""
	}
	return string(utf16.Decode(units[m.Offset : m.Offset+m.Length]))
}

func appendParticipant(participants []string, name string) []string {
	if name == "" {
		return participants
	}
	for _, existing := range participants {
		if existing == name {
			return participants
		}
	}
	return append(participants, name)
}
