package model

type ChatKind string

const (
	ChatKindPrivate    ChatKind = "private"
	ChatKindGroup      ChatKind = "group"
	ChatKindSupergroup ChatKind = "supergroup"
	ChatKindChannel    ChatKind = "channel"
)

func (k ChatKind) IsGroup() bool {
	return k == ChatKindGroup || k == ChatKindSupergroup
}

type User struct {
	ID        int64
	Username  string
	FirstName string
}

type Chat struct {
	ID    int64
	Kind  ChatKind
	Title string
}

// Mention is one mention span of the message text. User is set for spans the
// platform resolved to an account; plain @username spans carry no user and
// only the literal substring is known.
type Mention struct {
	Offset int
	Length int
	User   *User
}

// ForwardOrigin describes where a forwarded message originally came from.
// Exactly one of From, SenderName or FromChat is expected to be set: a visible
// sender, a hidden sender's display name, or a source channel.
type ForwardOrigin struct {
	From       *User
	SenderName string
	FromChat   *Chat
}

// IncomingMessage is the transport-independent view of one chat message.
// Transient; never persisted.
type IncomingMessage struct {
	Chat     Chat
	Sender   User
	Text     string
	Mentions []Mention
	Forward  *ForwardOrigin
}
