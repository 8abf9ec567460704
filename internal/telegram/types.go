// Package telegram owns the single MTProto connection and the data model
// the rest of tgd sees. Backend-library shapes never leave this package:
// every result is mapped field by field into the types below.
package telegram

// Profile identifies the authorized account.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// MediaKind classifies message media. Voice is distinguished from audio
// by the voice flag on the audio attribute, never by file extension.
type MediaKind string

const (
	MediaPhoto    MediaKind = "photo"
	MediaDocument MediaKind = "document"
	MediaVoice    MediaKind = "voice"
	MediaAudio    MediaKind = "audio"
	MediaOther    MediaKind = "other"
)

// Message is one user-visible message. Service events and empty
// placeholders are filtered out before this type is ever built.
type Message struct {
	ID        int       `json:"id"`
	Date      string    `json:"date,omitempty"`
	Text      string    `json:"text"`
	FromID    int64     `json:"from_id,omitempty"`
	HasMedia  bool      `json:"has_media"`
	MediaType MediaKind `json:"media_type,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
}

// DialogKind classifies a conversation.
type DialogKind string

const (
	DialogUser       DialogKind = "user"
	DialogGroup      DialogKind = "group"
	DialogSupergroup DialogKind = "supergroup"
	DialogChannel    DialogKind = "channel"
)

// Dialog is a transient conversation summary, fetched on demand and
// never persisted.
type Dialog struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Kind        DialogKind `json:"type"`
	Username    string     `json:"username,omitempty"`
	UnreadCount int        `json:"unread_count"`
}

// SendResult reports where a sent message landed.
type SendResult struct {
	MessageID int   `json:"message_id"`
	ChatID    int64 `json:"chat_id"`
}
