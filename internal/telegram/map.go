package telegram

import (
	"strings"
	"time"

	tg "github.com/amarnathcjd/gogram/telegram"
)

// messageFromRaw converts one raw history entry into the local model.
// The second return is false for service events and empty placeholders,
// which are not user content and must not appear in results.
func messageFromRaw(raw tg.Message) (Message, bool) {
	m, ok := raw.(*tg.MessageObj)
	if !ok {
		// MessageService, MessageEmpty
		return Message{}, false
	}

	msg := Message{
		ID:   int(m.ID),
		Text: m.Message,
		Date: time.Unix(int64(m.Date), 0).UTC().Format(time.RFC3339),
	}
	if from, ok := m.FromID.(*tg.PeerUser); ok {
		msg.FromID = from.UserID
	}
	if m.Media != nil {
		msg.HasMedia = true
		msg.MediaType, msg.FileName = classifyMedia(m.Media)
	}
	return msg, true
}

// messagesFromRaw maps a raw history batch, dropping the entries
// messageFromRaw rejects.
func messagesFromRaw(raw []tg.Message) []Message {
	out := make([]Message, 0, len(raw))
	for _, r := range raw {
		if msg, ok := messageFromRaw(r); ok {
			out = append(out, msg)
		}
	}
	return out
}

// classifyMedia maps a raw media descriptor to a MediaKind and optional
// filename. Voice is decided by the voice flag on the audio attribute.
func classifyMedia(media tg.MessageMedia) (MediaKind, string) {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		return MediaPhoto, ""
	case *tg.MessageMediaDocument:
		kind := MediaDocument
		name := ""
		if doc, ok := m.Document.(*tg.DocumentObj); ok {
			for _, attr := range doc.Attributes {
				switch a := attr.(type) {
				case *tg.DocumentAttributeFilename:
					name = a.FileName
				case *tg.DocumentAttributeAudio:
					if a.Voice {
						kind = MediaVoice
					} else {
						kind = MediaAudio
					}
				}
			}
		}
		return kind, name
	default:
		return MediaOther, ""
	}
}

// dialogsFromRaw joins raw dialog entries with their user/chat entities,
// preserving backend recency order.
func dialogsFromRaw(dialogs []tg.Dialog, users []tg.User, chats []tg.Chat) []Dialog {
	userByID := make(map[int64]*tg.UserObj, len(users))
	for _, u := range users {
		if user, ok := u.(*tg.UserObj); ok {
			userByID[user.ID] = user
		}
	}
	chatByID := make(map[int64]tg.Chat, len(chats))
	for _, c := range chats {
		switch chat := c.(type) {
		case *tg.ChatObj:
			chatByID[chat.ID] = chat
		case *tg.Channel:
			chatByID[chat.ID] = chat
		}
	}

	out := make([]Dialog, 0, len(dialogs))
	for _, d := range dialogs {
		dlg, ok := d.(*tg.DialogObj)
		if !ok {
			continue
		}

		var entry Dialog
		switch peer := dlg.Peer.(type) {
		case *tg.PeerUser:
			user, ok := userByID[peer.UserID]
			if !ok {
				continue
			}
			entry = Dialog{
				ID:       user.ID,
				Name:     displayName(user.FirstName, user.LastName),
				Kind:     DialogUser,
				Username: user.Username,
			}
		case *tg.PeerChat:
			chat, ok := chatByID[peer.ChatID].(*tg.ChatObj)
			if !ok {
				continue
			}
			entry = Dialog{ID: chat.ID, Name: chat.Title, Kind: DialogGroup}
		case *tg.PeerChannel:
			channel, ok := chatByID[peer.ChannelID].(*tg.Channel)
			if !ok {
				continue
			}
			kind := DialogSupergroup
			if channel.Broadcast {
				kind = DialogChannel
			}
			entry = Dialog{
				ID:       channel.ID,
				Name:     channel.Title,
				Kind:     kind,
				Username: channel.Username,
			}
		default:
			continue
		}

		entry.UnreadCount = int(dlg.UnreadCount)
		out = append(out, entry)
	}
	return out
}

// matchDialogs filters dialogs by a case-insensitive substring match on
// the display name only, stopping once limit matches are collected. An
// empty query matches everything. This is a client-side filter over a
// backend-ordered stream: it can return fewer than limit matches even
// when more exist beyond the scanned window.
func matchDialogs(dialogs []Dialog, query string, limit int) []Dialog {
	query = strings.ToLower(query)
	out := make([]Dialog, 0, limit)
	for _, d := range dialogs {
		if query != "" && !strings.Contains(strings.ToLower(d.Name), query) {
			continue
		}
		out = append(out, d)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
