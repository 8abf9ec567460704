package telegram

import (
	"testing"

	tg "github.com/amarnathcjd/gogram/telegram"
)

func TestMessageFromRawSkipsServiceAndEmpty(t *testing.T) {
	cases := []struct {
		name string
		raw  tg.Message
	}{
		{"service", &tg.MessageService{}},
		{"empty", &tg.MessageEmpty{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := messageFromRaw(tc.raw); ok {
				t.Errorf("expected %s message to be skipped", tc.name)
			}
		})
	}
}

func TestMessageFromRawMapsFields(t *testing.T) {
	raw := &tg.MessageObj{
		ID:      42,
		Message: "hello",
		Date:    1700000000,
		FromID:  &tg.PeerUser{UserID: 777},
	}
	msg, ok := messageFromRaw(raw)
	if !ok {
		t.Fatal("expected plain message to be kept")
	}
	if msg.ID != 42 {
		t.Errorf("ID = %d, want 42", msg.ID)
	}
	if msg.Text != "hello" {
		t.Errorf("Text = %q, want %q", msg.Text, "hello")
	}
	if msg.FromID != 777 {
		t.Errorf("FromID = %d, want 777", msg.FromID)
	}
	if msg.Date != "2023-11-14T22:13:20Z" {
		t.Errorf("Date = %q, want RFC 3339 UTC", msg.Date)
	}
	if msg.HasMedia {
		t.Error("HasMedia = true for text-only message")
	}
}

func TestMessageFromRawMedia(t *testing.T) {
	raw := &tg.MessageObj{
		ID:    7,
		Media: &tg.MessageMediaPhoto{},
	}
	msg, ok := messageFromRaw(raw)
	if !ok {
		t.Fatal("expected media message to be kept")
	}
	if !msg.HasMedia || msg.MediaType != MediaPhoto {
		t.Errorf("got HasMedia=%v MediaType=%q, want photo", msg.HasMedia, msg.MediaType)
	}
}

func TestMessagesFromRawFiltersHistory(t *testing.T) {
	raw := []tg.Message{
		&tg.MessageObj{ID: 5, Message: "c"},
		&tg.MessageService{},
		&tg.MessageObj{ID: 3, Message: "b"},
		&tg.MessageEmpty{},
		&tg.MessageObj{ID: 1, Message: "a"},
	}
	got := messagesFromRaw(raw)
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if got[0].ID != 5 || got[1].ID != 3 || got[2].ID != 1 {
		t.Errorf("order not preserved: %+v", got)
	}
}

func TestClassifyMedia(t *testing.T) {
	document := func(attrs ...tg.DocumentAttribute) tg.MessageMedia {
		return &tg.MessageMediaDocument{
			Document: &tg.DocumentObj{Attributes: attrs},
		}
	}

	cases := []struct {
		name     string
		media    tg.MessageMedia
		wantKind MediaKind
		wantFile string
	}{
		{"photo", &tg.MessageMediaPhoto{}, MediaPhoto, ""},
		{
			"plain document",
			document(&tg.DocumentAttributeFilename{FileName: "report.pdf"}),
			MediaDocument, "report.pdf",
		},
		{
			"voice note",
			document(&tg.DocumentAttributeAudio{Voice: true}),
			MediaVoice, "",
		},
		{
			"music file",
			document(
				&tg.DocumentAttributeAudio{},
				&tg.DocumentAttributeFilename{FileName: "track.mp3"},
			),
			MediaAudio, "track.mp3",
		},
		{"geo point", &tg.MessageMediaGeo{}, MediaOther, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, file := classifyMedia(tc.media)
			if kind != tc.wantKind {
				t.Errorf("kind = %q, want %q", kind, tc.wantKind)
			}
			if file != tc.wantFile {
				t.Errorf("file = %q, want %q", file, tc.wantFile)
			}
		})
	}
}

func TestDialogsFromRaw(t *testing.T) {
	dialogs := []tg.Dialog{
		&tg.DialogObj{Peer: &tg.PeerUser{UserID: 1}, UnreadCount: 3},
		&tg.DialogObj{Peer: &tg.PeerChat{ChatID: 2}},
		&tg.DialogObj{Peer: &tg.PeerChannel{ChannelID: 3}},
		&tg.DialogObj{Peer: &tg.PeerChannel{ChannelID: 4}},
		&tg.DialogObj{Peer: &tg.PeerUser{UserID: 99}}, // no entity, dropped
	}
	users := []tg.User{
		&tg.UserObj{ID: 1, FirstName: "Ada", LastName: "Lovelace", Username: "ada"},
	}
	chats := []tg.Chat{
		&tg.ChatObj{ID: 2, Title: "Book Club"},
		&tg.Channel{ID: 3, Title: "Announcements", Username: "news", Broadcast: true},
		&tg.Channel{ID: 4, Title: "Dev Chat", Megagroup: true},
	}

	got := dialogsFromRaw(dialogs, users, chats)
	if len(got) != 4 {
		t.Fatalf("got %d dialogs, want 4: %+v", len(got), got)
	}
	if got[0].Name != "Ada Lovelace" || got[0].Kind != DialogUser || got[0].UnreadCount != 3 {
		t.Errorf("user dialog mapped wrong: %+v", got[0])
	}
	if got[1].Name != "Book Club" || got[1].Kind != DialogGroup {
		t.Errorf("group dialog mapped wrong: %+v", got[1])
	}
	if got[2].Kind != DialogChannel || got[2].Username != "news" {
		t.Errorf("broadcast channel mapped wrong: %+v", got[2])
	}
	if got[3].Kind != DialogSupergroup {
		t.Errorf("megagroup mapped wrong: %+v", got[3])
	}
}

func TestMatchDialogs(t *testing.T) {
	dialogs := []Dialog{
		{ID: 1, Name: "Work Chat"},
		{ID: 2, Name: "Family"},
		{ID: 3, Name: "work notes"},
		{ID: 4, Name: "Workshop"},
	}

	t.Run("case insensitive substring", func(t *testing.T) {
		got := matchDialogs(dialogs, "WORK", 10)
		if len(got) != 3 {
			t.Fatalf("got %d matches, want 3", len(got))
		}
	})

	t.Run("stops at limit", func(t *testing.T) {
		got := matchDialogs(dialogs, "work", 2)
		if len(got) != 2 {
			t.Fatalf("got %d matches, want 2", len(got))
		}
		if got[0].ID != 1 || got[1].ID != 3 {
			t.Errorf("expected first two matches in order, got %+v", got)
		}
	})

	t.Run("empty query matches all", func(t *testing.T) {
		got := matchDialogs(dialogs, "", 10)
		if len(got) != len(dialogs) {
			t.Fatalf("got %d, want %d", len(got), len(dialogs))
		}
	})

	t.Run("no match on username", func(t *testing.T) {
		got := matchDialogs([]Dialog{{Name: "Alice", Username: "bob"}}, "bob", 10)
		if len(got) != 0 {
			t.Errorf("filter must only consider display names, got %+v", got)
		}
	})
}
