package cli

import (
	"errors"
	"fmt"
	"strings"

	"tgd/internal/daemon"
	"tgd/internal/telegram"
)

func displayUser(u telegram.Profile) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if u.Username != "" {
		if name == "" {
			return "@" + u.Username
		}
		return fmt.Sprintf("%s (@%s)", name, u.Username)
	}
	if name == "" {
		return fmt.Sprintf("id %d", u.ID)
	}
	return name
}

// FormatProfile renders a whoami result.
func FormatProfile(u telegram.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Signed in as %s\n", displayUser(u))
	fmt.Fprintf(&b, "ID:       %d\n", u.ID)
	if u.Phone != "" {
		fmt.Fprintf(&b, "Phone:    +%s\n", u.Phone)
	}
	return b.String()
}

// FormatMessages renders a message list, newest first as delivered.
func FormatMessages(msgs []telegram.Message) string {
	if len(msgs) == 0 {
		return "No messages.\n"
	}
	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "[%d] %s", m.ID, m.Date)
		if m.FromID != 0 {
			fmt.Fprintf(&b, " from %d", m.FromID)
		}
		b.WriteString("\n")
		if m.Text != "" {
			fmt.Fprintf(&b, "    %s\n", strings.ReplaceAll(m.Text, "\n", "\n    "))
		}
		if m.HasMedia {
			if m.FileName != "" {
				fmt.Fprintf(&b, "    [%s: %s]\n", m.MediaType, m.FileName)
			} else {
				fmt.Fprintf(&b, "    [%s]\n", m.MediaType)
			}
		}
	}
	return b.String()
}

// FormatDialogs renders a dialog list.
func FormatDialogs(dialogs []telegram.Dialog) string {
	if len(dialogs) == 0 {
		return "No dialogs found.\n"
	}
	var b strings.Builder
	for _, d := range dialogs {
		fmt.Fprintf(&b, "%-12d %-10s %s", d.ID, d.Kind, d.Name)
		if d.Username != "" {
			fmt.Fprintf(&b, " (@%s)", d.Username)
		}
		if d.UnreadCount > 0 {
			fmt.Fprintf(&b, " [%d unread]", d.UnreadCount)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatError renders a failure as a one-line message plus a hint
// command when the cause is actionable.
func FormatError(err error) string {
	msg := "Error: " + err.Error() + "\n"

	var apiErr *daemon.APIError
	text := err.Error()
	if errors.As(err, &apiErr) {
		text = apiErr.Message
	}
	switch {
	case strings.Contains(text, "not authorized"):
		msg += "Hint: run 'tgd login' to sign in.\n"
	case strings.Contains(text, "not configured"):
		msg += "Hint: add your api_id and api_hash to the config file, then run 'tgd login'.\n"
	case strings.Contains(text, "daemon unreachable"):
		msg += "Hint: run 'tgd daemon start'.\n"
	}
	return msg
}
