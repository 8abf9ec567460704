package telegram

import (
	"strconv"
	"strings"
)

// resolveRef turns a user-supplied conversation reference into a peer
// value the backend library accepts: "self"/"me" for the saved-messages
// chat, an int64 for numeric identifiers, or the string itself for
// handles and phone-like references. Resolution happens per request;
// nothing is cached.
func resolveRef(ref string) any {
	ref = strings.TrimSpace(ref)

	switch strings.ToLower(ref) {
	case "self", "me":
		return "me"
	}

	// ParseInt accepts a leading sign, which would swallow phone-like
	// references. Phones stay strings so the backend resolves them.
	if !strings.HasPrefix(ref, "+") {
		if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
			return id
		}
	}

	return ref
}
