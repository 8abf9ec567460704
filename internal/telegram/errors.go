package telegram

import "errors"

var (
	// ErrNotAuthorized means the session file holds no valid
	// authorization. Actionable: run 'tgd login'.
	ErrNotAuthorized = errors.New("not authorized: run 'tgd login' first")

	// ErrNotConfigured means the account credentials are missing.
	// Actionable: run 'tgd login'.
	ErrNotConfigured = errors.New("account not configured: run 'tgd login' first")

	// ErrNotFound means the remote message or its media does not exist.
	ErrNotFound = errors.New("not found")

	// ErrFileNotFound means a local path did not resolve to a readable
	// file; raised before any network call is attempted.
	ErrFileNotFound = errors.New("file not found")
)
