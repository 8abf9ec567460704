package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"tgd/internal/cli"
	"tgd/internal/config"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			user, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(user)
			} else {
				fmt.Print(cli.FormatProfile(user))
			}
			return nil
		},
	}
}

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <entity> <message>",
		Short: "Send a text message",
		Long: `Send a text message from the signed-in account.

Entity accepts @username, a phone number, a numeric id, or 'me' for
Saved Messages.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			replyTo, _ := cmd.Flags().GetInt("reply-to")
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.SendMessage(cmd.Context(), args[0], args[1], replyTo)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(res)
			} else if !flagQuiet {
				fmt.Printf("✓ Sent (message %d in chat %d)\n", res.MessageID, res.ChatID)
			}
			return nil
		},
	}
	cmd.Flags().Int("reply-to", 0, "Message id to reply to")
	return cmd
}

func fileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <entity> <path>",
		Short: "Send a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caption, _ := cmd.Flags().GetString("caption")
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.SendFile(cmd.Context(), args[0], args[1], caption, false)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(res)
			} else if !flagQuiet {
				fmt.Printf("✓ Uploaded (message %d in chat %d)\n", res.MessageID, res.ChatID)
			}
			return nil
		},
	}
	cmd.Flags().String("caption", "", "Caption for the file")
	return cmd
}

func voiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voice <entity> <path>",
		Short: "Send an audio file as a voice note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			res, err := client.SendFile(cmd.Context(), args[0], args[1], "", true)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(res)
			} else if !flagQuiet {
				fmt.Printf("✓ Sent voice note (message %d)\n", res.MessageID)
			}
			return nil
		},
	}
}

func messagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages <entity>",
		Short: "Show recent messages from a conversation, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			client, err := getClient()
			if err != nil {
				return err
			}
			msgs, err := client.GetMessages(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(msgs)
			} else {
				fmt.Print(cli.FormatMessages(msgs))
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "l", 20, "Max messages to fetch")
	return cmd
}

func dialogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dialogs [query]",
		Short: "List dialogs, optionally filtered by name substring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			limit, _ := cmd.Flags().GetInt("limit")
			client, err := getClient()
			if err != nil {
				return err
			}
			dialogs, err := client.SearchDialogs(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(dialogs)
			} else {
				fmt.Print(cli.FormatDialogs(dialogs))
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "l", 20, "Max dialogs to list")
	return cmd
}

func downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <entity> <message-id> [save-path]",
		Short: "Download the media attached to a message",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			messageID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("message-id must be a number, got %q", args[1])
			}
			var savePath string
			if len(args) == 3 {
				savePath = args[2]
			} else {
				dir, err := config.DownloadsDir()
				if err != nil {
					return err
				}
				savePath = filepath.Join(dir, fmt.Sprintf("media_%d", messageID))
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			path, err := client.DownloadMedia(cmd.Context(), args[0], messageID, savePath)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(map[string]string{"path": path})
			} else if !flagQuiet {
				fmt.Printf("✓ Saved to %s\n", path)
			}
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <entity> <message-id> <text>",
		Short: "Edit a previously sent message",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			messageID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("message-id must be a number, got %q", args[1])
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			id, err := client.EditMessage(cmd.Context(), args[0], messageID, args[2])
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(map[string]int{"message_id": id})
			} else if !flagQuiet {
				fmt.Printf("✓ Edited message %d\n", id)
			}
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <message-id>...",
		Short: "Delete messages by id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("message ids must be numbers, got %q", arg)
				}
				ids = append(ids, id)
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			deleted, err := client.DeleteMessages(cmd.Context(), args[0], ids)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(map[string]int{"deleted": deleted})
			} else if !flagQuiet {
				fmt.Printf("✓ Deleted %d message(s)\n", deleted)
			}
			return nil
		},
	}
}
