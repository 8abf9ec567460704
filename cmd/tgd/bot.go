package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tgd/internal/botapi"
)

// getBot builds the Bot API client from the configured token. It does
// not touch the daemon; bot commands work with the daemon stopped.
func getBot() (*botapi.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	defaultChat, _ := strconv.ParseInt(cfg.Bot.ChatID, 10, 64)
	return botapi.New(cfg.Bot.Token, defaultChat)
}

func botCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Send as the configured bot (Bot API, no daemon)",
	}

	sendCmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a text message as the bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, _ := cmd.Flags().GetString("chat")
			bot, err := getBot()
			if err != nil {
				return err
			}
			id, err := bot.SendMessage(chat, args[0])
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(map[string]int{"message_id": id})
			} else if !flagQuiet {
				fmt.Printf("✓ Sent (message %d)\n", id)
			}
			return nil
		},
	}
	sendCmd.Flags().String("chat", "", "Numeric chat id or @channelusername (default: configured chat_id)")
	cmd.AddCommand(sendCmd)

	sendFileCmd := &cobra.Command{
		Use:   "send-file <path>",
		Short: "Upload a local file as the bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, _ := cmd.Flags().GetString("chat")
			caption, _ := cmd.Flags().GetString("caption")
			voice, _ := cmd.Flags().GetBool("voice")
			bot, err := getBot()
			if err != nil {
				return err
			}
			id, err := bot.SendFile(chat, args[0], caption, voice)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(map[string]int{"message_id": id})
			} else if !flagQuiet {
				fmt.Printf("✓ Uploaded (message %d)\n", id)
			}
			return nil
		},
	}
	sendFileCmd.Flags().String("chat", "", "Numeric chat id or @channelusername (default: configured chat_id)")
	sendFileCmd.Flags().String("caption", "", "Caption for the file")
	sendFileCmd.Flags().Bool("voice", false, "Send as a voice note")
	cmd.AddCommand(sendFileCmd)

	sendPhotoCmd := &cobra.Command{
		Use:   "send-photo <path>",
		Short: "Upload an image as the bot, rendered inline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, _ := cmd.Flags().GetString("chat")
			caption, _ := cmd.Flags().GetString("caption")
			bot, err := getBot()
			if err != nil {
				return err
			}
			id, err := bot.SendPhoto(chat, args[0], caption)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(map[string]int{"message_id": id})
			} else if !flagQuiet {
				fmt.Printf("✓ Photo sent (message %d)\n", id)
			}
			return nil
		},
	}
	sendPhotoCmd.Flags().String("chat", "", "Numeric chat id or @channelusername (default: configured chat_id)")
	sendPhotoCmd.Flags().String("caption", "", "Caption for the photo")
	cmd.AddCommand(sendPhotoCmd)

	sendVoiceCmd := &cobra.Command{
		Use:   "send-voice <path>",
		Short: "Send a voice message as the bot (.ogg with OPUS preferred)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, _ := cmd.Flags().GetString("chat")
			caption, _ := cmd.Flags().GetString("caption")
			bot, err := getBot()
			if err != nil {
				return err
			}
			id, err := bot.SendVoice(chat, args[0], caption)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(map[string]int{"message_id": id})
			} else if !flagQuiet {
				fmt.Printf("✓ Voice message sent (message %d)\n", id)
			}
			return nil
		},
	}
	sendVoiceCmd.Flags().String("chat", "", "Numeric chat id or @channelusername (default: configured chat_id)")
	sendVoiceCmd.Flags().String("caption", "", "Caption for the voice message")
	cmd.AddCommand(sendVoiceCmd)

	messagesCmd := &cobra.Command{
		Use:   "messages",
		Short: "Show messages recently sent to the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			bot, err := getBot()
			if err != nil {
				return err
			}
			msgs, err := bot.GetMessages(limit)
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(msgs)
				return nil
			}
			if len(msgs) == 0 {
				fmt.Println("No messages")
				return nil
			}
			for _, m := range msgs {
				from := m.From
				if from == "" {
					from = "Unknown"
				}
				fmt.Printf("[%d] %s (chat %d): %s\n", m.MessageID, from, m.ChatID, m.Text)
			}
			return nil
		},
	}
	messagesCmd.Flags().IntP("limit", "l", 10, "Number of messages to show")
	cmd.AddCommand(messagesCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the bot's own account details",
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, err := getBot()
			if err != nil {
				return err
			}
			me, err := bot.Info()
			if err != nil {
				return err
			}
			if flagJSON {
				printJSON(me)
			} else {
				fmt.Printf("Bot:      %s (@%s)\n", me.FirstName, me.UserName)
				fmt.Printf("ID:       %d\n", me.ID)
			}
			return nil
		},
	})

	return cmd
}
