package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// ChatCmd returns the chat command
func ChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <phone> [message...]",
		Short: "Talk to the bot locally as the given phone number",
		Long: `Runs messages through the conversation without WhatsApp.
With a message the reply is printed once. Without one an interactive
session reads lines from stdin until EOF.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()
			ucs, repos, err := openUsecases(ctx, cfg)
			if err != nil {
				return err
			}
			defer repos.Close()

			phone := args[0]
			if len(args) > 1 {
				printReply(os.Stdout, ucs.Conversation.ProcessMessage(ctx, phone, strings.Join(args[1:], " ")))
				return nil
			}

			fmt.Printf("Chatting as %s (Ctrl-D to quit)\n", phone)
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(color.New(color.FgCyan).Sprint("> "))
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				printReply(os.Stdout, ucs.Conversation.ProcessMessage(ctx, phone, line))
			}
		},
	}
}

func printReply(w io.Writer, reply *domain.Reply) {
	marker := color.New(color.FgGreen).Sprint("✓")
	if !reply.Success {
		marker = color.New(color.FgYellow).Sprint("!")
	}
	fmt.Fprintf(w, "%s %s\n", marker, reply.Message)
	if reply.ListingID != 0 {
		fmt.Fprintf(w, "  listing: %d\n", reply.ListingID)
	}
}
