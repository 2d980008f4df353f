package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
)

// SendCmd returns the send command
func SendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <phone> <message...>",
		Short: "Send a WhatsApp text message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			viaSMS, _ := cmd.Flags().GetBool("sms")

			phone := args[0]
			text := strings.Join(args[1:], " ")

			if viaSMS {
				sms := data.NewSMSRepo(data.SMSConfig{
					Username: cfg.SMS.Username,
					Password: cfg.SMS.Password,
					Sender:   cfg.SMS.Sender,
				})
				if sms == nil {
					return fmt.Errorf("sms gateway not configured\nHint: set NETGSM_USERNAME and NETGSM_PASSWORD")
				}
				if err := sms.SendSMS(cmd.Context(), phone, text); err != nil {
					return fmt.Errorf("failed to send sms: %w", err)
				}
			} else {
				client := data.NewWhatsAppClient(cfg.ToDataOptions().WhatsApp)
				if err := client.SendText(cmd.Context(), phone, text); err != nil {
					return fmt.Errorf("failed to send message: %w", err)
				}
			}

			fmt.Printf("%s Message sent to %s\n", color.New(color.FgGreen).Sprint("✓"), phone)
			return nil
		},
	}
	cmd.Flags().Bool("sms", false, "Send through the SMS gateway instead of WhatsApp")
	return cmd
}
