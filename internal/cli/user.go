package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
)

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage registered lawyers",
	}
	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userListCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a lawyer",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			phone, _ := cmd.Flags().GetString("phone")
			whatsapp, _ := cmd.Flags().GetString("whatsapp")
			city, _ := cmd.Flags().GetString("city")

			if email == "" || name == "" || phone == "" {
				return fmt.Errorf("--email, --name and --phone are required")
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, loadConfig())
			if err != nil {
				return err
			}
			defer store.Close()

			a := &domain.Account{
				Email:          email,
				FullName:       name,
				Phone:          phone,
				WhatsAppNumber: whatsapp,
				City:           city,
				Active:         true,
			}
			if err := data.NewAccountRepo(store).Create(ctx, a); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Printf("%s Registered %s (id %d)\n", color.New(color.FgGreen).Sprint("✓"), a.FullName, a.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("phone", "", "Phone number, e.g. +905551234567")
	cmd.Flags().String("whatsapp", "", "WhatsApp number when different from phone")
	cmd.Flags().String("city", "", "City")
	return cmd
}

func userListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active lawyers in a city",
		RunE: func(cmd *cobra.Command, args []string) error {
			city, _ := cmd.Flags().GetString("city")
			limit, _ := cmd.Flags().GetInt("limit")
			if city == "" {
				return fmt.Errorf("--city is required")
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, loadConfig())
			if err != nil {
				return err
			}
			defer store.Close()

			accounts, err := data.NewAccountRepo(store).ListActiveInCity(ctx, city, 0, limit)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Printf("No active lawyers in %s\n", city)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE\tWHATSAPP")
			fmt.Fprintln(w, "--\t----\t-----\t--------")
			for _, a := range accounts {
				wa := a.WhatsAppNumber
				if wa == "" {
					wa = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.FullName, a.Phone, wa)
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("city", "", "City")
	cmd.Flags().Int("limit", 50, "Maximum rows")
	return cmd
}
