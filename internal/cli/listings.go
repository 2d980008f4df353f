package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/usecase"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
)

// ListingsCmd returns the listings command
func ListingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listings <phone>",
		Short: "Show the active listings of a lawyer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ctx := cmd.Context()
			cfg := loadConfig()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			identity := usecase.NewIdentityUsecase(data.NewAccountRepo(store), cfg.Bot.CountryCode)
			account, err := identity.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if account == nil {
				return fmt.Errorf("no account registered for %s", args[0])
			}

			listings, err := data.NewListingRepo(store).ListActiveByOwner(ctx, account.ID, limit)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", color.New(color.Bold).Sprint(account.FullName), account.City)
			if len(listings) == 0 {
				fmt.Println("No active listings")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCITY\tURGENCY\tAPPS\tCREATED")
			fmt.Fprintln(w, "--\t-----\t----\t-------\t----\t-------")
			for _, s := range listings {
				l := s.Listing
				urgency := l.Urgency.Label()
				if l.Urgency.IsUrgent() {
					urgency = color.New(color.FgRed).Sprint(urgency)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					l.ID, l.Title, l.City, urgency, s.ApplicationCount, l.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum rows")
	return cmd
}
