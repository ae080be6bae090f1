package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/model"
)

func newAccountsCommand(booksDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountsListCommand(booksDir))
	cmd.AddCommand(newAccountsAddCommand(booksDir))
	cmd.AddCommand(newAccountsRenameCommand(booksDir))
	cmd.AddCommand(newAccountsDeactivateCommand(booksDir))
	return cmd
}

func newAccountsListCommand(booksDir *string) *cobra.Command {
	var typeFilter string
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with derived balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			_, registry, engine, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}

			filter := accounts.Filter{Type: model.AccountType(typeFilter), ActiveOnly: activeOnly}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPARENT\tACTIVE\tBALANCE")
			for _, a := range registry.List(filter) {
				parent := ""
				if a.ParentID != 0 {
					parent = strconv.Itoa(a.ParentID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\n",
					a.ID, a.Name, a.Type, parent, a.Active, engine.AccountBalance(a.ID).StringFixed(2))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "filter by account type")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "active accounts only")
	return cmd
}

func newAccountsAddCommand(booksDir *string) *cobra.Command {
	var name, accountType string
	var id, parentID int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, registry, _, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}

			acct, err := registry.Create(id, name, model.AccountType(accountType), parentID)
			if err != nil {
				return err
			}
			if err := registry.Save(*booksDir); err != nil {
				return err
			}
			commitBooks(cfg, *booksDir, fmt.Sprintf("accounts: Add %d %s", acct.ID, acct.Name), logger)

			fmt.Printf("Added account %d (%s, %s)\n", acct.ID, acct.Name, acct.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "", "account type: asset, liability, equity, income, expense (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().IntVar(&id, "id", 0, "account code (0 = assign next free)")
	cmd.Flags().IntVar(&parentID, "parent", 0, "parent account id")
	return cmd
}

func newAccountsRenameCommand(booksDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a non-system account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acctID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id %q: %w", args[0], err)
			}

			logger := newLogger()
			cfg, registry, _, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}
			if err := registry.Rename(acctID, args[1]); err != nil {
				return err
			}
			if err := registry.Save(*booksDir); err != nil {
				return err
			}
			commitBooks(cfg, *booksDir, fmt.Sprintf("accounts: Rename %d to %s", acctID, args[1]), logger)

			fmt.Printf("Renamed account %d to %s\n", acctID, args[1])
			return nil
		},
	}
	return cmd
}

func newAccountsDeactivateCommand(booksDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Close an account for new postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acctID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id %q: %w", args[0], err)
			}

			logger := newLogger()
			cfg, registry, _, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}
			if err := registry.Deactivate(acctID); err != nil {
				return err
			}
			if err := registry.Save(*booksDir); err != nil {
				return err
			}
			commitBooks(cfg, *booksDir, fmt.Sprintf("accounts: Deactivate %d", acctID), logger)

			fmt.Printf("Deactivated account %d\n", acctID)
			return nil
		},
	}
	return cmd
}
