package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mandir-dev/mandir/internal/reports"
)

func newReportCommand(booksDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports computed from the journal",
	}
	cmd.AddCommand(newTrialBalanceCommand(booksDir))
	cmd.AddCommand(newIncomeCommand(booksDir))
	cmd.AddCommand(newBalanceSheetCommand(booksDir))
	return cmd
}

func newTrialBalanceCommand(booksDir *string) *cobra.Command {
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "tb",
		Short: "Trial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf(asOfStr)
			if err != nil {
				return err
			}

			svc, err := openReports(*booksDir)
			if err != nil {
				return err
			}
			tb := svc.TrialBalance(asOf)

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tACCOUNT\tTYPE\tDEBIT\tCREDIT")
			for _, row := range tb.Rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					row.ID, row.Name, row.Type, row.Debit.StringFixed(2), row.Credit.StringFixed(2))
			}
			fmt.Fprintf(tw, "\tTOTAL\t\t%s\t%s\n", tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&asOfStr, "as-of", "", "report date (yyyy-mm-dd, default today)")
	return cmd
}

func newIncomeCommand(booksDir *string) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Income & Expenditure statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parsePeriod(fromStr, toStr)
			if err != nil {
				return err
			}

			svc, err := openReports(*booksDir)
			if err != nil {
				return err
			}
			stmt, err := svc.IncomeStatement(period)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INCOME\t")
			for _, line := range stmt.Income {
				fmt.Fprintf(tw, "  %s\t%s\n", line.Name, line.Amount.StringFixed(2))
			}
			fmt.Fprintf(tw, "Total income\t%s\n", stmt.TotalIncome.StringFixed(2))
			fmt.Fprintln(tw, "EXPENDITURE\t")
			for _, line := range stmt.Expense {
				fmt.Fprintf(tw, "  %s\t%s\n", line.Name, line.Amount.StringFixed(2))
			}
			fmt.Fprintf(tw, "Total expenditure\t%s\n", stmt.TotalExpense.StringFixed(2))
			fmt.Fprintf(tw, "Net surplus\t%s\n", stmt.NetSurplus.StringFixed(2))
			return tw.Flush()
		},
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	cmd.Flags().StringVar(&fromStr, "from", monthStart.Format(dateFlagFormat), "period start (yyyy-mm-dd)")
	cmd.Flags().StringVar(&toStr, "to", now.Format(dateFlagFormat), "period end (yyyy-mm-dd)")
	return cmd
}

func newBalanceSheetCommand(booksDir *string) *cobra.Command {
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "bs",
		Short: "Balance sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf(asOfStr)
			if err != nil {
				return err
			}

			svc, err := openReports(*booksDir)
			if err != nil {
				return err
			}
			bs := svc.BalanceSheet(asOf)

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, section := range []struct {
				label string
				s     reports.BalanceSheetSection
			}{
				{"ASSETS", bs.Assets},
				{"LIABILITIES", bs.Liabilities},
				{"EQUITY", bs.Equity},
			} {
				fmt.Fprintf(tw, "%s\t\n", section.label)
				for _, line := range section.s.Accounts {
					fmt.Fprintf(tw, "  %s\t%s\n", line.Name, line.Balance.StringFixed(2))
				}
			}
			fmt.Fprintf(tw, "Retained surplus\t%s\n", bs.RetainedSurplus.StringFixed(2))
			fmt.Fprintf(tw, "Total assets\t%s\n", bs.TotalAssets.StringFixed(2))
			fmt.Fprintf(tw, "Total liabilities + equity\t%s\n", bs.TotalLiabilities.Add(bs.TotalEquity).StringFixed(2))
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&asOfStr, "as-of", "", "report date (yyyy-mm-dd, default today)")
	return cmd
}

func openReports(booksDir string) (*reports.Service, error) {
	logger := newLogger()
	_, registry, engine, err := openBooks(booksDir, logger)
	if err != nil {
		return nil, err
	}
	return reports.NewService(engine, registry), nil
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	asOf, err := time.Parse(dateFlagFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date %q: %w", s, err)
	}
	return asOf, nil
}

func parsePeriod(fromStr, toStr string) (reports.Period, error) {
	from, err := time.Parse(dateFlagFormat, fromStr)
	if err != nil {
		return reports.Period{}, fmt.Errorf("invalid from date %q: %w", fromStr, err)
	}
	to, err := time.Parse(dateFlagFormat, toStr)
	if err != nil {
		return reports.Period{}, fmt.Errorf("invalid to date %q: %w", toStr, err)
	}
	return reports.NewPeriod(from, to)
}
