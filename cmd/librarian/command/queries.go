package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/library/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/loanstatistics"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/monthlyreport"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/mostborrowedtemplates"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/searchcatalog"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/searchloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/searchstudents"
)

func (c *cli) activeLoansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "List the open loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[activeloans.Query, activeloans.ActiveLoans](
				cmd.Context(), app, activeloans.NewQueryHandler(app.loader), activeloans.BuildQuery(c.now()))
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)
			c.printLoans(result.Loans)

			return nil
		},
	}
}

func (c *cli) overdueLoansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List the open loans past their due day, longest overdue first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[overdueloans.Query, overdueloans.OverdueLoans](
				cmd.Context(), app, overdueloans.NewQueryHandler(app.loader), overdueloans.BuildQuery(c.now()))
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)
			c.printLoans(result.Loans)

			return nil
		},
	}
}

func (c *cli) loansCommand() *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Search loans by title, barcode or student and filter them by state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, err := searchloans.BuildQuery(search, status, c.now())
			if err != nil {
				return err
			}

			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[searchloans.Query, searchloans.LoanSearchResult](
				cmd.Context(), app, searchloans.NewQueryHandler(app.loader), query)
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)
			c.printLoans(result.Loans)

			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "text matched against title, barcode, student name and number")
	cmd.Flags().StringVar(&status, "status", "all", "all, active, returned or overdue")

	return cmd
}

func (c *cli) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show loan counts and the return rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[loanstatistics.Query, loanstatistics.LoanStatistics](
				cmd.Context(), app, loanstatistics.NewQueryHandler(app.loader), loanstatistics.BuildQuery(c.now()))
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)

			t := newTable(c.stdout, "TOTAL", "ACTIVE", "OVERDUE", "RETURNED", "RETURN RATE")
			t.row(
				strconv.Itoa(result.Total),
				strconv.Itoa(result.Active),
				strconv.Itoa(result.Overdue),
				strconv.Itoa(result.Returned),
				fmt.Sprintf("%.1f%%", result.ReturnRate),
			)
			t.flush()

			return nil
		},
	}
}

func (c *cli) topCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank the templates by how often their copies were borrowed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[mostborrowedtemplates.Query, mostborrowedtemplates.MostBorrowedTemplates](
				cmd.Context(), app, mostborrowedtemplates.NewQueryHandler(app.loader), mostborrowedtemplates.BuildQuery(limit))
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)

			t := newTable(c.stdout, "RANK", "TITLE", "AUTHOR", "LOANS")
			for i, ranking := range result.Templates {
				t.row(strconv.Itoa(i+1), ranking.Title, ranking.Author, strconv.Itoa(ranking.Count))
			}
			t.flush()

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", mostborrowedtemplates.DefaultLimit, "ranking length, 0 for all")

	return cmd
}

func (c *cli) monthlyCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "List the loans borrowed and returned in one month (default: the current month)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := monthlyreport.BuildCurrentMonthQuery(c.now())
			if year != 0 || month != 0 {
				if year == 0 {
					year = query.Year
				}

				if month == 0 {
					month = int(query.Month)
				}

				var err error
				if query, err = monthlyreport.BuildQuery(year, time.Month(month), c.now()); err != nil {
					return err
				}
			}

			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[monthlyreport.Query, monthlyreport.MonthlyReport](
				cmd.Context(), app, monthlyreport.NewQueryHandler(app.loader), query)
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)

			c.printf("%s %d: %d borrowed, %d returned\n\nBorrowed\n", result.Month, result.Year, result.TotalBorrowed, result.TotalReturned)
			c.printLoans(result.Borrowed)
			c.printf("\nReturned\n")
			c.printLoans(result.Returned)

			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "report year")
	cmd.Flags().IntVar(&month, "month", 0, "report month, 1 to 12")

	return cmd
}

func (c *cli) searchBooksCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "search-books [text]",
		Short: "Search the catalog by title, author, ISBN or publisher",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[searchcatalog.Query, searchcatalog.CatalogSearchResult](
				cmd.Context(), app, searchcatalog.NewQueryHandler(app.loader), searchcatalog.BuildQuery(firstArg(args), category))
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)

			t := newTable(c.stdout, "TEMPLATE", "TITLE", "AUTHOR", "ISBN", "CATEGORY", "COPIES", "AVAILABLE")
			for _, entry := range result.Entries {
				t.row(
					string(entry.Template.ID),
					entry.Template.Title,
					entry.Template.Author,
					entry.Template.ISBN,
					entry.Template.Category,
					strconv.Itoa(entry.CopyCount),
					strconv.Itoa(entry.AvailableCount),
				)
			}
			t.flush()

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "restrict to one category")

	return cmd
}

func (c *cli) searchStudentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search-students [text]",
		Short: "Search the roster by name, surname, student number or e-mail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runQuery[searchstudents.Query, searchstudents.StudentSearchResult](
				cmd.Context(), app, searchstudents.NewQueryHandler(app.loader), searchstudents.BuildQuery(firstArg(args), c.now()))
			if err != nil {
				return err
			}

			c.printStaleness(result.Stale, result.LoadedAt)

			t := newTable(c.stdout, "STUDENT", "NUMBER", "NAME", "E-MAIL", "ACTIVE", "OVERDUE")
			for _, entry := range result.Entries {
				t.row(
					string(entry.Student.ID),
					entry.Student.StudentNumber,
					entry.Student.FullName(),
					entry.Student.Email,
					strconv.Itoa(entry.ActiveLoans),
					strconv.Itoa(entry.OverdueLoans),
				)
			}
			t.flush()

			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}
