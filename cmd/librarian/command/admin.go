package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbookcopies"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbooktemplate"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/registerstudent"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/returnbookcopy"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/loanstatistics"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

func (c *cli) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the documents table and its indexes (postgres only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			if app.storage.createSchema == nil {
				return ErrSchemaUnsupported
			}

			if err := app.storage.createSchema(cmd.Context()); err != nil {
				return err
			}

			c.printf("Schema of table %s is up to date\n", app.cfg.Storage.TableName)

			return nil
		},
	}
}

func (c *cli) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			cfg.Storage.PostgresDSN = redact(cfg.Storage.PostgresDSN)
			cfg.Storage.PostgresReplicaDSN = redact(cfg.Storage.PostgresReplicaDSN)
			cfg.Redis.Password = redact(cfg.Redis.Password)

			out, err := cfg.EncodeYAML()
			if err != nil {
				return err
			}

			_, err = c.stdout.Write(out)

			return err
		},
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}

	return "***"
}

type demoTemplate struct {
	title, author, isbn, category string
	copies                        int
}

var demoTemplates = []demoTemplate{
	{"The Go Programming Language", "Alan Donovan", "978-0-13-419044-0", "programming", 3},
	{"Clean Code", "Robert C. Martin", "978-0-13-235088-4", "programming", 2},
	{"The Pragmatic Programmer", "David Thomas", "978-0-13-595705-9", "programming", 1},
}

var demoStudents = [][3]string{
	{"20250001", "Ayşe", "Yılmaz"},
	{"20250002", "Jonas", "Becker"},
	{"20250003", "Mara", "Okafor"},
}

func (c *cli) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Fill the store with a small sample library and show the resulting reports",
		Long: `demo registers three templates with copies, three students and a handful of loans, one of
them returned and one overdue. With the memory engine the data lives only for this run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := c.application(ctx)
			if err != nil {
				return err
			}

			if err := c.seedDemo(ctx, app); err != nil {
				return err
			}

			stats, err := runQuery[loanstatistics.Query, loanstatistics.LoanStatistics](
				ctx, app, loanstatistics.NewQueryHandler(app.loader), loanstatistics.BuildQuery(c.now()))
			if err != nil {
				return err
			}

			c.printf("%d loans, %d active, %d overdue, %d returned\n\n", stats.Total, stats.Active, stats.Overdue, stats.Returned)

			active, err := runQuery[activeloans.Query, activeloans.ActiveLoans](
				ctx, app, activeloans.NewQueryHandler(app.loader), activeloans.BuildQuery(c.now()))
			if err != nil {
				return err
			}

			c.printLoans(active.Loans)

			return nil
		},
	}
}

func (c *cli) seedDemo(ctx context.Context, app *application) error {
	now := c.now()

	templateIDs := make([]string, 0, len(demoTemplates))
	for _, template := range demoTemplates {
		result, err := runCommand(ctx, app, app.addTemplateHandler(),
			addbooktemplate.BuildCommand(template.title, template.author, template.isbn, "", "", template.category, ""))
		if err != nil {
			return fmt.Errorf("demo template %q: %w", template.title, err)
		}

		if result.Idempotent {
			return fmt.Errorf("demo template %q exists already, run demo against an empty store", template.title)
		}

		if _, err := runCommand(ctx, app, app.addCopiesHandler(),
			addbookcopies.BuildCommand(result.PrimaryID(), template.copies)); err != nil {
			return fmt.Errorf("demo copies of %q: %w", template.title, err)
		}

		templateIDs = append(templateIDs, result.PrimaryID())
	}

	for _, student := range demoStudents {
		if _, err := runCommand(ctx, app, app.registerStudentHandler(),
			registerstudent.BuildCommand(student[0], student[1], student[2], "")); err != nil {
			return fmt.Errorf("demo student %s: %w", student[0], err)
		}
	}

	snapshot, err := app.loader.Load(ctx)
	if err != nil {
		return err
	}

	firstBarcode := func(templateIndex int, skip int) string {
		copies := snapshot.Collections.CopiesOfTemplate(core.TemplateIDString(templateIDs[templateIndex]))
		return copies[skip].Barcode
	}

	day := 24 * time.Hour
	loans := []struct {
		student string
		barcode string
		at      time.Time
	}{
		{demoStudents[0][0], firstBarcode(0, 0), now.Add(-20 * day)},
		{demoStudents[0][0], firstBarcode(1, 0), now.Add(-3 * day)},
		{demoStudents[1][0], firstBarcode(0, 1), now.Add(-10 * day)},
		{demoStudents[2][0], firstBarcode(2, 0), now.Add(-30 * day)},
	}

	for _, loan := range loans {
		if _, err := runCommand(ctx, app, app.borrowHandler(),
			borrowbookcopy.BuildCommand(loan.student, loan.barcode, loan.at)); err != nil {
			return fmt.Errorf("demo loan of %s: %w", loan.barcode, err)
		}
	}

	if _, err := runCommand(ctx, app, app.returnHandler(),
		returnbookcopy.BuildCommandByBarcode(firstBarcode(2, 0), now.Add(-5*day))); err != nil {
		return fmt.Errorf("demo return: %w", err)
	}

	c.printf("Seeded %d templates, %d students and %d loans\n", len(demoTemplates), len(demoStudents), len(loans))

	return nil
}
