package command

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbookcopies"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbooktemplate"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/reconcileavailability"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/registerstudent"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/returnbookcopy"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/softdelete"
)

func (c *cli) borrowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <student-number> <barcode>",
		Short: "Lend a book copy to a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			command := borrowbookcopy.BuildCommand(args[0], args[1], c.now())

			result, err := runCommand(cmd.Context(), app, app.borrowHandler(), command)
			if err != nil {
				return err
			}

			c.printf("Lent %s to %s, loan %s, due %s\n", command.Barcode, command.StudentNumber, result.PrimaryID(), formatDay(result.DueDate))

			return nil
		},
	}
}

func (c *cli) returnCommand() *cobra.Command {
	var barcode string

	cmd := &cobra.Command{
		Use:   "return [loan-id]",
		Short: "Take a lent copy back, by loan id or by barcode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (barcode == "") {
				return errors.New("pass either a loan id or --barcode")
			}

			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			command := returnbookcopy.BuildCommandByBarcode(barcode, c.now())
			if len(args) == 1 {
				command = returnbookcopy.BuildCommand(args[0], c.now())
			}

			result, err := runCommand(cmd.Context(), app, app.returnHandler(), command)
			if err != nil {
				return err
			}

			c.printf("Returned loan %s\n", result.PrimaryID())

			return nil
		},
	}

	cmd.Flags().StringVar(&barcode, "barcode", "", "barcode of the copy to return")

	return cmd
}

func (c *cli) addTemplateCommand() *cobra.Command {
	var author, isbn, publisher, editor, category, description string

	cmd := &cobra.Command{
		Use:   "add-template <title>",
		Short: "Add a book template to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			command := addbooktemplate.BuildCommand(args[0], author, isbn, publisher, editor, category, description)

			result, err := runCommand(cmd.Context(), app, app.addTemplateHandler(), command)
			if err != nil {
				return err
			}

			if result.Idempotent {
				c.printf("Template %q is already in the catalog\n", command.Title)
				return nil
			}

			c.printf("Added template %s\n", result.PrimaryID())

			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "author")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN-10 or ISBN-13")
	cmd.Flags().StringVar(&publisher, "publisher", "", "publisher")
	cmd.Flags().StringVar(&editor, "editor", "", "editor")
	cmd.Flags().StringVar(&category, "category", "", "catalog category")
	cmd.Flags().StringVar(&description, "description", "", "short description")

	return cmd
}

func (c *cli) addCopiesCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "add-copies <template-id>",
		Short: "Add physical copies of a template, each with a new barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runCommand(cmd.Context(), app, app.addCopiesHandler(), addbookcopies.BuildCommand(args[0], count))
			if err != nil {
				return err
			}

			c.printf("Added %d copies: %s\n", len(result.DocumentIDs), strings.Join(result.DocumentIDs, ", "))

			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of copies")

	return cmd
}

func (c *cli) registerStudentCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register-student <student-number> <name> <surname>",
		Short: "Add a student to the roster",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			command := registerstudent.BuildCommand(args[0], args[1], args[2], email)

			result, err := runCommand(cmd.Context(), app, app.registerStudentHandler(), command)
			if err != nil {
				return err
			}

			c.printf("Registered student %s as %s\n", command.StudentNumber, result.PrimaryID())

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "e-mail address")

	return cmd
}

func (c *cli) softDeleteCommand() *cobra.Command {
	return c.lifecycleCommand("delete", "Soft-delete a template, copy or student", softdelete.BuildDeleteCommand)
}

func (c *cli) restoreCommand() *cobra.Command {
	return c.lifecycleCommand("restore", "Restore a soft-deleted template, copy or student", softdelete.BuildRestoreCommand)
}

func (c *cli) lifecycleCommand(
	verb string,
	short string,
	build func(kind softdelete.RecordKind, id string, occurredAt time.Time) softdelete.Command,
) *cobra.Command {
	return &cobra.Command{
		Use:       verb + " <template|copy|student> <id>",
		Short:     short,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(softdelete.KindTemplate), string(softdelete.KindCopy), string(softdelete.KindStudent)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := softdelete.ParseRecordKind(args[0])
			if err != nil {
				return err
			}

			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			command := build(kind, args[1], c.now())

			result, err := runCommand(cmd.Context(), app, app.softDeleteHandler(), command)
			if err != nil {
				return err
			}

			c.printf("%s %s %s: %s\n", verb, kind, command.ID, outcome(result.Idempotent))

			return nil
		},
	}
}

func (c *cli) reconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair availability flags that disagree with the open loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			result, err := runCommand(cmd.Context(), app, app.reconcileHandler(), reconcileavailability.BuildCommand())
			if err != nil {
				return err
			}

			if result.Idempotent {
				c.printf("All availability flags are consistent\n")
				return nil
			}

			c.printf("Corrected %d copies: %s\n", len(result.DocumentIDs), strings.Join(result.DocumentIDs, ", "))

			return nil
		},
	}
}

func outcome(idempotent bool) string {
	if idempotent {
		return "nothing to change"
	}

	return "done"
}
