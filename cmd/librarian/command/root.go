// Package command provides the librarian CLI. Every sub-command runs one command or query handler
// of the library against the configured document store.
//
//	librarian borrow 12345678 LIB001001
//	librarian return --barcode LIB001001
//	librarian loans --status overdue --search yilmaz
//	librarian -c /etc/librarian.yaml migrate
//
// The configuration is read from the file given with -c (or LIBRARIAN_CONFIG), then overridden by
// LIBRARY_* environment variables. A .env file in the working directory is loaded first.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/config"
)

// Version is set at build time with -ldflags "-X .../command.Version=...".
var Version = "dev"

const (
	envConfigPath  = "LIBRARIAN_CONFIG"
	defaultEnvFile = ".env"

	exitOK       = 0
	exitFailure  = 1
	exitRejected = 2
)

// cli carries the state shared by all sub-commands of one invocation.
type cli struct {
	configPath string
	envFile    string
	engine     string
	offline    bool

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	app *application
}

// Execute runs the CLI and returns the process exit code: 0 on success, 2 when the library
// rejected the operation (permission, connectivity or a lending rule), 1 for every other failure.
func Execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{stdout: stdout, stderr: stderr, now: time.Now}

	root := c.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if closeErr := c.close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	if err == nil {
		return exitOK
	}

	if core.FailureReason(err) == core.FailureReasonUnknown {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}

	_, _ = fmt.Fprintln(stderr, core.UserMessage(err))

	if isRejection(err) {
		return exitRejected
	}

	return exitFailure
}

func isRejection(err error) bool {
	return core.IsPolicyViolation(err) ||
		errors.Is(err, core.ErrPermissionDenied) ||
		errors.Is(err, core.ErrOffline)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "librarian",
		Short: "Lend, return and catalog books of a school library",
		Long: `librarian manages the catalog, the student roster and the loans of a school library.

Mutating commands need the matching permission and a reachable store. Reports and searches
fall back to the last cached snapshot when the store cannot be reached and say so.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file path (default $"+envConfigPath+")")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", defaultEnvFile, "dotenv file loaded before the environment is read")
	root.PersistentFlags().StringVar(&c.engine, "engine", "", "storage engine override: memory or postgres")
	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "treat the store as unreachable")

	root.AddCommand(
		c.borrowCommand(),
		c.returnCommand(),
		c.addTemplateCommand(),
		c.addCopiesCommand(),
		c.registerStudentCommand(),
		c.softDeleteCommand(),
		c.restoreCommand(),
		c.reconcileCommand(),
		c.activeLoansCommand(),
		c.overdueLoansCommand(),
		c.loansCommand(),
		c.statsCommand(),
		c.topCommand(),
		c.monthlyCommand(),
		c.searchBooksCommand(),
		c.searchStudentsCommand(),
		c.migrateCommand(),
		c.configCommand(),
		c.demoCommand(),
	)

	return root
}

// loadConfig reads .env, the config file and the environment, then applies the flag overrides.
func (c *cli) loadConfig() (config.AppConfig, error) {
	if err := config.LoadDotEnv(c.envFile); err != nil {
		return config.AppConfig{}, err
	}

	path := c.configPath
	if path == "" {
		path = os.Getenv(envConfigPath)
	}

	cfg, err := config.LoadAppConfig(path)
	if err != nil {
		return config.AppConfig{}, err
	}

	if c.engine != "" {
		cfg.Storage.Engine = c.engine
	}

	if c.offline {
		cfg.Access.Offline = true
	}

	if err := cfg.Validate(); err != nil {
		return config.AppConfig{}, err
	}

	return cfg, nil
}

// application builds the application on first use so that help and config output never open a store.
func (c *cli) application(ctx context.Context) (*application, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	app, err := newApplication(ctx, cfg, c.stderr, c.now)
	if err != nil {
		return nil, err
	}

	c.app = app

	return app, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}

	err := c.app.Close()
	c.app = nil

	return err
}
