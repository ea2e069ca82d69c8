// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-repos/internal/gateway"
	"github.com/naka-gawa/github-repos/internal/usecase"
)

// app holds what every command needs once the token has been checked.
type app struct {
	stdout io.Writer
	stderr io.Writer
	prompt *prompter
	logger *logrus.Logger

	verbose  bool
	apiURL   string
	maxPages int

	gateway gateway.RepoGateway
	lister  *usecase.RepoLister
}

// Run builds the command tree, executes it with args and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	a := &app{
		stdout: stdout,
		stderr: stderr,
		prompt: newPrompter(stdin, stdout),
		logger: logger,
	}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "github-repos",
		Short: "Create, delete, list, inspect and update GitHub repositories.",
		Long: `github-repos manages the repositories of the account behind GITHUB_TOKEN.
Run it without a subcommand for the interactive menu, or use one of the
subcommands below from scripts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.connect()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.Context())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().IntVar(&a.maxPages, "max-pages", 0, "Stop listing after this many pages (0 = no limit)")
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", gateway.DefaultBaseURL, "GitHub API base URL")
	_ = rootCmd.PersistentFlags().MarkHidden("api-url")

	rootCmd.AddCommand(
		newWhoamiCmd(a),
		newCreateCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newUpdateCmd(a),
	)
	return rootCmd
}

// connect reads the token and wires the gateway and use case.
func (a *app) connect() error {
	if a.verbose {
		a.logger.SetLevel(logrus.DebugLevel)
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	githubGateway, err := gateway.NewGitHubGateway(token, a.logger, gateway.WithBaseURL(a.apiURL))
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	a.gateway = githubGateway
	a.lister = usecase.NewRepoLister(githubGateway, a.logger, usecase.WithMaxPages(a.maxPages))
	a.logger.WithField("api", a.apiURL).Debug("GitHub gateway ready")
	return nil
}
