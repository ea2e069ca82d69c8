package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-repos/internal/domain"
	"github.com/naka-gawa/github-repos/internal/usecase"
)

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.whoami(cmd.Context())
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var in domain.CreateRepoInput
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a repository",
		Long:  `Creates a repository for the authenticated user, or inside --org when given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			return a.createRepo(cmd.Context(), in)
		},
	}
	cmd.Flags().BoolVar(&in.Private, "private", false, "Create a private repository")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "Repository description")
	cmd.Flags().StringVarP(&in.Org, "org", "o", "", "Create the repository in this organization")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [OWNER/]NAME",
		Short: "Delete a repository",
		Long: `Deletes a repository. Without OWNER the authenticated user is assumed.
Asks for confirmation on stdin unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepoRef(args[0], true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if owner, err = a.resolveOwner(ctx, owner); err != nil {
				return err
			}
			if !yes {
				ok, err := a.prompt.confirm(ctx, fmt.Sprintf("Really delete %s/%s? This cannot be undone.", owner, name), false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.stdout, "Cancelled.")
					return nil
				}
			}
			return a.deleteRepo(ctx, owner, name)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		visibility string
		perPage    int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the authenticated user's repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := domain.ParseVisibility(visibility)
			if err != nil {
				return invalidInput(err.Error())
			}
			if perPage <= 0 {
				return invalidInput("--per-page must be positive")
			}
			return a.listRepos(cmd.Context(), v, perPage)
		},
	}
	cmd.Flags().StringVar(&visibility, "visibility", string(domain.VisibilityAll), "all, public or private")
	cmd.Flags().IntVar(&perPage, "per-page", usecase.DefaultPerPage, "Repositories requested per page")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get OWNER/NAME",
		Short: "Show a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepoRef(args[0], false)
			if err != nil {
				return err
			}
			return a.getRepo(cmd.Context(), owner, name)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		newName     string
		description string
		private     bool
	)
	cmd := &cobra.Command{
		Use:   "update OWNER/NAME",
		Short: "Update a repository",
		Long:  `Updates the name, description or visibility of a repository. Only the flags given are sent.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepoRef(args[0], false)
			if err != nil {
				return err
			}
			var update domain.RepoUpdate
			if cmd.Flags().Changed("name") {
				if newName == "" {
					return invalidInput("--name cannot be empty")
				}
				update.Name = &newName
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if cmd.Flags().Changed("private") {
				update.Private = &private
			}
			return a.updateRepo(cmd.Context(), owner, name, update)
		},
	}
	cmd.Flags().StringVar(&newName, "name", "", "New repository name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description (empty clears it)")
	cmd.Flags().BoolVar(&private, "private", false, "Make the repository private (--private=false makes it public)")
	return cmd
}
