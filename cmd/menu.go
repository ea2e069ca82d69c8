package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/naka-gawa/github-repos/internal/domain"
	"github.com/naka-gawa/github-repos/internal/usecase"
)

type menuAction struct {
	key     string
	label   string
	failure string
	run     func(ctx context.Context) error
}

func (a *app) menuActions() []menuAction {
	return []menuAction{
		{"1", "Whoami (show the authenticated user)", "fetch the user", a.whoami},
		{"2", "Create repository", "create the repository", a.menuCreate},
		{"3", "Delete repository", "delete the repository", a.menuDelete},
		{"4", "List repositories", "list repositories", a.menuList},
		{"5", "Get repository info", "get the repository", a.menuGet},
		{"6", "Update repository", "update the repository", a.menuUpdate},
	}
}

// runMenu loops until the user picks 0 or stdin ends. A failing action is reported and
// the loop goes on.
func (a *app) runMenu(ctx context.Context) error {
	actions := a.menuActions()
	for {
		a.printMenu(actions)
		choice, err := a.prompt.ask(ctx, "Choose a number: ")
		if errors.Is(err, io.EOF) {
			choice = "0"
			fmt.Fprintln(a.stdout)
		} else if err != nil {
			return fmt.Errorf("failed to read menu choice: %w", err)
		}
		if choice == "0" {
			fmt.Fprintln(a.stdout, "Done. Goodbye.")
			return nil
		}

		var selected *menuAction
		for i := range actions {
			if actions[i].key == choice {
				selected = &actions[i]
				break
			}
		}
		if selected == nil {
			fmt.Fprintln(a.stdout, "Invalid choice, try again.")
			continue
		}
		a.runAction(ctx, *selected)
	}
}

func (a *app) printMenu(actions []menuAction) {
	fmt.Fprintln(a.stdout, "\n=== GitHub Repository Menu ===")
	for _, action := range actions {
		fmt.Fprintf(a.stdout, "%s) %s\n", action.key, action.label)
	}
	fmt.Fprintln(a.stdout, "0) Exit")
	fmt.Fprintln(a.stdout, "==============================")
}

// runAction runs one menu entry. Ctrl-C cancels only the running action, and a panic is
// reported instead of ending the session.
func (a *app) runAction(parent context.Context, action menuAction) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("action", action.label).Errorf("recovered from panic: %v", r)
			fmt.Fprintf(a.stdout, "An unexpected error occurred: %v\n", r)
		}
	}()

	err := action.run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		fmt.Fprintln(a.stdout, "\nCancelled by user.")
	case errors.Is(err, errInvalidInput):
		fmt.Fprintf(a.stdout, "%v\n", err)
	default:
		fmt.Fprintf(a.stdout, "Failed to %s: %v\n", action.failure, err)
	}
}

func (a *app) menuCreate(ctx context.Context) error {
	var in domain.CreateRepoInput
	var err error
	if in.Name, err = a.prompt.ask(ctx, "New repository name: "); err != nil {
		return err
	}
	if in.Name == "" {
		return invalidInput("repository name is required")
	}
	if in.Description, err = a.prompt.ask(ctx, "Description (optional): "); err != nil {
		return err
	}
	if in.Private, err = a.prompt.confirm(ctx, "Make it private?", false); err != nil {
		return err
	}
	if in.Org, err = a.prompt.ask(ctx, "Organization (empty for your account): "); err != nil {
		return err
	}
	return a.createRepo(ctx, in)
}

func (a *app) menuDelete(ctx context.Context) error {
	owner, err := a.prompt.ask(ctx, "Repository owner (empty = authenticated user): ")
	if err != nil {
		return err
	}
	name, err := a.prompt.ask(ctx, "Name of the repository to delete: ")
	if err != nil {
		return err
	}
	if name == "" {
		return invalidInput("repository name is required")
	}
	if owner, err = a.resolveOwner(ctx, owner); err != nil {
		return err
	}
	ok, err := a.prompt.confirm(ctx, fmt.Sprintf("Really delete %s/%s? This cannot be undone.", owner, name), false)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.stdout, "Cancelled.")
		return nil
	}
	return a.deleteRepo(ctx, owner, name)
}

func (a *app) menuList(ctx context.Context) error {
	answer, err := a.prompt.ask(ctx, "Visibility (all/public/private) [all]: ")
	if err != nil {
		return err
	}
	visibility, err := domain.ParseVisibility(answer)
	if err != nil {
		fmt.Fprintln(a.stdout, "Invalid visibility, using 'all'.")
		visibility = domain.VisibilityAll
	}

	answer, err = a.prompt.ask(ctx, fmt.Sprintf("Per page (number, default %d): ", usecase.DefaultPerPage))
	if err != nil {
		return err
	}
	perPage := usecase.DefaultPerPage
	if answer != "" {
		if n, convErr := strconv.Atoi(answer); convErr == nil && n > 0 {
			perPage = n
		}
	}
	return a.listRepos(ctx, visibility, perPage)
}

func (a *app) askOwnerAndName(ctx context.Context) (owner, name string, err error) {
	if owner, err = a.prompt.ask(ctx, "Repository owner: "); err != nil {
		return "", "", err
	}
	if name, err = a.prompt.ask(ctx, "Repository name: "); err != nil {
		return "", "", err
	}
	if owner == "" || name == "" {
		return "", "", invalidInput("repository owner and name are required")
	}
	return owner, name, nil
}

func (a *app) menuGet(ctx context.Context) error {
	owner, name, err := a.askOwnerAndName(ctx)
	if err != nil {
		return err
	}
	return a.getRepo(ctx, owner, name)
}

func (a *app) menuUpdate(ctx context.Context) error {
	owner, name, err := a.askOwnerAndName(ctx)
	if err != nil {
		return err
	}

	var update domain.RepoUpdate
	change, err := a.prompt.confirm(ctx, "Change the repository name?", false)
	if err != nil {
		return err
	}
	if change {
		newName, err := a.prompt.ask(ctx, "New name: ")
		if err != nil {
			return err
		}
		if newName != "" {
			update.Name = &newName
		}
	}

	if change, err = a.prompt.confirm(ctx, "Change the description?", false); err != nil {
		return err
	}
	if change {
		description, err := a.prompt.askRaw(ctx, "New description (empty = clear): ")
		if err != nil {
			return err
		}
		update.Description = &description
	}

	if change, err = a.prompt.confirm(ctx, "Change private/public?", false); err != nil {
		return err
	}
	if change {
		private, err := a.prompt.confirm(ctx, "Make it private?", false)
		if err != nil {
			return err
		}
		update.Private = &private
	}

	return a.updateRepo(ctx, owner, name, update)
}
