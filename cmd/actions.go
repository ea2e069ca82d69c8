package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/naka-gawa/github-repos/internal/domain"
	"github.com/naka-gawa/github-repos/internal/usecase"
)

// errInvalidInput marks problems caught before any request is sent.
var errInvalidInput = errors.New("invalid input")

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", errInvalidInput, msg)
}

// parseRepoRef splits "owner/name". When ownerOptional is set a bare "name" is accepted
// and the owner is returned empty.
func parseRepoRef(ref string, ownerOptional bool) (owner, name string, err error) {
	owner, name, found := strings.Cut(strings.TrimSpace(ref), "/")
	if !found {
		owner, name = "", owner
	}
	if name == "" || strings.Contains(name, "/") {
		return "", "", invalidInput(fmt.Sprintf("repository %q must look like OWNER/NAME", ref))
	}
	if owner == "" && (found || !ownerOptional) {
		return "", "", invalidInput(fmt.Sprintf("repository %q must look like OWNER/NAME", ref))
	}
	return owner, name, nil
}

func (a *app) whoami(ctx context.Context) error {
	login, err := a.gateway.AuthenticatedUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Authenticated as: %s\n", login)
	return nil
}

func (a *app) createRepo(ctx context.Context, in domain.CreateRepoInput) error {
	if in.Name == "" {
		return invalidInput("repository name is required")
	}
	repo, err := a.gateway.CreateRepo(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Repository created:")
	printFields(a.stdout, repo, createdFields...)
	return nil
}

// resolveOwner falls back to the authenticated user when owner is empty.
func (a *app) resolveOwner(ctx context.Context, owner string) (string, error) {
	if owner != "" {
		return owner, nil
	}
	login, err := a.gateway.AuthenticatedUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to look up the authenticated user: %w", err)
	}
	return login, nil
}

func (a *app) deleteRepo(ctx context.Context, owner, name string) error {
	if err := a.gateway.DeleteRepo(ctx, owner, name); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Repository %s/%s deleted.\n", owner, name)
	return nil
}

func (a *app) listRepos(ctx context.Context, visibility domain.Visibility, perPage int) error {
	repos, err := a.lister.ListAll(ctx, visibility, perPage)
	if errors.Is(err, usecase.ErrPageLimit) {
		a.logger.WithError(err).Warn("Repository list is incomplete")
		fmt.Fprintf(a.stdout, "Stopped after %d pages; the list below may be incomplete.\n", a.maxPages)
	} else if err != nil {
		return err
	}
	renderRepoTable(a.stdout, repos)
	return nil
}

func (a *app) getRepo(ctx context.Context, owner, name string) error {
	repo, err := a.gateway.GetRepo(ctx, owner, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Repository:")
	printFields(a.stdout, repo, detailFields...)
	return nil
}

func (a *app) updateRepo(ctx context.Context, owner, name string, update domain.RepoUpdate) error {
	if update.IsEmpty() {
		return invalidInput("no changes given")
	}
	repo, err := a.gateway.UpdateRepo(ctx, owner, name, update)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Update succeeded. Latest data:")
	printFields(a.stdout, repo, updatedFields...)
	return nil
}
