// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/github-repos/internal/domain"
)

const (
	// DefaultPerPage is the page size used when the caller does not pick one.
	DefaultPerPage = 100
	// MaxPerPage is the largest page size the GitHub API honours.
	MaxPerPage = 100
)

// ErrPageLimit is returned when the configured page bound is reached before a short page.
var ErrPageLimit = errors.New("page limit reached before the last page")

// PageLister fetches a single page of repositories.
type PageLister interface {
	ListRepos(ctx context.Context, visibility domain.Visibility, perPage, page int) ([]domain.Repository, error)
}

// RepoLister flattens the page-at-a-time listing into one ordered slice.
type RepoLister struct {
	pages    PageLister
	logger   logrus.FieldLogger
	maxPages int
}

// ListerOption configures a RepoLister.
type ListerOption func(*RepoLister)

// WithMaxPages bounds the number of pages fetched. n <= 0 means no bound.
func WithMaxPages(n int) ListerOption {
	return func(l *RepoLister) { l.maxPages = n }
}

// NewRepoLister creates a new RepoLister instance.
func NewRepoLister(pages PageLister, logger logrus.FieldLogger, opts ...ListerOption) *RepoLister {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	l := &RepoLister{
		pages:  pages,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListAll walks the pages starting at 1 until a page comes back empty or shorter than perPage.
// Items keep the order in which the server returned them. When the page bound is hit the
// items gathered so far are returned along with ErrPageLimit.
func (l *RepoLister) ListAll(ctx context.Context, visibility domain.Visibility, perPage int) ([]domain.Repository, error) {
	if visibility == "" {
		visibility = domain.VisibilityAll
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		l.logger.Debugf("Usecase: clamping page size %d to %d", perPage, MaxPerPage)
		perPage = MaxPerPage
	}

	results := make([]domain.Repository, 0)
	for page := 1; ; page++ {
		if l.maxPages > 0 && page > l.maxPages {
			return results, fmt.Errorf("%w (%d pages of %d)", ErrPageLimit, l.maxPages, perPage)
		}
		l.logger.Debugf("Usecase: fetching page %d (visibility=%s, per_page=%d)", page, visibility, perPage)
		batch, err := l.pages.ListRepos(ctx, visibility, perPage, page)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories (page %d): %w", page, err)
		}
		results = append(results, batch...)
		if len(batch) == 0 || len(batch) < perPage {
			break
		}
	}
	l.logger.Debugf("Usecase: listed %d repositories", len(results))
	return results, nil
}
