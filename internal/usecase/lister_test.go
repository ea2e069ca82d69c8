package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-repos/internal/domain"
)

// mockPageLister is a mock implementation of the PageLister interface.
type mockPageLister struct {
	mock.Mock
}

func (m *mockPageLister) ListRepos(ctx context.Context, visibility domain.Visibility, perPage, page int) ([]domain.Repository, error) {
	args := m.Called(ctx, visibility, perPage, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func repos(names ...string) []domain.Repository {
	out := make([]domain.Repository, 0, len(names))
	for _, name := range names {
		out = append(out, domain.Repository{"full_name": name})
	}
	return out
}

func TestRepoLister_ListAll(t *testing.T) {
	testCases := []struct {
		name           string
		visibility     domain.Visibility
		perPage        int
		wantVisibility domain.Visibility
		wantPerPage    int
		pages          [][]domain.Repository
		expectedResult []domain.Repository
	}{
		{
			name:           "concatenates pages in order until a short page",
			visibility:     domain.VisibilityPublic,
			perPage:        2,
			wantVisibility: domain.VisibilityPublic,
			wantPerPage:    2,
			pages:          [][]domain.Repository{repos("A", "B"), repos("C", "D"), repos("E")},
			expectedResult: repos("A", "B", "C", "D", "E"),
		},
		{
			name:           "empty first page yields an empty result after one call",
			visibility:     domain.VisibilityAll,
			perPage:        2,
			wantVisibility: domain.VisibilityAll,
			wantPerPage:    2,
			pages:          [][]domain.Repository{{}},
			expectedResult: []domain.Repository{},
		},
		{
			name:           "full page followed by an empty page",
			wantVisibility: domain.VisibilityAll,
			wantPerPage:    DefaultPerPage,
			pages:          [][]domain.Repository{repos(hundredNames()...), {}},
			expectedResult: repos(hundredNames()...),
		},
		{
			name:           "page size above the API cap is clamped",
			visibility:     domain.VisibilityPrivate,
			perPage:        500,
			wantVisibility: domain.VisibilityPrivate,
			wantPerPage:    MaxPerPage,
			pages:          [][]domain.Repository{repos("A")},
			expectedResult: repos("A"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			pages := new(mockPageLister)
			for i, batch := range tc.pages {
				pages.On("ListRepos", mock.Anything, tc.wantVisibility, tc.wantPerPage, i+1).Return(batch, nil).Once()
			}
			lister := NewRepoLister(pages, nil)

			// --- Act ---
			results, err := lister.ListAll(context.Background(), tc.visibility, tc.perPage)

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.expectedResult, results)
			pages.AssertExpectations(t)
			pages.AssertNumberOfCalls(t, "ListRepos", len(tc.pages))
		})
	}
}

func TestRepoLister_ListAll_PropagatesErrors(t *testing.T) {
	apiErr := errors.New("500 Internal Server Error")
	pages := new(mockPageLister)
	pages.On("ListRepos", mock.Anything, domain.VisibilityAll, 2, 1).Return(repos("A", "B"), nil).Once()
	pages.On("ListRepos", mock.Anything, domain.VisibilityAll, 2, 2).Return(nil, apiErr).Once()

	results, err := NewRepoLister(pages, nil).ListAll(context.Background(), domain.VisibilityAll, 2)

	assert.Nil(t, results)
	assert.ErrorIs(t, err, apiErr)
	assert.ErrorContains(t, err, "page 2")
	pages.AssertExpectations(t)
}

func TestRepoLister_ListAll_MaxPages(t *testing.T) {
	pages := new(mockPageLister)
	pages.On("ListRepos", mock.Anything, domain.VisibilityAll, 1, mock.AnythingOfType("int")).Return(repos("same"), nil)

	results, err := NewRepoLister(pages, nil, WithMaxPages(3)).ListAll(context.Background(), domain.VisibilityAll, 1)

	assert.ErrorIs(t, err, ErrPageLimit)
	assert.Equal(t, repos("same", "same", "same"), results)
	pages.AssertNumberOfCalls(t, "ListRepos", 3)
}

func hundredNames() []string {
	names := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		names = append(names, fmt.Sprintf("repo-%03d", i))
	}
	return names
}
