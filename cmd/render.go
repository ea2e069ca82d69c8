package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/github-repos/internal/domain"
)

var (
	createdFields = []string{"full_name", "html_url"}
	updatedFields = []string{"full_name", "description", "private", "html_url"}
	detailFields  = []string{
		"full_name", "description", "private", "html_url", "default_branch",
		"created_at", "updated_at", "stargazers_count", "forks_count",
	}
)

func printFields(w io.Writer, repo domain.Repository, keys ...string) {
	for _, key := range keys {
		fmt.Fprintf(w, "  %s: %s\n", key, repo.Field(key))
	}
}

func renderRepoTable(w io.Writer, repos []domain.Repository) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Full name", "Private", "URL"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for _, repo := range repos {
		table.Append([]string{repo.Field("full_name"), repo.Field("private"), repo.Field("html_url")})
	}
	table.Render()
	fmt.Fprintf(w, "Total: %d repositories\n", len(repos))
}
