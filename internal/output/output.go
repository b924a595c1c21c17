// Package output renders profiles and search results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/spigell/talent-discovery/internal/logger"
	"github.com/spigell/talent-discovery/internal/profile"
	"github.com/spigell/talent-discovery/internal/search"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"

	cellWidth = 40
)

// Write renders data in the given format.
func Write(w io.Writer, format string, data any) error {
	switch format {
	case FormatJSON:
		return JSON(w, data)
	case FormatTable, "":
		return Table(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Table writes data as a table. Supported types are profile lists, a single
// profile and a search ranking.
func Table(w io.Writer, data any) error {
	switch v := data.(type) {
	case []profile.Profile:
		return profilesTable(w, v)
	case *profile.Profile:
		return profileDetail(w, v)
	case *search.Ranking:
		return rankingTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func profilesTable(w io.Writer, profiles []profile.Profile) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(w, "No profiles found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Skills", "Interests")
	for _, p := range profiles {
		if err := table.Append(p.ID, p.Name, cell(p.Skills), cell(p.Interests)); err != nil {
			return err
		}
	}
	return table.Render()
}

func profileDetail(w io.Writer, p *profile.Profile) error {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")

	rows := [][]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Bio", logger.Truncate(p.Bio, 2*cellWidth)},
		{"Skills", strings.Join(p.Skills, ", ")},
		{"Interests", strings.Join(p.Interests, ", ")},
	}
	if p.GitHubURL != "" {
		rows = append(rows, []string{"GitHub", p.GitHubURL})
	}
	if p.LinkedInURL != "" {
		rows = append(rows, []string{"LinkedIn", p.LinkedInURL})
	}
	rows = append(rows,
		[]string{"Created", formatTime(p.CreatedAt)},
		[]string{"Updated", formatTime(p.UpdatedAt)},
	)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func rankingTable(w io.Writer, r *search.Ranking) error {
	header := fmt.Sprintf("Ranked by: %s", r.RankedBy)
	if r.FallbackReason != "" {
		header += fmt.Sprintf(" (%s)", logger.Truncate(r.FallbackReason, 2*cellWidth))
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	if len(r.Matches) == 0 {
		_, err := fmt.Fprintln(w, "No matching profiles found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Score", "Name", "Skills", "Reason")
	for _, m := range r.Matches {
		if err := table.Append(strconv.Itoa(m.Score), m.Name, cell(m.Skills), logger.Truncate(m.MatchReason, 2*cellWidth)); err != nil {
			return err
		}
	}
	return table.Render()
}

func cell(items []string) string {
	return logger.Truncate(strings.Join(items, ", "), cellWidth)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
