// Package allowlist implements the authentication source of truth: an
// externally maintained table of authorized emails with expiry flags.
// Sources are spreadsheet-shaped: a header row naming email/name/date/
// expire columns followed by data rows, whether read from a local CSV
// file or a published-sheet CSV export.
package allowlist

import (
	"context"
	"strings"
)

// Member is a granted allow-list row.
type Member struct {
	Email string
	Name  string
	Date  string
}

// Directory resolves an email against the allow-list.
type Directory interface {
	// Lookup returns the member for email. ErrNotFound when absent,
	// ErrExpired when the row's expire flag is TRUE, ErrBadRow when the
	// flag is neither TRUE nor FALSE.
	Lookup(ctx context.Context, email string) (Member, error)
}

// columns holds header indexes resolved case-insensitively.
type columns struct {
	email  int
	name   int
	date   int
	expire int
}

func resolveColumns(header []string) (columns, error) {
	c := columns{email: -1, name: -1, date: -1, expire: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email":
			c.email = i
		case "name":
			c.name = i
		case "date":
			c.date = i
		case "expire":
			c.expire = i
		}
	}
	if c.email == -1 {
		return c, ErrNoEmailColumn
	}
	return c, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// lookup applies the allow-list decision semantics to parsed rows. The
// first row is the header.
func lookup(rows [][]string, email string) (Member, error) {
	if len(rows) == 0 {
		return Member{}, ErrEmpty
	}
	cols, err := resolveColumns(rows[0])
	if err != nil {
		return Member{}, err
	}

	want := strings.ToLower(strings.TrimSpace(email))
	for _, row := range rows[1:] {
		got := strings.ToLower(strings.TrimSpace(cell(row, cols.email)))
		if got == "" || got != want {
			continue
		}

		switch strings.ToUpper(strings.TrimSpace(cell(row, cols.expire))) {
		case "TRUE":
			return Member{}, ErrExpired
		case "FALSE":
			name := cell(row, cols.name)
			if name == "" {
				name = "User"
			}
			return Member{
				Email: cell(row, cols.email),
				Name:  name,
				Date:  cell(row, cols.date),
			}, nil
		default:
			return Member{}, ErrBadRow
		}
	}
	return Member{}, ErrNotFound
}
