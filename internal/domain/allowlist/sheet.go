package allowlist

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"
)

const defaultSheetTimeout = 10 * time.Second

// Sheet reads the allow-list from a published spreadsheet's CSV export URL.
// Every lookup fetches a fresh copy: the sheet is the source of truth and
// its maintainers edit it live.
type Sheet struct {
	url    string
	client *http.Client
}

// SheetOption applies a configuration option to the Sheet directory.
type SheetOption func(*Sheet)

// WithHTTPClient sets a custom HTTP client (mainly for tests).
func WithHTTPClient(client *http.Client) SheetOption {
	return func(s *Sheet) {
		if client != nil {
			s.client = client
		}
	}
}

// NewSheet creates a sheet-export-backed directory.
func NewSheet(url string, opts ...SheetOption) *Sheet {
	s := &Sheet{
		url:    url,
		client: &http.Client{Timeout: defaultSheetTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup implements Directory.
func (s *Sheet) Lookup(ctx context.Context, email string) (Member, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Member{}, fmt.Errorf("%w: %v", ErrSource, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Member{}, fmt.Errorf("%w: %v", ErrSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Member{}, fmt.Errorf("%w: sheet export returned %d", ErrSource, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Member{}, fmt.Errorf("%w: %v", ErrSource, err)
	}
	return lookup(rows, email)
}
