package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

// fileStemLayout is the file name layout for daily rate artifacts
const fileStemLayout = "2006_01_02"

// artifact is the on-disk form of a quote. The date is serialized as a
// plain YYYY-MM-DD string under the upstream "data" key
type artifact struct {
	Code string  `json:"code"`
	Name string  `json:"currency"`
	Mid  float64 `json:"mid"`
	Data string  `json:"data"`
}

// Store persists quotes as one JSON file per (currency, date) pair,
// organized into per-currency subdirectories. Rewriting a pair
// overwrites the existing file, so re-runs are last-write-wins
type Store struct {
	root string
}

// NewStore creates a new file-tree quote store rooted at root
func NewStore(root string) *Store {
	return &Store{
		root: root,
	}
}

// Name returns the name of the store, for sink logging
func (s *Store) Name() string {
	return "file"
}

func (s *Store) SaveRate(_ context.Context, quote *types.Quote) error {
	dir := filepath.Join(s.root, quote.Code.Lower())

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create currency directory: %w", err)
	}

	raw, err := json.Marshal(artifact{
		Code: quote.Code.String(),
		Name: quote.Name,
		Mid:  quote.Mid,
		Data: quote.Date.Format(time.DateOnly),
	})
	if err != nil {
		return fmt.Errorf("unable to marshal quote: %w", err)
	}

	path := filepath.Join(dir, quote.Date.Format(fileStemLayout)+".json")

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("unable to write quote file: %w", err)
	}

	return nil
}

// Path returns the artifact path for the given (currency, date) pair
func (s *Store) Path(code types.Currency, day time.Time) string {
	return filepath.Join(
		s.root,
		code.Lower(),
		day.Format(fileStemLayout)+".json",
	)
}
