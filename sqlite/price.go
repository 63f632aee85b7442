package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/siftworks/metasift"
)

// Compile-time interface verification.
var _ metasift.PriceService = (*PriceService)(nil)

// PriceService implements metasift.PriceService using SQLite.
type PriceService struct {
	db *DB
}

// NewPriceService creates a new PriceService.
func NewPriceService(db *DB) *PriceService {
	return &PriceService{db: db}
}

// recordHash computes an xxHash over the fields that constitute a price
// change, as a hex string. The timestamp is deliberately excluded so that
// re-observing an unchanged price produces the same hash.
func recordHash(info *metasift.PriceInfo) string {
	price := ""
	if info.Price != nil {
		price = fmt.Sprintf("%.4f", *info.Price)
	}
	h := xxhash.Sum64String(strings.Join([]string{info.ASIN, price, info.Currency, info.Availability}, "|"))
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// RecordPrice appends an observation to the history.
func (s *PriceService) RecordPrice(ctx context.Context, info *metasift.PriceInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prices (id, url, asin, title, price, currency, symbol, availability, record_hash, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), info.URL, info.ASIN, info.Title, info.Price, info.Currency,
		info.Symbol, info.Availability, recordHash(info), info.Timestamp.UTC().Format(time.RFC3339))

	return err
}

// RecordChange appends info only if its record hash differs from the most
// recent observation for the same URL. Reports whether a row was written.
func (s *PriceService) RecordChange(ctx context.Context, info *metasift.PriceInfo) (bool, error) {
	if err := info.Validate(); err != nil {
		return false, err
	}

	var lastHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT record_hash FROM prices WHERE url = ? ORDER BY observed_at DESC, rowid DESC LIMIT 1
	`, info.URL).Scan(&lastHash)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	if err == nil && lastHash == recordHash(info) {
		return false, nil
	}

	if err := s.RecordPrice(ctx, info); err != nil {
		return false, err
	}
	return true, nil
}

// LastPrice retrieves the most recent observation for a URL.
func (s *PriceService) LastPrice(ctx context.Context, url string) (*metasift.PriceInfo, error) {
	var info metasift.PriceInfo
	var observedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT url, asin, title, price, currency, symbol, availability, observed_at
		FROM prices
		WHERE url = ?
		ORDER BY observed_at DESC, rowid DESC
		LIMIT 1
	`, url).Scan(&info.URL, &info.ASIN, &info.Title, &info.Price, &info.Currency,
		&info.Symbol, &info.Availability, &observedAt)

	if err == sql.ErrNoRows {
		return nil, metasift.Errorf(metasift.ENOTFOUND, "no price recorded for %q", url)
	}
	if err != nil {
		return nil, err
	}

	info.Timestamp, err = time.Parse(time.RFC3339, observedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse observed_at: %w", err)
	}

	return &info, nil
}

// FindPrices retrieves observations matching the filter, newest first.
func (s *PriceService) FindPrices(ctx context.Context, filter metasift.PriceFilter) ([]*metasift.PriceInfo, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT url, asin, title, price, currency, symbol, availability, observed_at FROM prices WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.ASIN != nil {
		query.WriteString(" AND asin = ?")
		args = append(args, *filter.ASIN)
	}

	query.WriteString(" ORDER BY observed_at DESC, rowid DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []*metasift.PriceInfo
	for rows.Next() {
		var info metasift.PriceInfo
		var observedAt string

		if err := rows.Scan(&info.URL, &info.ASIN, &info.Title, &info.Price, &info.Currency,
			&info.Symbol, &info.Availability, &observedAt); err != nil {
			return nil, err
		}

		info.Timestamp, err = time.Parse(time.RFC3339, observedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse observed_at: %w", err)
		}

		infos = append(infos, &info)
	}

	return infos, rows.Err()
}
