package funding

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

//go:embed mockdata.yaml
var mockDataset []byte

// MockDataset parses the embedded static opportunities.
func MockDataset() ([]SeedEntry, error) {
	return ParseSeed(bytes.NewReader(mockDataset))
}

// ParseSeed reads and validates a YAML dataset. Missing slugs are derived from titles.
func ParseSeed(r io.Reader) ([]SeedEntry, error) {
	var file SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}

	seen := make(map[string]bool, len(file.Opportunities))
	v := apperrors.NewValidation()
	for i := range file.Opportunities {
		e := &file.Opportunities[i]
		field := fmt.Sprintf("opportunities[%d]", i)

		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			v.Add(field+".title", "is required")
			continue
		}
		if e.Slug == "" {
			e.Slug = Normalize(e.Title)
		}
		if seen[e.Slug] {
			v.Add(field+".slug", fmt.Sprintf("duplicate slug %q", e.Slug))
		}
		seen[e.Slug] = true

		if e.Type == "" {
			e.Type = models.FundingTypeGrant
		}
		if !models.IsValidFundingType(e.Type) {
			v.Add(field+".type", fmt.Sprintf("unknown type %q", e.Type))
		}

		if e.Details != nil {
			data, err := json.Marshal(e.Details)
			if err != nil {
				v.Add(field+".details", "must be a JSON-compatible map")
				continue
			}
			e.FundingOpportunity.Details = data
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return file.Opportunities, nil
}

// Importer bulk-loads seed datasets over a pgx connection.
type Importer struct {
	conn  *pgx.Conn
	cache *CachedCatalog
}

func NewImporter(conn *pgx.Conn) *Importer {
	return &Importer{conn: conn}
}

// WithCache makes a successful import drop the cached catalog.
func (im *Importer) WithCache(cache *CachedCatalog) *Importer {
	im.cache = cache
	return im
}

// Import copies entries into a staging table and upserts them by slug in one transaction.
func (im *Importer) Import(ctx context.Context, entries []SeedEntry) (int64, error) {
	tx, err := im.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, CreateStagingTableQuery); err != nil {
		return 0, fmt.Errorf("failed to create staging table: %w", err)
	}

	rows := make([][]any, len(entries))
	for i, e := range entries {
		o := e.FundingOpportunity
		rows[i] = []any{
			o.Slug, o.Title, o.Provider, o.Type, o.Sector, o.AmountMin, o.AmountMax,
			o.AmountDescription, o.Location, o.Description, o.WebsiteURL, o.ApplicationURL,
			o.EquityTerms, string(detailsOrEmpty(&o)), o.Deadline,
		}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"funding_staging"}, stagingColumns, pgx.CopyFromRows(rows)); err != nil {
		return 0, fmt.Errorf("failed to copy seed rows: %w", err)
	}

	tag, err := tx.Exec(ctx, UpsertFromStagingQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert seed rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit seed import: %w", err)
	}
	if im.cache != nil {
		im.cache.Invalidate(ctx)
	}
	return tag.RowsAffected(), nil
}
