package funding

const (
	opportunityColumns = `id, slug, title, provider, type, sector, amount_min, amount_max, amount_description,
		location, description, website_url, application_url, equity_terms, details, deadline, created_at, updated_at`

	// ListOpportunitiesQuery applies optional filters; empty strings disable a filter
	ListOpportunitiesQuery = `
		SELECT ` + opportunityColumns + `
		FROM funding_opportunities
		WHERE ($1::text = '' OR type = $1)
		  AND ($2::text = '' OR sector = $2)
		  AND ($3::text = '' OR location ILIKE '%' || $3 || '%')
		  AND ($4::text = '' OR title ILIKE '%' || $4 || '%' OR provider ILIKE '%' || $4 || '%')
		ORDER BY deadline ASC NULLS LAST, title ASC
		LIMIT $5 OFFSET $6
	`

	SelectAllOpportunitiesQuery = `
		SELECT ` + opportunityColumns + `
		FROM funding_opportunities
		ORDER BY title ASC
	`

	SelectOpportunityQuery = `
		SELECT ` + opportunityColumns + `
		FROM funding_opportunities
		WHERE id = $1
	`

	// SelectRecommendedQuery prefers the sector and falls back to sector-agnostic entries
	SelectRecommendedQuery = `
		SELECT ` + opportunityColumns + `
		FROM funding_opportunities
		WHERE sector = $1 OR sector = ''
		ORDER BY (sector = $1) DESC, deadline ASC NULLS LAST, title ASC
		LIMIT $2
	`

	InsertOpportunityQuery = `
		INSERT INTO funding_opportunities (slug, title, provider, type, sector, amount_min, amount_max,
			amount_description, location, description, website_url, application_url, equity_terms, details, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + opportunityColumns

	UpdateOpportunityQuery = `
		UPDATE funding_opportunities
		SET slug = $1, title = $2, provider = $3, type = $4, sector = $5, amount_min = $6, amount_max = $7,
			amount_description = $8, location = $9, description = $10, website_url = $11,
			application_url = $12, equity_terms = $13, details = $14, deadline = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING ` + opportunityColumns

	DeleteOpportunityQuery = `DELETE FROM funding_opportunities WHERE id = $1`

	// Seed import runs through a staging table so the upsert is one statement.
	CreateStagingTableQuery = `
		CREATE TEMP TABLE funding_staging
			(LIKE funding_opportunities INCLUDING DEFAULTS)
			ON COMMIT DROP
	`

	UpsertFromStagingQuery = `
		INSERT INTO funding_opportunities (slug, title, provider, type, sector, amount_min, amount_max,
			amount_description, location, description, website_url, application_url, equity_terms, details, deadline)
		SELECT slug, title, provider, type, sector, amount_min, amount_max,
			amount_description, location, description, website_url, application_url, equity_terms, details, deadline
		FROM funding_staging
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			provider = EXCLUDED.provider,
			type = EXCLUDED.type,
			sector = EXCLUDED.sector,
			amount_min = EXCLUDED.amount_min,
			amount_max = EXCLUDED.amount_max,
			amount_description = EXCLUDED.amount_description,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			website_url = EXCLUDED.website_url,
			application_url = EXCLUDED.application_url,
			equity_terms = EXCLUDED.equity_terms,
			details = EXCLUDED.details,
			deadline = EXCLUDED.deadline,
			updated_at = NOW()
	`
)

// stagingColumns are copied by CopyFrom, in row order.
var stagingColumns = []string{
	"slug", "title", "provider", "type", "sector", "amount_min", "amount_max",
	"amount_description", "location", "description", "website_url", "application_url",
	"equity_terms", "details", "deadline",
}
