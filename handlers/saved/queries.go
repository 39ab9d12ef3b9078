package saved

const (
	// ListSavedQuery joins each saved row with its opportunity, newest save first
	ListSavedQuery = `
		SELECT s.id, s.user_id, s.opportunity_id, s.notes, s.created_at,
			f.slug, f.title, f.provider, f.type, f.sector, f.amount_min, f.amount_max,
			f.amount_description, f.location, f.description, f.website_url, f.application_url,
			f.deadline, f.created_at, f.updated_at
		FROM saved_opportunities s
		JOIN funding_opportunities f ON f.id = s.opportunity_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC`

	InsertSavedQuery = `
		INSERT INTO saved_opportunities (user_id, opportunity_id, notes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	DeleteSavedQuery = `
		DELETE FROM saved_opportunities
		WHERE user_id = $1 AND opportunity_id = $2`

	UpdateNotesQuery = `
		UPDATE saved_opportunities
		SET notes = $3
		WHERE user_id = $1 AND opportunity_id = $2
		RETURNING id, user_id, opportunity_id, notes, created_at`

	IsSavedQuery = `
		SELECT EXISTS (
			SELECT 1 FROM saved_opportunities WHERE user_id = $1 AND opportunity_id = $2
		)`
)
