package pitch

const (
	pitchColumns = `id, founder_id, title, summary, problem, solution, market, business_model,
		traction, team, funding_ask, deck_url, status, created_at, updated_at`

	InsertPitchQuery = `
		INSERT INTO pitches (founder_id, title, summary, problem, solution, market, business_model,
			traction, team, funding_ask, deck_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + pitchColumns

	SelectPitchQuery = `SELECT ` + pitchColumns + ` FROM pitches WHERE id = $1`

	// UpdatePitchQuery only touches rows owned by the founder in $2
	UpdatePitchQuery = `
		UPDATE pitches
		SET title = $3, summary = $4, problem = $5, solution = $6, market = $7, business_model = $8,
			traction = $9, team = $10, funding_ask = $11, deck_url = $12, status = $13, updated_at = NOW()
		WHERE id = $1 AND founder_id = $2
		RETURNING ` + pitchColumns

	DeletePitchQuery = `DELETE FROM pitches WHERE id = $1 AND founder_id = $2`

	SelectFounderPitchesQuery = `
		SELECT ` + pitchColumns + `
		FROM pitches
		WHERE founder_id = $1
		ORDER BY updated_at DESC`

	SelectPublishedPitchesQuery = `
		SELECT ` + pitchColumns + `
		FROM pitches
		WHERE status = 'published'
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2`

	feedbackColumns = `f.id, f.pitch_id, f.investor_id, COALESCE(p.full_name, ''),
		f.problem_rating, f.problem_feedback, f.solution_rating, f.solution_feedback,
		f.market_rating, f.market_feedback, f.business_model_rating, f.business_model_feedback,
		f.traction_rating, f.traction_feedback, f.team_rating, f.team_feedback,
		f.overall_rating, f.investment_interest, f.comments, f.created_at`

	InsertFeedbackQuery = `
		INSERT INTO pitch_feedback (pitch_id, investor_id,
			problem_rating, problem_feedback, solution_rating, solution_feedback,
			market_rating, market_feedback, business_model_rating, business_model_feedback,
			traction_rating, traction_feedback, team_rating, team_feedback,
			overall_rating, investment_interest, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`

	SelectFeedbackQuery = `
		SELECT ` + feedbackColumns + `
		FROM pitch_feedback f
		LEFT JOIN profiles p ON p.id = f.investor_id
		WHERE f.pitch_id = $1
		ORDER BY f.created_at DESC`
)
