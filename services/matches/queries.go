package matches

const (
	// SelectSubjectQuery loads the attributes a user is matched on.
	SelectSubjectQuery = `
		SELECT p.user_type,
			COALESCE(s.sector, ''), COALESCE(s.stage, ''),
			COALESCE(i.investment_stages, '{}'), COALESCE(i.preferred_industries, '{}')
		FROM profiles p
		LEFT JOIN startups s ON s.profile_id = p.id
		LEFT JOIN investor_profiles i ON i.profile_id = p.id
		WHERE p.id = $1`

	// openConnectionFilter drops anyone the subject ($1) is already pending or connected with.
	openConnectionFilter = `
		AND NOT EXISTS (
			SELECT 1 FROM connections c
			WHERE c.status IN ('pending', 'accepted')
			  AND ((c.requester_id = $1 AND c.recipient_id = p.id)
			    OR (c.requester_id = p.id AND c.recipient_id = $1))
		)`

	// SelectInvestorCandidatesQuery finds active investors sharing the startup's
	// sector ($2) or stage ($3).
	SelectInvestorCandidatesQuery = `
		SELECT p.id, p.full_name, p.avatar_url, p.company_name, '', '',
			i.investment_stages, i.preferred_industries
		FROM profiles p
		JOIN investor_profiles i ON i.profile_id = p.id
		WHERE p.user_type = 'investor'
		  AND p.status = 'active'
		  AND p.id <> $1
		  AND ($2 = ANY(i.preferred_industries) OR $3 = ANY(i.investment_stages))` + openConnectionFilter

	// SelectFounderCandidatesQuery finds active founders whose startup sector is in
	// $2 or whose stage is in $3.
	SelectFounderCandidatesQuery = `
		SELECT p.id, p.full_name, p.avatar_url, p.company_name, s.sector, s.stage,
			'{}'::text[], '{}'::text[]
		FROM profiles p
		JOIN startups s ON s.profile_id = p.id
		WHERE p.user_type = 'founder'
		  AND p.status = 'active'
		  AND p.id <> $1
		  AND (s.sector = ANY($2::text[]) OR s.stage = ANY($3::text[]))` + openConnectionFilter
)
