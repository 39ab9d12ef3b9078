package profile

// [AI_QUERIES_START]
// QUERIES:
// {
//   "profile": {
//     "select_profile": "Retrieves a profile with the account email",
//     "select_startup": "Retrieves a founder's startup extension",
//     "select_investor": "Retrieves an investor's preferences",
//     "update_profile": "Overwrites the common profile fields and derived status",
//     "upsert_startup": "Creates or updates the startup extension",
//     "upsert_investor": "Creates or updates the investor extension",
//     "mark_wizard_completed": "Stamps wizard completion"
//   }
// }
// [AI_QUERIES_END]

const (
	// SelectProfileQuery retrieves a profile joined with its account email
	SelectProfileQuery = `
		SELECT
			p.id,
			u.email,
			p.full_name,
			p.bio,
			p.avatar_url,
			p.linkedin_url,
			p.company_name,
			p.user_type,
			p.status,
			p.wizard_completed_at,
			p.created_at,
			p.updated_at
		FROM profiles p
		JOIN users u ON u.id = p.id
		WHERE p.id = $1
	`

	// SelectProfileForUpdateQuery locks the profile row for the duration of a save
	SelectProfileForUpdateQuery = SelectProfileQuery + ` FOR UPDATE OF p`

	SelectStartupQuery = `
		SELECT profile_id, sector, stage, description, website, logo_url, location, created_at, updated_at
		FROM startups
		WHERE profile_id = $1
	`

	SelectInvestorQuery = `
		SELECT profile_id, investment_thesis, investment_stages, preferred_industries, created_at, updated_at
		FROM investor_profiles
		WHERE profile_id = $1
	`

	UpdateProfileQuery = `
		UPDATE profiles
		SET full_name = $1,
			bio = $2,
			avatar_url = $3,
			linkedin_url = $4,
			company_name = $5,
			status = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	UpsertStartupQuery = `
		INSERT INTO startups (profile_id, sector, stage, description, website, logo_url, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (profile_id) DO UPDATE SET
			sector = EXCLUDED.sector,
			stage = EXCLUDED.stage,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			logo_url = EXCLUDED.logo_url,
			location = EXCLUDED.location,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	UpsertInvestorQuery = `
		INSERT INTO investor_profiles (profile_id, investment_thesis, investment_stages, preferred_industries)
		VALUES ($1, $2, $3::text[], $4::text[])
		ON CONFLICT (profile_id) DO UPDATE SET
			investment_thesis = EXCLUDED.investment_thesis,
			investment_stages = EXCLUDED.investment_stages,
			preferred_industries = EXCLUDED.preferred_industries,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	MarkWizardCompletedQuery = `
		UPDATE profiles
		SET wizard_completed_at = COALESCE(wizard_completed_at, $1), updated_at = NOW()
		WHERE id = $2
	`
)
