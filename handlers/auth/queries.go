package auth

const (
	InsertUserQuery = `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	InsertProfileQuery = `
		INSERT INTO profiles (id, full_name, user_type)
		VALUES ($1, $2, $3)
	`

	SelectUserByEmailQuery = `
		SELECT u.id, u.email, u.password_hash, p.user_type, u.created_at
		FROM users u
		JOIN profiles p ON p.id = u.id
		WHERE lower(u.email) = lower($1)
	`

	SelectUserByIDQuery = `
		SELECT u.id, u.email, u.password_hash, p.user_type, u.created_at
		FROM users u
		JOIN profiles p ON p.id = u.id
		WHERE u.id = $1
	`

	UpdatePasswordQuery = `UPDATE users SET password_hash = $1 WHERE id = $2`

	InsertTokenQuery = `
		INSERT INTO tokens (user_id, token, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	TokenActiveQuery = `
		SELECT EXISTS (
			SELECT 1 FROM tokens
			WHERE token = $1 AND purpose = 'session' AND expires_at > NOW()
		)
	`

	DeleteTokenQuery = `DELETE FROM tokens WHERE token = $1 AND purpose = 'session' RETURNING user_id`

	// ConsumeRecoveryTokenQuery deletes an unexpired recovery token so it can be used once.
	ConsumeRecoveryTokenQuery = `
		DELETE FROM tokens
		WHERE token = $1 AND purpose = 'recovery' AND expires_at > NOW()
		RETURNING user_id
	`

	DeleteUserTokensQuery = `DELETE FROM tokens WHERE user_id = $1`

	PurgeExpiredTokensQuery = `DELETE FROM tokens WHERE expires_at <= $1`
)
