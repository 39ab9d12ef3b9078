package connection

// Connection queries
const (
	connectionColumns = `c.id, c.requester_id, c.recipient_id, c.status, c.message, c.created_at, c.updated_at`

	InsertConnectionQuery = `
		INSERT INTO connections (requester_id, recipient_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at
	`

	SelectConnectionQuery = `
		SELECT ` + connectionColumns + `
		FROM connections c
		WHERE c.id = $1
	`

	// SelectLatestBetweenQuery matches exactly the pair, in either direction
	SelectLatestBetweenQuery = `
		SELECT ` + connectionColumns + `
		FROM connections c
		WHERE (c.requester_id = $1 AND c.recipient_id = $2)
		   OR (c.requester_id = $2 AND c.recipient_id = $1)
		ORDER BY c.created_at DESC
		LIMIT 1
	`

	// UpdatePendingStatusQuery only moves connections out of pending
	UpdatePendingStatusQuery = `
		UPDATE connections c
		SET status = $1, updated_at = NOW()
		WHERE c.id = $2 AND c.status = 'pending'
		RETURNING ` + connectionColumns

	// SelectRequestedQuery lists connections the user started, with the recipient's display fields
	SelectRequestedQuery = `
		SELECT ` + connectionColumns + `, p.id, p.full_name, p.avatar_url
		FROM connections c
		JOIN profiles p ON p.id = c.recipient_id
		WHERE c.requester_id = $1
		ORDER BY c.created_at DESC
	`

	// SelectReceivedQuery lists connections addressed to the user, with the requester's display fields
	SelectReceivedQuery = `
		SELECT ` + connectionColumns + `, p.id, p.full_name, p.avatar_url
		FROM connections c
		JOIN profiles p ON p.id = c.requester_id
		WHERE c.recipient_id = $1
		ORDER BY c.created_at DESC
	`

	SelectPendingReceivedQuery = `
		SELECT ` + connectionColumns + `, p.id, p.full_name, p.avatar_url
		FROM connections c
		JOIN profiles p ON p.id = c.requester_id
		WHERE c.recipient_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC
	`

	DeleteConnectionQuery = `DELETE FROM connections WHERE id = $1`

	SelectDisplayNameQuery = `SELECT full_name FROM profiles WHERE id = $1`
)
