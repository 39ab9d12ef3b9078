package notifications

const (
	InsertNotificationQuery = `
		INSERT INTO notifications (user_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at
	`

	// ListNotificationsQuery orders newest first; $2 restricts to unread rows when true
	ListNotificationsQuery = `
		SELECT id, user_id, type, title, message, data, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2::boolean = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	CountUnreadQuery = `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE
	`

	MarkReadQuery = `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`

	MarkAllReadQuery = `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`

	DeleteNotificationQuery = `
		DELETE FROM notifications WHERE id = $1 AND user_id = $2
	`

	DeleteAllNotificationsQuery = `
		DELETE FROM notifications WHERE user_id = $1
	`
)
