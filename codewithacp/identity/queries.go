package identity

const (
	queryCreateUser = `
		INSERT INTO users (name, email, email_verified, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, email_verified, image
	`

	queryGetUser = `
		SELECT id, name, email, email_verified, image
		FROM users
		WHERE id = $1
	`

	queryGetUserByEmail = `
		SELECT id, name, email, email_verified, image
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	queryGetUserByAccount = `
		SELECT u.id, u.name, u.email, u.email_verified, u.image
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE a.provider = $1 AND a.provider_account_id = $2
	`

	queryUpdateUser = `
		UPDATE users
		SET name = $2, email = $3, email_verified = $4, image = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, email_verified, image
	`

	queryDeleteUser = `
		DELETE FROM users
		WHERE id = $1
	`

	queryLinkAccount = `
		INSERT INTO accounts (
			user_id, type, provider, provider_account_id, refresh_token, access_token,
			expires_at, token_type, scope, id_token, session_state
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	queryUnlinkAccount = `
		DELETE FROM accounts
		WHERE provider = $1 AND provider_account_id = $2
	`

	queryCreateSession = `
		INSERT INTO sessions (session_token, user_id, expires)
		VALUES ($1, $2, $3)
		RETURNING session_token, user_id, expires
	`

	queryGetSessionAndUser = `
		SELECT s.session_token, s.user_id, s.expires,
			u.id, u.name, u.email, u.email_verified, u.image
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.session_token = $1
	`

	queryUpdateSession = `
		UPDATE sessions
		SET expires = $2
		WHERE session_token = $1
		RETURNING session_token, user_id, expires
	`

	queryDeleteSession = `
		DELETE FROM sessions
		WHERE session_token = $1
	`

	queryCreateVerificationToken = `
		INSERT INTO verification_tokens (identifier, token, expires)
		VALUES ($1, $2, $3)
		RETURNING identifier, token, expires
	`

	queryUseVerificationToken = `
		DELETE FROM verification_tokens
		WHERE identifier = $1 AND token = $2
		RETURNING identifier, token, expires
	`

	queryDeleteExpiredSessions = `
		DELETE FROM sessions
		WHERE expires <= $1
	`

	queryDeleteExpiredVerificationTokens = `
		DELETE FROM verification_tokens
		WHERE expires <= $1
	`
)
