package payments

const (
	queryCreate = `
		INSERT INTO payments (user_id, course_id, stripe_payment_intent_id, amount, currency, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, course_id, stripe_payment_intent_id, amount, currency, payment_method, status, created_at, updated_at
	`

	queryFindByIntentID = `
		SELECT id, user_id, course_id, stripe_payment_intent_id, amount, currency, payment_method, status, created_at, updated_at
		FROM payments
		WHERE stripe_payment_intent_id = $1
	`

	// single guarded statement; a row that may not take the new status is left alone
	queryTransition = `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE stripe_payment_intent_id = $1
			AND status <> $2
			AND (status = 'PENDING' OR (status = 'FAILED' AND $2 = 'COMPLETED'))
		RETURNING id, user_id, course_id, stripe_payment_intent_id, amount, currency, payment_method, status, created_at, updated_at
	`

	queryListByUser = `
		SELECT id, user_id, course_id, stripe_payment_intent_id, amount, currency, payment_method, status, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
)
