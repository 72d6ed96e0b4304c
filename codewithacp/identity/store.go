package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/codewithacp/server/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// postgres invalid_text_representation, raised when an id is not a uuid
const codeInvalidTextRepresentation = "22P02"

var _ Adapter = (*Store)(nil)

// creates a new postgres identity store
func NewStore(db database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, user *User) (*User, error) {
	created, err := scanUser(s.db.QueryRow(
		ctx,
		queryCreateUser,
		user.Name,
		user.Email,
		user.EmailVerified,
		user.Image,
	))

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	return s.findUser(ctx, "get user", queryGetUser, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.findUser(ctx, "get user by email", queryGetUserByEmail, email)
}

// joins the linked account back to its owning user
func (s *Store) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*User, error) {
	return s.findUser(ctx, "get user by account", queryGetUserByAccount, provider, providerAccountID)
}

func (s *Store) UpdateUser(ctx context.Context, user *User) (*User, error) {
	updated, err := scanUser(s.db.QueryRow(
		ctx,
		queryUpdateUser,
		user.ID,
		user.Name,
		user.Email,
		user.EmailVerified,
		user.Image,
	))

	if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// removes the user; accounts, sessions and enrollments cascade
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, queryDeleteUser, id); err != nil && !isMalformedID(err) {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *Store) LinkAccount(ctx context.Context, account *Account) (*Account, error) {
	linked := *account

	err := s.db.QueryRow(
		ctx,
		queryLinkAccount,
		account.UserID,
		account.Type,
		account.Provider,
		account.ProviderAccountID,
		account.RefreshToken,
		account.AccessToken,
		account.ExpiresAt,
		account.TokenType,
		account.Scope,
		account.IDToken,
		account.SessionState,
	).Scan(&linked.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to link account: %w", err)
	}

	return &linked, nil
}

func (s *Store) UnlinkAccount(ctx context.Context, provider, providerAccountID string) error {
	if _, err := s.db.Exec(ctx, queryUnlinkAccount, provider, providerAccountID); err != nil {
		return fmt.Errorf("failed to unlink account: %w", err)
	}

	return nil
}

func (s *Store) CreateSession(ctx context.Context, session *Session) (*Session, error) {
	created, err := scanSession(s.db.QueryRow(
		ctx,
		queryCreateSession,
		session.SessionToken,
		session.UserID,
		session.Expires,
	))

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return created, nil
}

// returns the session together with its user, or nil, nil when the token is unknown
func (s *Store) GetSessionAndUser(ctx context.Context, sessionToken string) (*Session, *User, error) {
	var (
		session Session
		user    User
	)

	err := s.db.QueryRow(ctx, queryGetSessionAndUser, sessionToken).Scan(
		&session.SessionToken,
		&session.UserID,
		&session.Expires,
		&user.ID,
		&user.Name,
		&user.Email,
		&user.EmailVerified,
		&user.Image,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session and user: %w", err)
	}

	return &session, &user, nil
}

func (s *Store) UpdateSession(ctx context.Context, session *Session) (*Session, error) {
	updated, err := scanSession(s.db.QueryRow(ctx, queryUpdateSession, session.SessionToken, session.Expires))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return updated, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionToken string) error {
	if _, err := s.db.Exec(ctx, queryDeleteSession, sessionToken); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *Store) CreateVerificationToken(ctx context.Context, token *VerificationToken) (*VerificationToken, error) {
	created, err := scanVerificationToken(s.db.QueryRow(
		ctx,
		queryCreateVerificationToken,
		token.Identifier,
		token.Token,
		token.Expires,
	))

	if err != nil {
		return nil, fmt.Errorf("failed to create verification token: %w", err)
	}

	return created, nil
}

// deletes and returns the token in one statement, so a token can be used once
func (s *Store) UseVerificationToken(ctx context.Context, identifier, token string) (*VerificationToken, error) {
	used, err := scanVerificationToken(s.db.QueryRow(ctx, queryUseVerificationToken, identifier, token))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to use verification token: %w", err)
	}

	return used, nil
}

// purges sessions and verification tokens that expired at or before now
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	sessions, err := s.db.Exec(ctx, queryDeleteExpiredSessions, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	tokens, err := s.db.Exec(ctx, queryDeleteExpiredVerificationTokens, now)
	if err != nil {
		return sessions.RowsAffected(), fmt.Errorf("failed to delete expired verification tokens: %w", err)
	}

	return sessions.RowsAffected() + tokens.RowsAffected(), nil
}

func (s *Store) findUser(ctx context.Context, op, query string, args ...any) (*User, error) {
	user, err := scanUser(s.db.QueryRow(ctx, query, args...))

	// an id that cannot exist is a miss, not a failure
	if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return user, nil
}

func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepresentation
}

func scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.EmailVerified,
		&user.Image,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var session Session

	if err := row.Scan(&session.SessionToken, &session.UserID, &session.Expires); err != nil {
		return nil, err
	}

	return &session, nil
}

func scanVerificationToken(row pgx.Row) (*VerificationToken, error) {
	var token VerificationToken

	if err := row.Scan(&token.Identifier, &token.Token, &token.Expires); err != nil {
		return nil, err
	}

	return &token, nil
}
