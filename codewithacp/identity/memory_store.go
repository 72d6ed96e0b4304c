package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// returned by MemoryStore when a unique constraint would be violated
var ErrDuplicate = errors.New("identity: duplicate record")

// MemoryStore implements Adapter using in-memory maps
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]User
	accounts map[accountKey]Account
	sessions map[string]Session
	tokens   map[tokenKey]VerificationToken
}

type accountKey struct {
	provider          string
	providerAccountID string
}

type tokenKey struct {
	identifier string
	token      string
}

var _ Adapter = (*MemoryStore)(nil)

// creates a new in-memory identity store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]User),
		accounts: make(map[accountKey]Account),
		sessions: make(map[string]Session),
		tokens:   make(map[tokenKey]VerificationToken),
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.userByEmailLocked(user.Email); exists {
		return nil, fmt.Errorf("failed to create user: %w", ErrDuplicate)
	}

	created := *user
	created.ID = uuid.NewString()
	m.users[created.ID] = created

	return &created, nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}

	return &user, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.userByEmailLocked(email)
	if !ok {
		return nil, nil
	}

	return &user, nil
}

func (m *MemoryStore) GetUserByAccount(_ context.Context, provider, providerAccountID string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[accountKey{provider, providerAccountID}]
	if !ok {
		return nil, nil
	}

	user, ok := m.users[account.UserID]
	if !ok {
		return nil, nil
	}

	return &user, nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return nil, ErrNotFound
	}

	if other, exists := m.userByEmailLocked(user.Email); exists && other.ID != user.ID {
		return nil, fmt.Errorf("failed to update user: %w", ErrDuplicate)
	}

	updated := *user
	m.users[user.ID] = updated

	return &updated, nil
}

// removes the user along with its accounts and sessions
func (m *MemoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)

	for key, account := range m.accounts {
		if account.UserID == id {
			delete(m.accounts, key)
		}
	}

	for token, session := range m.sessions {
		if session.UserID == id {
			delete(m.sessions, token)
		}
	}

	return nil
}

func (m *MemoryStore) LinkAccount(_ context.Context, account *Account) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[account.UserID]; !ok {
		return nil, fmt.Errorf("failed to link account: user %s does not exist", account.UserID)
	}

	key := accountKey{account.Provider, account.ProviderAccountID}
	if _, exists := m.accounts[key]; exists {
		return nil, fmt.Errorf("failed to link account: %w", ErrDuplicate)
	}

	linked := *account
	linked.ID = uuid.NewString()
	m.accounts[key] = linked

	return &linked, nil
}

func (m *MemoryStore) UnlinkAccount(_ context.Context, provider, providerAccountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.accounts, accountKey{provider, providerAccountID})
	return nil
}

func (m *MemoryStore) CreateSession(_ context.Context, session *Session) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[session.UserID]; !ok {
		return nil, fmt.Errorf("failed to create session: user %s does not exist", session.UserID)
	}

	if _, exists := m.sessions[session.SessionToken]; exists {
		return nil, fmt.Errorf("failed to create session: %w", ErrDuplicate)
	}

	created := *session
	m.sessions[created.SessionToken] = created

	return &created, nil
}

func (m *MemoryStore) GetSessionAndUser(_ context.Context, sessionToken string) (*Session, *User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionToken]
	if !ok {
		return nil, nil, nil
	}

	user, ok := m.users[session.UserID]
	if !ok {
		return nil, nil, nil
	}

	return &session, &user, nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, session *Session) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sessions[session.SessionToken]
	if !ok {
		return nil, ErrNotFound
	}

	existing.Expires = session.Expires
	m.sessions[session.SessionToken] = existing

	return &existing, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, sessionToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionToken)
	return nil
}

func (m *MemoryStore) CreateVerificationToken(_ context.Context, token *VerificationToken) (*VerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tokenKey{token.Identifier, token.Token}
	if _, exists := m.tokens[key]; exists {
		return nil, fmt.Errorf("failed to create verification token: %w", ErrDuplicate)
	}

	created := *token
	m.tokens[key] = created

	return &created, nil
}

func (m *MemoryStore) UseVerificationToken(_ context.Context, identifier, token string) (*VerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tokenKey{identifier, token}

	used, ok := m.tokens[key]
	if !ok {
		return nil, nil
	}

	delete(m.tokens, key)
	return &used, nil
}

// purges sessions and verification tokens that expired at or before now
func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64

	for token, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}

	for key, token := range m.tokens {
		if token.Expired(now) {
			delete(m.tokens, key)
			removed++
		}
	}

	return removed, nil
}

func (m *MemoryStore) userByEmailLocked(email string) (User, bool) {
	if email == "" {
		return User{}, false
	}

	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}

	return User{}, false
}
