package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"vendorflow-backend/internal/models"
)

// Store owns credential validation and token lifecycle, and fans out
// session-change events to registered listeners.
type Store struct {
	db        *sqlx.DB
	jwtSecret []byte
	tokenTTL  time.Duration

	mu        sync.RWMutex
	listeners map[int]func(models.SessionEvent)
	nextID    int
}

// NewStore creates a session store backed by the profiles table.
func NewStore(db *sqlx.DB, jwtSecret string, tokenTTL time.Duration) *Store {
	return &Store{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		listeners: make(map[int]func(models.SessionEvent)),
	}
}

// Listener is a registered session-change callback. Release it with
// Unsubscribe; a dangling listener outlives its owner.
type Listener struct {
	id    int
	store *Store
	once  sync.Once
}

// Unsubscribe releases the listener. Safe to call more than once.
func (l *Listener) Unsubscribe() {
	l.once.Do(func() {
		l.store.mu.Lock()
		defer l.store.mu.Unlock()
		delete(l.store.listeners, l.id)
	})
}

// OnSessionChange registers fn for every subsequent auth-state event.
func (s *Store) OnSessionChange(fn func(models.SessionEvent)) *Listener {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return &Listener{id: id, store: s}
}

func (s *Store) emit(ev models.SessionEvent) {
	s.mu.RLock()
	fns := make([]func(models.SessionEvent), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	// Deliver outside the lock so a listener can unsubscribe itself.
	for _, fn := range fns {
		fn(ev)
	}
}

// CurrentSession validates a bearer token and returns the session it
// proves, or nil when the token is absent, expired, or otherwise invalid.
func (s *Store) CurrentSession(tokenString string) *models.Session {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return nil
	}

	return &models.Session{
		Identity: models.Identity{UserID: userID, Email: email},
		Token:    tokenString,
	}
}

// SignInWithPassword verifies credentials and issues a session. Emits a
// signed_in event on success.
func (s *Store) SignInWithPassword(email, password string) (*models.Session, *models.Profile, error) {
	log.Printf("🔐 Login attempt for: %s", email)

	var profile models.Profile
	query := `SELECT id, email, password, name, role, created_at, updated_at FROM profiles WHERE email = $1`
	if err := s.db.Get(&profile, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("❌ User not found: %s", email)
			return nil, nil, models.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)); err != nil {
		log.Printf("❌ Invalid password for: %s", email)
		return nil, nil, models.ErrInvalidCredentials
	}

	tokenString, err := s.issueToken(&profile)
	if err != nil {
		return nil, nil, err
	}

	session := &models.Session{
		Identity: models.Identity{UserID: profile.ID, Email: profile.Email},
		Token:    tokenString,
	}

	log.Printf("✅ Login successful: %s (%s)", profile.Email, profile.Role)
	s.emit(models.SessionEvent{Type: models.SessionSignedIn, Session: session})

	return session, &profile, nil
}

// SignUp creates the auth principal and its profile row as one atomic
// unit. Returns the new identity; the caller signs in separately.
func (s *Store) SignUp(email, password, name, role string) (*models.Profile, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("role must be %q or %q", models.RoleSuperVendor, models.RoleSubVendor)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().Unix()
	profile := models.Profile{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  string(hashedPassword),
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.Get(&existing, "SELECT id FROM profiles WHERE email = $1", email)
	if err == nil {
		return nil, models.ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO profiles (id, email, password, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, profile.ID, profile.Email, profile.Password, profile.Name, profile.Role, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sign-up: %w", err)
	}

	log.Printf("✅ Account created: %s (%s)", profile.Email, profile.Role)
	return &profile, nil
}

// SignOut emits a signed_out event. Tokens are stateless; the session dies
// when the client discards the token.
func (s *Store) SignOut(session *models.Session) {
	if session != nil {
		log.Printf("👋 Sign-out: %s", session.Identity.Email)
	}
	s.emit(models.SessionEvent{Type: models.SessionSignedOut, Session: nil})
}

// GetProfileByID performs the point lookup the resolver races against its
// timeout. Returns models.ErrNotFound when no row exists.
func (s *Store) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT id, email, password, name, role, created_at, updated_at FROM profiles WHERE id = $1`
	if err := s.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

func (s *Store) issueToken(profile *models.Profile) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": profile.ID,
		"email":   profile.Email,
		"role":    profile.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
