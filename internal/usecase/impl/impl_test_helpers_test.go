package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gatehouse/internal/domain/entity"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepository is an in-memory repository.UserRepository.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User

	failWith error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepository) add(user *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stored := *user
	r.users[user.ID] = &stored

	return user
}

func (r *fakeUserRepository) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		cloned := *user

		return &cloned
	}

	return nil
}

func (r *fakeUserRepository) findBy(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	for _, user := range r.users {
		if match(user) {
			cloned := *user

			return &cloned, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.ID == id })
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepository) FindByGoogleID(_ context.Context, googleID string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (r *fakeUserRepository) FindByRefreshTokenHash(_ context.Context, tokenHash string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool {
		return u.RefreshTokenHash != "" && u.RefreshTokenHash == tokenHash
	})
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	r.users[user.ID] = &stored

	return nil
}

func (r *fakeUserRepository) LinkGoogleAccount(_ context.Context, userID uuid.UUID, googleID, imageURL string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	user.GoogleID = googleID
	if imageURL != "" {
		user.ImageURL = imageURL
	}

	cloned := *user

	return &cloned, nil
}

func (r *fakeUserRepository) UpdateRefreshTokenHash(_ context.Context, userID uuid.UUID, tokenHash *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	user, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}

	if tokenHash == nil {
		user.RefreshTokenHash = ""
	} else {
		user.RefreshTokenHash = *tokenHash
	}

	return nil
}

func (r *fakeUserRepository) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		cloned := *user
		users = append(users, &cloned)
	}

	return users, nil
}

// fakeTokenService issues sequence-numbered tokens and remembers the claims
// behind each one.
type fakeTokenService struct {
	mu      sync.Mutex
	counter int
	access  map[string]*service.Claims
	refresh map[string]*service.Claims
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{
		access:  map[string]*service.Claims{},
		refresh: map[string]*service.Claims{},
	}
}

func (s *fakeTokenService) GenerateTokenPair(userID uuid.UUID, email string, role entity.Role) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	accessToken := fmt.Sprintf("access-%d-%s", s.counter, email)
	refreshToken := fmt.Sprintf("refresh-%d-%s", s.counter, email)

	s.access[accessToken] = &service.Claims{UserID: userID, Email: email, Role: role, Type: service.TokenTypeAccess}
	s.refresh[refreshToken] = &service.Claims{UserID: userID, Email: email, Role: role, Type: service.TokenTypeRefresh}

	return accessToken, refreshToken, nil
}

func (s *fakeTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if claims, ok := s.access[tokenString]; ok {
		return claims, nil
	}

	return nil, errors.New("invalid access token")
}

func (s *fakeTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if claims, ok := s.refresh[tokenString]; ok {
		return claims, nil
	}

	return nil, errors.New("invalid refresh token")
}

func (s *fakeTokenService) HashToken(tokenString string) string {
	return "digest:" + tokenString
}

func (s *fakeTokenService) RefreshTokenDuration() time.Duration {
	return 168 * time.Hour
}

// fakePasswordHasher hashes by prefixing, which keeps assertions readable.
type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeOAuthService returns a canned profile and records what it was asked.
type fakeOAuthService struct {
	user        *service.OAuthUser
	verifyErr   error
	exchangeErr error

	issuedIDToken string
	lastIDToken   string
	lastCode      string
	lastRedirect  string
}

func (s *fakeOAuthService) VerifyIDToken(_ context.Context, idToken string) (*service.OAuthUser, error) {
	s.lastIDToken = idToken

	if s.verifyErr != nil {
		return nil, s.verifyErr
	}

	return s.user, nil
}

func (s *fakeOAuthService) ExchangeCode(_ context.Context, code, redirectURI string) (string, error) {
	s.lastCode = code
	s.lastRedirect = redirectURI

	if s.exchangeErr != nil {
		return "", s.exchangeErr
	}

	return s.issuedIDToken, nil
}
