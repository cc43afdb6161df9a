package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ecommerceapi/internal/domain"
	"ecommerceapi/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims carries the caller's email; handlers resolve the actor from it.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewAuthService(users *repos.UserRepo, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: secret, TTL: ttl, now: time.Now}
}

func (s *AuthService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *AuthService) Register(name, email, password string) (*domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	id, err := s.Users.Create(name, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &domain.User{ID: id, Name: name, Email: email, Hash: string(hash)}, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, Token, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Token{}, ErrBadCreds
		}
		return nil, Token{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, Token{}, ErrBadCreds
	}
	tok, err := s.Issue(u)
	if err != nil {
		return nil, Token{}, err
	}
	return u, tok, nil
}

// Issue signs an HS256 token for u.
func (s *AuthService) Issue(u *domain.User) (Token, error) {
	now := s.clock()
	exp := now.Add(s.TTL)
	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

func (s *AuthService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock))
	if err != nil || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves the token's email claim to a stored user.
func (s *AuthService) CurrentUser(raw string) (*domain.User, error) {
	claims, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}
