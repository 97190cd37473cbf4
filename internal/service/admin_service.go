package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"courseapp/internal/model"
	"courseapp/internal/util"

	"github.com/rs/zerolog"
)

// AdminRole is the role claim carried by admin tokens
const AdminRole = "admin"

// AdminCredentials is the single configured administrator
type AdminCredentials struct {
	Username string
	Password string
}

// AdminLoginInput carries admin credentials
type AdminLoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminService authenticates the configured administrator
type AdminService interface {
	Login(ctx context.Context, in AdminLoginInput) (*model.AdminSession, error)
	// VerifyToken accepts a session token issued by Login
	VerifyToken(token string) error
	// VerifyCredentials checks raw credentials, as sent with HTTP Basic auth
	VerifyCredentials(username, password string) error
}

type adminService struct {
	creds     AdminCredentials
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(creds AdminCredentials, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AdminService {
	return &adminService{
		creds:     creds,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    logger.With().Str("service", "AdminService").Logger(),
	}
}

func (s *adminService) Login(ctx context.Context, in AdminLoginInput) (*model.AdminSession, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(in, "Username and password are required."); err != nil {
		return nil, err
	}
	if err := s.VerifyCredentials(in.Username, in.Password); err != nil {
		s.logger.Warn().Str("username", in.Username).Msg("Admin login rejected")
		return nil, err
	}

	token, expiresAt, err := util.IssueJWT(s.creds.Username, AdminRole, s.jwtSecret, s.tokenTTL, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue admin token")
		return nil, err
	}
	return &model.AdminSession{Username: s.creds.Username, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *adminService) VerifyToken(token string) error {
	claims, err := util.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Admin token rejected")
		return ErrInvalidCredentials
	}
	if claims.Role != AdminRole || claims.Subject != s.creds.Username {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *adminService) VerifyCredentials(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	if !userOK || !passOK || s.creds.Password == "" {
		return ErrInvalidCredentials
	}
	return nil
}
