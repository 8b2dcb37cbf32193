// Package service contains advisor account and authentication logic.
package service

import (
	"context"
	"time"

	"admissions_crm_backend/internal/identity/repository"
	"admissions_crm_backend/internal/identity/transport"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin   = "admin"
	RoleAdvisor = "advisor"

	accessTokenType = "access"
)

// Service implements advisor account use cases.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new identity service.
func New(repo repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (transport.LoginResponse, error) {
	advisor, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Burn a compare on unknown emails to keep response timing uniform.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinval"), []byte(password))
		s.log.AuthEvent("login_failed", email, false, "unknown email")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(advisor.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login_failed", email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if !advisor.Active {
		s.log.AuthEvent("login_inactive", email, false, "account disabled")
		return transport.LoginResponse{}, apperr.Forbidden("account is disabled")
	}

	token, expiresAt, err := s.signAccessToken(advisor)
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "sign access token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return transport.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Advisor:     transport.NewAdvisorResponse(advisor),
	}, nil
}

// GetProfile returns the advisor's own profile.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (transport.AdvisorResponse, error) {
	advisor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AdvisorResponse{}, err
	}
	return transport.NewAdvisorResponse(advisor), nil
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	advisor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(advisor.PasswordHash), []byte(current)); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// ListAdvisors returns advisor accounts. Password hashes never leave the
// repository layer's struct tagging.
func (s *Service) ListAdvisors(ctx context.Context, includeInactive bool) ([]transport.AdvisorResponse, error) {
	advisors, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.AdvisorResponse, 0, len(advisors))
	for _, advisor := range advisors {
		responses = append(responses, transport.NewAdvisorResponse(advisor))
	}
	return responses, nil
}

// ListActiveAdvisors returns the raw active advisor rows for internal
// consumers (dashboard aggregation, lead transfer checks).
func (s *Service) ListActiveAdvisors(ctx context.Context) ([]repository.Advisor, error) {
	return s.repo.List(ctx, false)
}

// GetAdvisor returns a single advisor row for internal consumers.
func (s *Service) GetAdvisor(ctx context.Context, id uuid.UUID) (repository.Advisor, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateAdvisor registers a new advisor account (admin only).
func (s *Service) CreateAdvisor(ctx context.Context, req transport.CreateAdvisorRequest) (transport.AdvisorResponse, error) {
	role := req.Role
	if role == "" {
		role = RoleAdvisor
	}
	if role != RoleAdmin && role != RoleAdvisor {
		return transport.AdvisorResponse{}, apperr.Validation("role must be admin or advisor")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.AdvisorResponse{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	advisor, err := s.repo.Create(ctx, repository.CreateAdvisorParams{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    sanitize.Text(req.FirstName),
		LastName:     sanitize.Text(req.LastName),
		Role:         role,
	})
	if err != nil {
		return transport.AdvisorResponse{}, err
	}

	s.log.Info("advisor created", "advisorId", advisor.ID, "role", advisor.Role)
	return transport.NewAdvisorResponse(advisor), nil
}

// UpdateAdvisor patches an advisor account (admin only).
func (s *Service) UpdateAdvisor(ctx context.Context, id uuid.UUID, req transport.UpdateAdvisorRequest) (transport.AdvisorResponse, error) {
	if req.Role != nil && *req.Role != RoleAdmin && *req.Role != RoleAdvisor {
		return transport.AdvisorResponse{}, apperr.Validation("role must be admin or advisor")
	}

	params := repository.UpdateAdvisorParams{ID: id, Role: req.Role, Active: req.Active}
	if req.FirstName != nil {
		name := sanitize.Text(*req.FirstName)
		params.FirstName = &name
	}
	if req.LastName != nil {
		name := sanitize.Text(*req.LastName)
		params.LastName = &name
	}

	advisor, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.AdvisorResponse{}, err
	}
	return transport.NewAdvisorResponse(advisor), nil
}

func (s *Service) signAccessToken(advisor repository.Advisor) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())

	claims := jwt.MapClaims{
		"sub":  advisor.ID.String(),
		"role": advisor.Role,
		"type": accessTokenType,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
