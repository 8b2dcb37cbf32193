package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"admissions_crm_backend/internal/identity/repository"
	"admissions_crm_backend/internal/identity/transport"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

const testSecret = "test-secret"

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return testSecret }
func (testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

type fakeRepo struct {
	advisors map[uuid.UUID]repository.Advisor

	lastCreate   repository.CreateAdvisorParams
	lastPassword string
}

func newFakeRepo(advisors ...repository.Advisor) *fakeRepo {
	r := &fakeRepo{advisors: make(map[uuid.UUID]repository.Advisor)}
	for _, a := range advisors {
		r.advisors[a.ID] = a
	}
	return r
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (repository.Advisor, error) {
	for _, a := range r.advisors {
		if a.Email == email {
			return a, nil
		}
	}
	return repository.Advisor{}, apperr.NotFound("advisor not found")
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Advisor, error) {
	a, ok := r.advisors[id]
	if !ok {
		return repository.Advisor{}, apperr.NotFound("advisor not found")
	}
	return a, nil
}

func (r *fakeRepo) List(_ context.Context, includeInactive bool) ([]repository.Advisor, error) {
	var out []repository.Advisor
	for _, a := range r.advisors {
		if !includeInactive && !a.Active {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, params repository.CreateAdvisorParams) (repository.Advisor, error) {
	r.lastCreate = params
	a := repository.Advisor{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         params.Role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	r.advisors[a.ID] = a
	return a, nil
}

func (r *fakeRepo) Update(_ context.Context, params repository.UpdateAdvisorParams) (repository.Advisor, error) {
	a, ok := r.advisors[params.ID]
	if !ok {
		return repository.Advisor{}, apperr.NotFound("advisor not found")
	}
	if params.FirstName != nil {
		a.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		a.LastName = *params.LastName
	}
	if params.Role != nil {
		a.Role = *params.Role
	}
	if params.Active != nil {
		a.Active = *params.Active
	}
	r.advisors[a.ID] = a
	return a, nil
}

func (r *fakeRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	a, ok := r.advisors[id]
	if !ok {
		return apperr.NotFound("advisor not found")
	}
	a.PasswordHash = passwordHash
	r.advisors[id] = a
	r.lastPassword = passwordHash
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func testAdvisor(t *testing.T, email, password, role string, active bool) repository.Advisor {
	t.Helper()
	return repository.Advisor{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashPassword(t, password),
		FirstName:    "Ana",
		LastName:     "Ruiz",
		Role:         role,
		Active:       active,
	}
}

func newTestService(repo *fakeRepo) *Service {
	return New(repo, testConfig{}, logger.New("test"))
}

func TestLoginIssuesSignedToken(t *testing.T) {
	advisor := testAdvisor(t, "ana@example.com", "secret-password", RoleAdvisor, true)
	svc := newTestService(newFakeRepo(advisor))

	resp, err := svc.Login(context.Background(), "ana@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Advisor.FullName != "Ana Ruiz" {
		t.Errorf("FullName = %q, want %q", resp.Advisor.FullName, "Ana Ruiz")
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt = %v, want a future time", resp.ExpiresAt)
	}

	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type = %T, want jwt.MapClaims", token.Claims)
	}
	if got := claims["sub"]; got != advisor.ID.String() {
		t.Errorf("sub = %v, want %s", got, advisor.ID)
	}
	if got := claims["role"]; got != RoleAdvisor {
		t.Errorf("role = %v, want %s", got, RoleAdvisor)
	}
	if got := claims["type"]; got != "access" {
		t.Errorf("type = %v, want access", got)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	advisor := testAdvisor(t, "ana@example.com", "secret-password", RoleAdvisor, true)
	svc := newTestService(newFakeRepo(advisor))

	_, err := svc.Login(context.Background(), "ana@example.com", "not-the-password")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("kind = %v, want unauthorized (err: %v)", apperr.GetKind(err), err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever-password")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("kind = %v, want unauthorized (err: %v)", apperr.GetKind(err), err)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	advisor := testAdvisor(t, "ana@example.com", "secret-password", RoleAdvisor, false)
	svc := newTestService(newFakeRepo(advisor))

	_, err := svc.Login(context.Background(), "ana@example.com", "secret-password")
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("kind = %v, want forbidden (err: %v)", apperr.GetKind(err), err)
	}
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	advisor := testAdvisor(t, "ana@example.com", "old-password", RoleAdvisor, true)
	repo := newFakeRepo(advisor)
	svc := newTestService(repo)

	err := svc.ChangePassword(context.Background(), advisor.ID, "wrong-password", "new-password")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("kind = %v, want unauthorized (err: %v)", apperr.GetKind(err), err)
	}

	if err := svc.ChangePassword(context.Background(), advisor.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.lastPassword), []byte("new-password")); err != nil {
		t.Errorf("stored hash does not match new password: %v", err)
	}
}

func TestCreateAdvisorDefaultsRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	resp, err := svc.CreateAdvisor(context.Background(), transport.CreateAdvisorRequest{
		Email:     "luis@example.com",
		Password:  "secret-password",
		FirstName: "Luis",
		LastName:  "Soto",
	})
	if err != nil {
		t.Fatalf("CreateAdvisor: %v", err)
	}
	if resp.Role != RoleAdvisor {
		t.Errorf("Role = %q, want %q", resp.Role, RoleAdvisor)
	}
	if repo.lastCreate.PasswordHash == "secret-password" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.lastCreate.PasswordHash), []byte("secret-password")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreateAdvisorRejectsUnknownRole(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateAdvisor(context.Background(), transport.CreateAdvisorRequest{
		Email:     "luis@example.com",
		Password:  "secret-password",
		FirstName: "Luis",
		Role:      "superuser",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation (err: %v)", apperr.GetKind(err), err)
	}
}

func TestUpdateAdvisorRejectsUnknownRole(t *testing.T) {
	advisor := testAdvisor(t, "ana@example.com", "secret-password", RoleAdvisor, true)
	svc := newTestService(newFakeRepo(advisor))

	role := "superuser"
	_, err := svc.UpdateAdvisor(context.Background(), advisor.ID, transport.UpdateAdvisorRequest{Role: &role})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation (err: %v)", apperr.GetKind(err), err)
	}
}

func TestUpdateAdvisorDeactivates(t *testing.T) {
	advisor := testAdvisor(t, "ana@example.com", "secret-password", RoleAdvisor, true)
	repo := newFakeRepo(advisor)
	svc := newTestService(repo)

	active := false
	resp, err := svc.UpdateAdvisor(context.Background(), advisor.ID, transport.UpdateAdvisorRequest{Active: &active})
	if err != nil {
		t.Fatalf("UpdateAdvisor: %v", err)
	}
	if resp.Active {
		t.Error("advisor still active after deactivation")
	}

	listed, err := svc.ListActiveAdvisors(context.Background())
	if err != nil {
		t.Fatalf("ListActiveAdvisors: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("active advisors = %d, want 0", len(listed))
	}
}
