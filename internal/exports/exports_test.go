package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/logger"
)

type fakeLeadSource struct {
	leads []domain.Lead
	err   error

	gotAdvisorID uuid.UUID
	gotIsAdmin   bool
}

func (f *fakeLeadSource) ListVisibleLeads(_ context.Context, advisorID uuid.UUID, isAdmin bool) ([]domain.Lead, error) {
	f.gotAdvisorID = advisorID
	f.gotIsAdmin = isAdmin
	return f.leads, f.err
}

type fakeStatusSource struct {
	statuses []domain.Status
}

func (f *fakeStatusSource) ListStatuses(_ context.Context) ([]domain.Status, error) {
	return f.statuses, nil
}

func TestWriteLeadsCSV(t *testing.T) {
	statusNew := domain.Status{ID: uuid.New(), Name: "Nuevo", Category: domain.CategoryActive}
	statusWon := domain.Status{ID: uuid.New(), Name: "Inscrito", Category: domain.CategoryWon}
	statuses := []domain.Status{statusNew, statusWon}

	email := "maria@example.com"
	registered := time.Now().Add(-48 * time.Hour)
	lead := domain.Lead{
		ID:               uuid.New(),
		FirstName:        "Maria",
		LastName:         "Lopez",
		Email:            &email,
		Phone:            "+525512345678",
		StatusID:         statusWon.ID,
		AdvisorID:        uuid.New(),
		RegistrationDate: registered,
		FollowUps: []domain.FollowUp{
			{ID: uuid.New(), Date: time.Now().Add(-24 * time.Hour), Notes: "Llamada inicial"},
		},
	}

	source := &fakeLeadSource{leads: []domain.Lead{lead}}
	svc := New(source, &fakeStatusSource{statuses: statuses}, logger.New("test"))

	advisorID := uuid.New()
	var buf bytes.Buffer
	if err := svc.WriteLeadsCSV(context.Background(), &buf, advisorID, true); err != nil {
		t.Fatalf("WriteLeadsCSV: %v", err)
	}
	if source.gotAdvisorID != advisorID || !source.gotIsAdmin {
		t.Errorf("lead source called with (%s, %v), want (%s, true)", source.gotAdvisorID, source.gotIsAdmin, advisorID)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one lead", len(rows))
	}
	if len(rows[0]) != len(csvHeader) {
		t.Errorf("header columns = %d, want %d", len(rows[0]), len(csvHeader))
	}

	row := rows[1]
	got := map[string]string{}
	for i, col := range rows[0] {
		got[col] = row[i]
	}
	if got["id"] != lead.ID.String() {
		t.Errorf("id = %q, want %q", got["id"], lead.ID)
	}
	if got["first_name"] != "Maria" || got["last_name"] != "Lopez" {
		t.Errorf("name = %q %q, want Maria Lopez", got["first_name"], got["last_name"])
	}
	if got["email"] != email {
		t.Errorf("email = %q, want %q", got["email"], email)
	}
	if got["status"] != "Inscrito" {
		t.Errorf("status = %q, want Inscrito", got["status"])
	}
	if got["category"] != string(domain.CategoryWon) {
		t.Errorf("category = %q, want %q", got["category"], domain.CategoryWon)
	}
	if got["follow_ups"] != "1" {
		t.Errorf("follow_ups = %q, want 1", got["follow_ups"])
	}
	// Won leads are never urgent.
	if got["urgency"] != "0" {
		t.Errorf("urgency = %q, want 0", got["urgency"])
	}
	if got["score"] == "" || got["score_label"] == "" {
		t.Errorf("score columns empty: score=%q label=%q", got["score"], got["score_label"])
	}
}

func TestWriteLeadsCSVMissingEmailAndStatus(t *testing.T) {
	lead := domain.Lead{
		ID:               uuid.New(),
		FirstName:        "Pedro",
		Phone:            "+525511112222",
		StatusID:         uuid.New(),
		AdvisorID:        uuid.New(),
		RegistrationDate: time.Now(),
	}
	svc := New(&fakeLeadSource{leads: []domain.Lead{lead}}, &fakeStatusSource{}, logger.New("test"))

	var buf bytes.Buffer
	if err := svc.WriteLeadsCSV(context.Background(), &buf, uuid.New(), false); err != nil {
		t.Fatalf("WriteLeadsCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	row := rows[1]
	got := map[string]string{}
	for i, col := range rows[0] {
		got[col] = row[i]
	}
	if got["email"] != "" {
		t.Errorf("email = %q, want empty", got["email"])
	}
	if got["status"] != "" {
		t.Errorf("status = %q, want empty for unresolved id", got["status"])
	}
	if got["category"] != string(domain.CategoryActive) {
		t.Errorf("category = %q, want fallback %q", got["category"], domain.CategoryActive)
	}
}

func TestWriteLeadsCSVPropagatesSourceError(t *testing.T) {
	wantErr := errors.New("db down")
	svc := New(&fakeLeadSource{err: wantErr}, &fakeStatusSource{}, logger.New("test"))

	var buf bytes.Buffer
	err := svc.WriteLeadsCSV(context.Background(), &buf, uuid.New(), false)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes before failing, want 0", buf.Len())
	}
}
