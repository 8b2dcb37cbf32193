package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	platformevents "admissions_crm_backend/platform/events"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/leads/transport"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

var (
	statusNew      = domain.Status{ID: uuid.New(), Name: "Nuevo", Color: "#3b82f6", Category: domain.CategoryActive}
	statusContact  = domain.Status{ID: uuid.New(), Name: "Contactado", Color: "#eab308", Category: domain.CategoryActive}
	statusEnrolled = domain.Status{ID: uuid.New(), Name: "Inscrito", Color: "#22c55e", Category: domain.CategoryWon}

	testCatalog = []domain.Status{statusNew, statusContact, statusEnrolled}
)

type fakeRepo struct {
	leads     map[uuid.UUID]domain.Lead
	followUps map[uuid.UUID]domain.FollowUp

	lastCreate   repository.CreateLeadParams
	lastTransfer repository.TransferParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:     make(map[uuid.UUID]domain.Lead),
		followUps: make(map[uuid.UUID]domain.FollowUp),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (domain.Lead, error) {
	f.lastCreate = params
	lead := domain.Lead{
		ID:               uuid.New(),
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		Email:            params.Email,
		Phone:            params.Phone,
		ProgramID:        params.ProgramID,
		StatusID:         params.StatusID,
		AdvisorID:        params.AdvisorID,
		SourceID:         params.SourceID,
		RegistrationDate: params.RegistrationDate,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
		FollowUps:        []domain.FollowUp{},
		Appointments:     []domain.Appointment{},
		StatusHistory:    []domain.StatusChange{},
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListLeadsParams) ([]domain.Lead, int, error) {
	var result []domain.Lead
	for _, lead := range f.leads {
		if params.AdvisorID != nil && lead.AdvisorID != *params.AdvisorID {
			continue
		}
		if len(params.StatusIDs) > 0 {
			match := false
			for _, id := range params.StatusIDs {
				if lead.StatusID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, lead)
	}
	return result, len(result), nil
}

func (f *fakeRepo) ListAllVisible(_ context.Context, advisorID *uuid.UUID) ([]domain.Lead, error) {
	var result []domain.Lead
	for _, lead := range f.leads {
		if advisorID != nil && lead.AdvisorID != *advisorID {
			continue
		}
		result = append(result, lead)
	}
	return result, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateLeadParams) (domain.Lead, error) {
	lead, ok := f.leads[params.ID]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if params.FirstName != nil {
		lead.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		lead.LastName = *params.LastName
	}
	if params.Email != nil {
		lead.Email = params.Email
	}
	if params.Phone != nil {
		lead.Phone = *params.Phone
	}
	f.leads[params.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) ChangeStatus(_ context.Context, params repository.ChangeStatusParams) (domain.Lead, error) {
	lead, ok := f.leads[params.LeadID]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if lead.StatusID == params.NewStatusID {
		return domain.Lead{}, apperr.Conflict("lead already has this status")
	}
	old := lead.StatusID
	lead.StatusID = params.NewStatusID
	lead.StatusHistory = append(lead.StatusHistory, domain.StatusChange{
		ID:          uuid.New(),
		LeadID:      lead.ID,
		OldStatusID: &old,
		NewStatusID: params.NewStatusID,
		Date:        time.Now(),
		CreatedBy:   params.ChangedBy,
	})
	f.leads[params.LeadID] = lead
	return lead, nil
}

func (f *fakeRepo) Transfer(_ context.Context, params repository.TransferParams) (domain.Lead, error) {
	f.lastTransfer = params
	lead, ok := f.leads[params.LeadID]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	lead.AdvisorID = params.ToAdvisorID
	f.leads[params.LeadID] = lead
	return lead, nil
}

func (f *fakeRepo) AddFollowUp(_ context.Context, params repository.AddFollowUpParams) (domain.FollowUp, error) {
	followUp := domain.FollowUp{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		Date:      params.Date,
		Notes:     params.Notes,
		CreatedAt: time.Now(),
		CreatedBy: params.CreatedBy,
	}
	f.followUps[followUp.ID] = followUp
	return followUp, nil
}

func (f *fakeRepo) DeleteFollowUp(_ context.Context, leadID, followUpID uuid.UUID) error {
	followUp, ok := f.followUps[followUpID]
	if !ok || followUp.LeadID != leadID {
		return apperr.NotFound("follow-up not found")
	}
	delete(f.followUps, followUpID)
	return nil
}

func (f *fakeRepo) ExistsByPhone(_ context.Context, phone string, excludeID *uuid.UUID) (bool, error) {
	for _, lead := range f.leads {
		if excludeID != nil && lead.ID == *excludeID {
			continue
		}
		if lead.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

type fakeStatusCatalog struct {
	statuses []domain.Status
}

func (f fakeStatusCatalog) ListStatuses(context.Context) ([]domain.Status, error) {
	return f.statuses, nil
}

type fakeAdvisorDirectory struct {
	advisors map[uuid.UUID]AdvisorInfo
}

func (f fakeAdvisorDirectory) GetAdvisorInfo(_ context.Context, id uuid.UUID) (AdvisorInfo, error) {
	info, ok := f.advisors[id]
	if !ok {
		return AdvisorInfo{}, apperr.NotFound("advisor not found")
	}
	return info, nil
}

type recordingBus struct {
	published []platformevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event platformevents.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event platformevents.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, platformevents.Handler) {}

func (b *recordingBus) names() []string {
	var names []string
	for _, event := range b.published {
		names = append(names, event.EventName())
	}
	return names
}

func newTestService(repo *fakeRepo, advisors map[uuid.UUID]AdvisorInfo) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(
		repo,
		fakeStatusCatalog{statuses: testCatalog},
		fakeAdvisorDirectory{advisors: advisors},
		bus,
		logger.New("test"),
	)
	return svc, bus
}

func TestCreateDefaultsToFirstActiveStatus(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, nil)
	advisor := uuid.New()

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		LastName:  "Lopez",
		Phone:     "+52 55 1234 5678",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.StatusID != statusNew.ID {
		t.Errorf("StatusID = %s, want first active status %s", resp.StatusID, statusNew.ID)
	}
	if resp.AdvisorID != advisor {
		t.Errorf("AdvisorID = %s, want actor %s", resp.AdvisorID, advisor)
	}
	if repo.lastCreate.Phone != "+525512345678" {
		t.Errorf("stored phone = %q, want normalized E.164", repo.lastCreate.Phone)
	}
	if got := bus.names(); len(got) != 1 || got[0] != "leads.lead.created" {
		t.Errorf("published events = %v, want [leads.lead.created]", got)
	}
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)
	advisor := uuid.New()

	req := transport.CreateLeadRequest{FirstName: "Maria", Phone: "+52 55 1234 5678"}
	if _, err := svc.Create(context.Background(), req, advisor, false); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Same number, different formatting.
	req.Phone = "55 1234 5678"
	_, err := svc.Create(context.Background(), req, advisor, false)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("duplicate Create error = %v, want conflict", err)
	}
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)
	unknown := uuid.New()

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
		StatusID:  &unknown,
	}, uuid.New(), false)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Create error = %v, want validation", err)
	}
}

func TestCreateAdvisorOverrideRequiresAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)
	actor := uuid.New()
	other := uuid.New()

	req := transport.CreateLeadRequest{FirstName: "Maria", Phone: "+52 55 1234 5678", AdvisorID: &other}

	if _, err := svc.Create(context.Background(), req, actor, false); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("non-admin override error = %v, want forbidden", err)
	}

	resp, err := svc.Create(context.Background(), req, actor, true)
	if err != nil {
		t.Fatalf("admin override: %v", err)
	}
	if resp.AdvisorID != other {
		t.Errorf("AdvisorID = %s, want %s", resp.AdvisorID, other)
	}
}

func TestOwnershipEnforcedForAdvisors(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)
	owner := uuid.New()
	stranger := uuid.New()

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, owner, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), created.ID, stranger, false); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("stranger Get error = %v, want forbidden", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, owner, false); err != nil {
		t.Errorf("owner Get: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, stranger, true); err != nil {
		t.Errorf("admin Get: %v", err)
	}
}

func TestChangeStatusPublishesResolvedCategory(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, nil)
	advisor := uuid.New()

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.ChangeStatus(context.Background(), created.ID, transport.ChangeStatusRequest{
		StatusID: statusEnrolled.ID,
	}, advisor, false)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if resp.StatusID != statusEnrolled.ID {
		t.Errorf("StatusID = %s, want %s", resp.StatusID, statusEnrolled.ID)
	}

	var changed *events.LeadStatusChanged
	for _, event := range bus.published {
		if e, ok := event.(events.LeadStatusChanged); ok {
			changed = &e
		}
	}
	if changed == nil {
		t.Fatal("no LeadStatusChanged event published")
	}
	if changed.NewCategory != string(domain.CategoryWon) {
		t.Errorf("NewCategory = %q, want %q", changed.NewCategory, domain.CategoryWon)
	}
	if changed.OldStatusID == nil || *changed.OldStatusID != statusNew.ID {
		t.Errorf("OldStatusID = %v, want %s", changed.OldStatusID, statusNew.ID)
	}
}

func TestChangeStatusToSameStatusConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)
	advisor := uuid.New()

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.ChangeStatus(context.Background(), created.ID, transport.ChangeStatusRequest{
		StatusID: created.StatusID,
	}, advisor, false)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("same-status error = %v, want conflict", err)
	}
}

func TestTransferRecordsAuditNote(t *testing.T) {
	repo := newFakeRepo()
	source := uuid.New()
	target := uuid.New()
	svc, bus := newTestService(repo, map[uuid.UUID]AdvisorInfo{
		source: {ID: source, FullName: "Ana Ruiz", Active: true},
		target: {ID: target, FullName: "Luis Soto", Active: true},
	})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, source, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.Transfer(context.Background(), created.ID, transport.TransferLeadRequest{
		AdvisorID: target,
	}, source, false)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if resp.AdvisorID != target {
		t.Errorf("AdvisorID = %s, want %s", resp.AdvisorID, target)
	}
	if want := "Lead transferido de Ana Ruiz a Luis Soto"; repo.lastTransfer.AuditNote != want {
		t.Errorf("audit note = %q, want %q", repo.lastTransfer.AuditNote, want)
	}

	found := false
	for _, name := range bus.names() {
		if name == "leads.lead.transferred" {
			found = true
		}
	}
	if !found {
		t.Error("LeadTransferred event not published")
	}
}

func TestListSortedByScoreRanksCompleteProfilesFirst(t *testing.T) {
	repo := newFakeRepo()
	advisor := uuid.New()
	svc, _ := newTestService(repo, map[uuid.UUID]AdvisorInfo{
		advisor: {ID: advisor, FullName: "Ana Ruiz", Active: true},
	})

	bare, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Pedro",
		Phone:     "+52 55 8765 4321",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	email := "maria@example.com"
	program := uuid.New()
	complete, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
		Email:     &email,
		ProgramID: &program,
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := svc.List(context.Background(), transport.ListLeadsRequest{SortBy: "score"}, advisor, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Items[0].ID != complete.ID {
		t.Errorf("first item = %s, want the complete-profile lead %s", page.Items[0].ID, complete.ID)
	}
	if page.Items[0].Score.Value <= page.Items[1].Score.Value {
		t.Errorf("scores not descending: %d then %d", page.Items[0].Score.Value, page.Items[1].Score.Value)
	}
	if page.Items[1].ID != bare.ID {
		t.Errorf("second item = %s, want %s", page.Items[1].ID, bare.ID)
	}
}

func TestListSortedAppliesSearchFilter(t *testing.T) {
	repo := newFakeRepo()
	advisor := uuid.New()
	svc, _ := newTestService(repo, map[uuid.UUID]AdvisorInfo{
		advisor: {ID: advisor, FullName: "Ana Ruiz", Active: true},
	})

	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Pedro",
		Phone:     "+52 55 8765 4321",
	}, advisor, false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	target, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		LastName:  "Lopez",
		Phone:     "+52 55 1234 5678",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := svc.List(context.Background(), transport.ListLeadsRequest{
		SortBy: "urgency",
		Search: "lopez",
	}, advisor, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != target.ID {
		t.Fatalf("items = %v, want only %s", page.Items, target.ID)
	}
	if page.Total != 1 {
		t.Errorf("Total = %d, want 1", page.Total)
	}
}

func TestBulkTransferReportsPerLeadFailures(t *testing.T) {
	repo := newFakeRepo()
	source := uuid.New()
	target := uuid.New()
	svc, _ := newTestService(repo, map[uuid.UUID]AdvisorInfo{
		source: {ID: source, FullName: "Ana Ruiz", Active: true},
		target: {ID: target, FullName: "Luis Soto", Active: true},
	})

	first, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, source, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Pedro",
		Phone:     "+52 55 8765 4321",
	}, source, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	missing := uuid.New()
	result, err := svc.BulkTransfer(context.Background(), transport.BulkTransferRequest{
		LeadIDs:   []uuid.UUID{first.ID, second.ID, missing},
		AdvisorID: target,
	}, source, false)
	if err != nil {
		t.Fatalf("BulkTransfer: %v", err)
	}
	if result.Transferred != 2 {
		t.Errorf("Transferred = %d, want 2 (errors: %v)", result.Transferred, result.Errors)
	}
	if result.Failed != 1 {
		t.Fatalf("Failed = %d, want 1 (errors: %v)", result.Failed, result.Errors)
	}
	if result.Errors[0].LeadID != missing {
		t.Errorf("failed lead = %s, want %s", result.Errors[0].LeadID, missing)
	}
}

func TestTransferToInactiveAdvisorFails(t *testing.T) {
	repo := newFakeRepo()
	source := uuid.New()
	target := uuid.New()
	svc, _ := newTestService(repo, map[uuid.UUID]AdvisorInfo{
		source: {ID: source, FullName: "Ana Ruiz", Active: true},
		target: {ID: target, FullName: "Luis Soto", Active: false},
	})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, source, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Transfer(context.Background(), created.ID, transport.TransferLeadRequest{
		AdvisorID: target,
	}, source, false)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Transfer error = %v, want validation", err)
	}
}

func TestTransferToCurrentOwnerConflicts(t *testing.T) {
	repo := newFakeRepo()
	source := uuid.New()
	svc, _ := newTestService(repo, map[uuid.UUID]AdvisorInfo{
		source: {ID: source, FullName: "Ana Ruiz", Active: true},
	})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, source, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Transfer(context.Background(), created.ID, transport.TransferLeadRequest{
		AdvisorID: source,
	}, source, false)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Transfer error = %v, want conflict", err)
	}
}

func TestListByCategoryWithNoStatusesReturnsEmptyPage(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)

	resp, err := svc.List(context.Background(), transport.ListLeadsRequest{
		Category: string(domain.CategoryLost),
	}, uuid.New(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(resp.Items) != 0 || resp.Total != 0 {
		t.Errorf("got %d items total %d, want empty page", len(resp.Items), resp.Total)
	}
}

func TestUpdatePhoneChecksDuplicatesExcludingSelf(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)
	advisor := uuid.New()

	first, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	_, err = svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Carlos",
		Phone:     "+52 55 8765 4321",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	// Re-saving the lead's own number is fine.
	own := "+52 55 1234 5678"
	if _, err := svc.Update(context.Background(), first.ID, transport.UpdateLeadRequest{Phone: &own}, advisor, false); err != nil {
		t.Errorf("Update with own phone: %v", err)
	}

	// Taking another lead's number is not.
	taken := "+52 55 8765 4321"
	_, err = svc.Update(context.Background(), first.ID, transport.UpdateLeadRequest{Phone: &taken}, advisor, false)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Update error = %v, want conflict", err)
	}
}

func TestAddFollowUpDefaultsDateToNow(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, nil)
	advisor := uuid.New()

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		Phone:     "+52 55 1234 5678",
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	before := time.Now()
	followUp, err := svc.AddFollowUp(context.Background(), created.ID, transport.AddFollowUpRequest{
		Notes: "Llamada inicial",
	}, advisor, false)
	if err != nil {
		t.Fatalf("AddFollowUp: %v", err)
	}
	if followUp.Date.Before(before) || followUp.Date.After(time.Now()) {
		t.Errorf("follow-up date %v not defaulted to now", followUp.Date)
	}

	found := false
	for _, name := range bus.names() {
		if name == "leads.followup.recorded" {
			found = true
		}
	}
	if !found {
		t.Error("FollowUpRecorded event not published")
	}
}

func TestListVisibleLeadsScopesByAdvisor(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)
	advisorA := uuid.New()
	advisorB := uuid.New()

	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{FirstName: "A", Phone: "+52 55 1234 5678"}, advisorA, false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{FirstName: "B", Phone: "+52 55 8765 4321"}, advisorB, false); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := svc.ListVisibleLeads(context.Background(), advisorA, false)
	if err != nil {
		t.Fatalf("ListVisibleLeads: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("advisor sees %d leads, want 1", len(mine))
	}

	all, err := svc.ListVisibleLeads(context.Background(), advisorA, true)
	if err != nil {
		t.Fatalf("ListVisibleLeads admin: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d leads, want 2", len(all))
	}
}
