// Package service contains the lead pipeline business logic: intake,
// enrichment with score and urgency, status moves, transfers and follow-ups.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/leads/scoring"
	"admissions_crm_backend/internal/leads/transport"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/phone"
	"admissions_crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service implements lead pipeline use cases.
type Service struct {
	repo     repository.Repository
	statuses StatusCatalog
	advisors AdvisorDirectory
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, statuses StatusCatalog, advisors AdvisorDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, statuses: statuses, advisors: advisors, bus: bus, log: log}
}

// Create registers a new lead. The phone number is normalized before the
// duplicate check so formatting differences cannot smuggle in duplicates.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actorID uuid.UUID, isAdmin bool) (transport.LeadResponse, error) {
	normalizedPhone := phone.NormalizeE164(req.Phone)

	exists, err := s.repo.ExistsByPhone(ctx, normalizedPhone, nil)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if exists {
		return transport.LeadResponse{}, apperr.Conflict("a lead with this phone number already exists")
	}

	catalog, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	statusID, err := s.resolveInitialStatus(req.StatusID, catalog)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	advisorID := actorID
	if req.AdvisorID != nil {
		if *req.AdvisorID != actorID && !isAdmin {
			return transport.LeadResponse{}, apperr.Forbidden("only admins can assign leads to other advisors")
		}
		advisorID = *req.AdvisorID
	}

	registrationDate := time.Now()
	if req.RegistrationDate != nil {
		registrationDate = *req.RegistrationDate
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		FirstName:        sanitize.Text(req.FirstName),
		LastName:         sanitize.Text(req.LastName),
		Email:            sanitize.TextPtr(req.Email),
		Phone:            normalizedPhone,
		ProgramID:        req.ProgramID,
		StatusID:         statusID,
		AdvisorID:        advisorID,
		SourceID:         req.SourceID,
		RegistrationDate: registrationDate,
		CreatedBy:        &actorID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		AdvisorID: lead.AdvisorID,
		FullName:  lead.FullName(),
		Phone:     lead.Phone,
		Email:     lead.Email,
		ProgramID: lead.ProgramID,
		SourceID:  lead.SourceID,
	})

	s.log.Info("lead created", "leadId", lead.ID, "advisorId", lead.AdvisorID)
	return s.enrich(lead, catalog), nil
}

// Get returns a single lead with its score breakdown. Advisors can only see
// their own leads.
func (s *Service) Get(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (transport.LeadDetailResponse, error) {
	lead, err := s.loadOwned(ctx, id, actorID, isAdmin)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	catalog, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	return transport.LeadDetailResponse{
		LeadResponse:   s.enrich(lead, catalog),
		ScoreBreakdown: scoring.Breakdown(lead, catalog),
	}, nil
}

// List returns a page of enriched leads scoped to the caller's visibility.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest, actorID uuid.UUID, isAdmin bool) (transport.LeadListResponse, error) {
	catalog, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	params := repository.ListLeadsParams{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if !isAdmin {
		params.AdvisorID = &actorID
	} else if req.AdvisorID != "" {
		advisorID, err := uuid.Parse(req.AdvisorID)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid advisor id")
		}
		params.AdvisorID = &advisorID
	}
	if req.ProgramID != "" {
		programID, err := uuid.Parse(req.ProgramID)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid program id")
		}
		params.ProgramID = &programID
	}

	if req.StatusID != "" {
		statusID, err := uuid.Parse(req.StatusID)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid status id")
		}
		params.StatusIDs = []uuid.UUID{statusID}
	} else if req.Category != "" {
		params.StatusIDs = statusIDsForCategory(catalog, domain.Category(req.Category))
		if len(params.StatusIDs) == 0 {
			return emptyPage(req), nil
		}
	}

	if req.SortBy == "score" || req.SortBy == "urgency" {
		return s.listRanked(ctx, req.SortBy, params, catalog)
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, s.enrich(lead, catalog))
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// listRanked orders by a value computed per row in Go (score or urgency),
// so it loads the scoped snapshot, sorts it and paginates in memory instead
// of pushing LIMIT/OFFSET to the database.
func (s *Service) listRanked(ctx context.Context, sortBy string, params repository.ListLeadsParams, catalog []domain.Status) (transport.LeadListResponse, error) {
	leads, err := s.repo.ListAllVisible(ctx, params.AdvisorID)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	leads = filterLeads(leads, params)

	now := time.Now()
	rank := func(lead domain.Lead) int {
		if sortBy == "urgency" {
			return domain.LeadUrgencyAt(lead, catalog, now)
		}
		return scoring.CalculateAt(lead, catalog, now)
	}
	sort.SliceStable(leads, func(i, j int) bool {
		ri, rj := rank(leads[i]), rank(leads[j])
		if ri != rj {
			return ri > rj
		}
		return leads[i].RegistrationDate.After(leads[j].RegistrationDate)
	})

	total := len(leads)
	page, pageSize := normalizePage(params.Page, params.PageSize)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]transport.LeadResponse, 0, end-start)
	for _, lead := range leads[start:end] {
		items = append(items, s.enrich(lead, catalog))
	}
	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func filterLeads(leads []domain.Lead, params repository.ListLeadsParams) []domain.Lead {
	filtered := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if len(params.StatusIDs) > 0 && !containsID(params.StatusIDs, lead.StatusID) {
			continue
		}
		if params.ProgramID != nil && (lead.ProgramID == nil || *lead.ProgramID != *params.ProgramID) {
			continue
		}
		if params.Search != "" && !matchesSearch(lead, params.Search) {
			continue
		}
		filtered = append(filtered, lead)
	}
	return filtered
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func matchesSearch(lead domain.Lead, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(lead.FirstName), term) ||
		strings.Contains(strings.ToLower(lead.LastName), term) ||
		strings.Contains(strings.ToLower(lead.Phone), term) {
		return true
	}
	return lead.Email != nil && strings.Contains(strings.ToLower(*lead.Email), term)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return page, pageSize
}

// ListVisibleLeads returns the caller's full lead snapshot with relations.
// This feeds the dashboard aggregator and exports.
func (s *Service) ListVisibleLeads(ctx context.Context, advisorID uuid.UUID, isAdmin bool) ([]domain.Lead, error) {
	if isAdmin {
		return s.repo.ListAllVisible(ctx, nil)
	}
	return s.repo.ListAllVisible(ctx, &advisorID)
}

// Update patches contact fields on an owned lead.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest, actorID uuid.UUID, isAdmin bool) (transport.LeadResponse, error) {
	if _, err := s.loadOwned(ctx, id, actorID, isAdmin); err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.UpdateLeadParams{
		ID:        id,
		Email:     sanitize.TextPtr(req.Email),
		ProgramID: req.ProgramID,
		SourceID:  req.SourceID,
	}
	if req.FirstName != nil {
		name := sanitize.Text(*req.FirstName)
		params.FirstName = &name
	}
	if req.LastName != nil {
		name := sanitize.Text(*req.LastName)
		params.LastName = &name
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		exists, err := s.repo.ExistsByPhone(ctx, normalized, &id)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if exists {
			return transport.LeadResponse{}, apperr.Conflict("a lead with this phone number already exists")
		}
		params.Phone = &normalized
	}

	lead, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	catalog, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.enrich(lead, catalog), nil
}

// Delete removes a lead and its owned collections.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("lead deleted", "leadId", id)
	return nil
}

// ChangeStatus moves the lead in the pipeline, appends the audit record and
// publishes the change with its resolved category.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, req transport.ChangeStatusRequest, actorID uuid.UUID, isAdmin bool) (transport.LeadResponse, error) {
	previous, err := s.loadOwned(ctx, id, actorID, isAdmin)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.ChangeStatus(ctx, repository.ChangeStatusParams{
		LeadID:      id,
		NewStatusID: req.StatusID,
		ChangedBy:   &actorID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	catalog, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	oldStatusID := previous.StatusID
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		OldStatusID: &oldStatusID,
		NewStatusID: lead.StatusID,
		NewCategory: string(domain.ResolveStatusCategory(lead.StatusID, catalog)),
		ChangedBy:   actorID,
	})

	return s.enrich(lead, catalog), nil
}

// Transfer reassigns a lead to another advisor, recording an audit note on
// the lead's timeline. Only admins may transfer leads they do not own.
func (s *Service) Transfer(ctx context.Context, id uuid.UUID, req transport.TransferLeadRequest, actorID uuid.UUID, isAdmin bool) (transport.LeadResponse, error) {
	previous, err := s.loadOwned(ctx, id, actorID, isAdmin)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if previous.AdvisorID == req.AdvisorID {
		return transport.LeadResponse{}, apperr.Conflict("lead is already assigned to this advisor")
	}

	target, err := s.advisors.GetAdvisorInfo(ctx, req.AdvisorID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if !target.Active {
		return transport.LeadResponse{}, apperr.Validation("target advisor is not active")
	}

	source, err := s.advisors.GetAdvisorInfo(ctx, previous.AdvisorID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Transfer(ctx, repository.TransferParams{
		LeadID:        id,
		ToAdvisorID:   req.AdvisorID,
		TransferredBy: &actorID,
		AuditNote:     fmt.Sprintf("Lead transferido de %s a %s", source.FullName, target.FullName),
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadTransferred{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		FromAdvisorID: previous.AdvisorID,
		ToAdvisorID:   lead.AdvisorID,
		TransferredBy: actorID,
	})

	catalog, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.enrich(lead, catalog), nil
}

// BulkTransfer reassigns several leads to one advisor. Each lead goes
// through the single-transfer path, so ownership checks, audit notes and
// events apply per lead. Failures are reported per lead and do not abort
// the rest of the batch.
func (s *Service) BulkTransfer(ctx context.Context, req transport.BulkTransferRequest, actorID uuid.UUID, isAdmin bool) (transport.BulkTransferResponse, error) {
	result := transport.BulkTransferResponse{}
	single := transport.TransferLeadRequest{AdvisorID: req.AdvisorID}
	for _, leadID := range req.LeadIDs {
		if _, err := s.Transfer(ctx, leadID, single, actorID, isAdmin); err != nil {
			result.Errors = append(result.Errors, transport.BulkTransferError{
				LeadID:  leadID,
				Message: err.Error(),
			})
			continue
		}
		result.Transferred++
	}
	result.Failed = len(result.Errors)
	s.log.Info("bulk transfer finished",
		"toAdvisorId", req.AdvisorID,
		"transferred", result.Transferred,
		"failed", result.Failed,
	)
	return result, nil
}

// AddFollowUp appends an immutable note to an owned lead.
func (s *Service) AddFollowUp(ctx context.Context, leadID uuid.UUID, req transport.AddFollowUpRequest, actorID uuid.UUID, isAdmin bool) (domain.FollowUp, error) {
	if _, err := s.loadOwned(ctx, leadID, actorID, isAdmin); err != nil {
		return domain.FollowUp{}, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	followUp, err := s.repo.AddFollowUp(ctx, repository.AddFollowUpParams{
		LeadID:    leadID,
		Date:      date,
		Notes:     sanitize.Text(req.Notes),
		CreatedBy: &actorID,
	})
	if err != nil {
		return domain.FollowUp{}, err
	}

	s.bus.Publish(ctx, events.FollowUpRecorded{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		FollowUpID: followUp.ID,
		AdvisorID:  actorID,
	})
	return followUp, nil
}

// DeleteFollowUp removes a note from an owned lead.
func (s *Service) DeleteFollowUp(ctx context.Context, leadID, followUpID, actorID uuid.UUID, isAdmin bool) error {
	if _, err := s.loadOwned(ctx, leadID, actorID, isAdmin); err != nil {
		return err
	}
	return s.repo.DeleteFollowUp(ctx, leadID, followUpID)
}

// GetOwned fetches a lead after the ownership check. Used by modules that
// act on a single lead on the caller's behalf (messaging, AI assistant).
func (s *Service) GetOwned(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Lead, error) {
	return s.loadOwned(ctx, id, actorID, isAdmin)
}

// GetLeadAdvisor resolves the lead's current owner. Used by the
// appointments module for its ownership checks.
func (s *Service) GetLeadAdvisor(ctx context.Context, leadID uuid.UUID) (uuid.UUID, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return uuid.Nil, err
	}
	return lead.AdvisorID, nil
}

// loadOwned fetches a lead and enforces the ownership rule: advisors only
// touch their own leads, admins touch any.
func (s *Service) loadOwned(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if !isAdmin && lead.AdvisorID != actorID {
		return domain.Lead{}, apperr.Forbidden("lead belongs to another advisor")
	}
	return lead, nil
}

// enrich computes the score and urgency presentation for a lead. Unresolved
// status references are logged before the category falls back to active.
func (s *Service) enrich(lead domain.Lead, catalog []domain.Status) transport.LeadResponse {
	if _, found := domain.LookupStatusCategory(lead.StatusID, catalog); !found {
		s.log.UnresolvedStatus(lead.ID.String(), lead.StatusID.String())
	}

	score := scoring.Calculate(lead, catalog)
	return transport.LeadResponse{
		Lead: lead,
		Score: transport.Score{
			Value: score,
			Label: scoring.Label(score),
			Color: scoring.Color(score),
		},
		Urgency: domain.LeadUrgency(lead, catalog),
	}
}

func (s *Service) resolveInitialStatus(requested *uuid.UUID, catalog []domain.Status) (uuid.UUID, error) {
	if requested != nil {
		for _, status := range catalog {
			if status.ID == *requested {
				return *requested, nil
			}
		}
		return uuid.Nil, apperr.Validation("status does not exist")
	}

	// Default to the first active status in catalog order.
	for _, status := range catalog {
		if status.Category == domain.CategoryActive {
			return status.ID, nil
		}
	}
	return uuid.Nil, apperr.Internal("status catalog has no active status")
}

func statusIDsForCategory(catalog []domain.Status, category domain.Category) []uuid.UUID {
	var ids []uuid.UUID
	for _, status := range catalog {
		if status.Category == category {
			ids = append(ids, status.ID)
		}
	}
	return ids
}

func emptyPage(req transport.ListLeadsRequest) transport.LeadListResponse {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return transport.LeadListResponse{
		Items:    []transport.LeadResponse{},
		Page:     page,
		PageSize: pageSize,
	}
}
