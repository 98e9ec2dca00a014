package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"monitoreo-service/api"
	"monitoreo-service/internal/availability"
	"monitoreo-service/internal/calendar"
	"monitoreo-service/internal/identity"
	"monitoreo-service/internal/lock"
	"monitoreo-service/internal/models"
	"monitoreo-service/pkg/response"

	"github.com/google/uuid"
)

type Service struct {
	store  Store
	locker lock.Locker
	now    func() time.Time
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker, now: time.Now}
}

type Store interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Templates
	CreateTemplate(ctx context.Context, tpl *models.Template) error
	GetTemplate(ctx context.Context, id string) (*models.Template, error)
	ListTemplates(ctx context.Context, status *string) ([]*models.Template, error)
	UpdateTemplate(ctx context.Context, tpl *models.Template) error
	SetTemplateStatus(ctx context.Context, id string, status models.TemplateStatus) error
	SetTemplateAvailabilityStatus(ctx context.Context, id string, status availability.Status) error
	DeleteTemplate(ctx context.Context, id string) error
	TemplateHasEvent(ctx context.Context, templateID string) (bool, error)

	// Instances
	CreateInstance(ctx context.Context, inst *models.Instance) error
	GetInstance(ctx context.Context, id string) (*models.Instance, error)
	FindInProgressInstance(ctx context.Context, templateID, createdBy string) (*models.Instance, error)
	ListInstances(ctx context.Context, templateID, createdBy *string) ([]*models.Instance, error)
	UpdateInstanceData(ctx context.Context, id string, data string) error
	SetInstanceStatus(ctx context.Context, id string, status models.InstanceStatus) error

	// Events
	CreateEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error
	UpdateEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error
	ReplaceEventResponsibles(ctx context.Context, tx *sql.Tx, eventID string, responsibles []models.Responsible) error
	ReplaceEventObjectives(ctx context.Context, tx *sql.Tx, eventID string, objectives []models.Objective) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, from, to *time.Time) ([]*models.Event, error)
	SetEventStatus(ctx context.Context, id string, status availability.Status) error

	// Profiles
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)

	// Institutions
	CreateInstitution(ctx context.Context, inst *models.Institution) error
	GetInstitution(ctx context.Context, id string) (*models.Institution, error)
	ListInstitutions(ctx context.Context, includeInactive bool) ([]*models.Institution, error)
	UpdateInstitution(ctx context.Context, inst *models.Institution) error
	DeactivateInstitution(ctx context.Context, id string) error
}

// Templates

func (s *Service) CreateTemplate(ctx context.Context, req *api.TemplateRequest, actor identity.Identity) (*api.TemplateResponse, error) {
	const op = "service.CreateTemplate"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	tpl := &models.Template{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TemplateDraft,
		Sections:     sectionsFromPayload(req.Sections),
		Levels:       levelsFromPayload(req.Levels),
		Availability: availabilityFromPayload(req.Availability),
		CreatedBy:    actor.UserID,
		CreatedAt:    s.now(),
	}

	if err := validateLevels(tpl.Levels, false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.CreateTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetTemplate(ctx, tpl.ID)
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*api.TemplateResponse, error) {
	const op = "service.GetTemplate"

	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.toTemplateResponse(tpl), nil
}

func (s *Service) ListTemplates(ctx context.Context, status *string, actor identity.Identity) ([]*api.TemplateResponse, error) {
	const op = "service.ListTemplates"

	templates, err := s.store.ListTemplates(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*api.TemplateResponse, 0, len(templates))

	for _, tpl := range templates {
		// Drafts are an authoring concern; specialists only see published work.
		if tpl.Status == models.TemplateDraft && !actor.IsAdmin() {
			continue
		}

		out = append(out, s.toTemplateResponse(tpl))
	}

	return out, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, req *api.TemplateRequest, actor identity.Identity) (*api.TemplateResponse, error) {
	const op = "service.UpdateTemplate"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tpl.Title = req.Title
	tpl.Description = req.Description
	tpl.Sections = sectionsFromPayload(req.Sections)
	tpl.Levels = levelsFromPayload(req.Levels)
	tpl.Availability = availabilityFromPayload(req.Availability)
	tpl.UpdatedAt = s.now()

	if err := validateLevels(tpl.Levels, tpl.Status == models.TemplatePublished); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if tpl.Status == models.TemplatePublished && len(tpl.Sections) == 0 {
		return nil, fmt.Errorf("%s: published template needs sections: %w", op, response.ErrValidation)
	}

	if err := s.store.UpdateTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetTemplate(ctx, id)
}

func (s *Service) PublishTemplate(ctx context.Context, id string, actor identity.Identity) (*api.TemplateResponse, error) {
	const op = "service.PublishTemplate"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(tpl.Sections) == 0 {
		return nil, fmt.Errorf("%s: template has no sections: %w", op, response.ErrValidation)
	}

	if err := validateLevels(tpl.Levels, true); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SetTemplateStatus(ctx, id, models.TemplatePublished); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetTemplate(ctx, id)
}

// CloseTemplate forces the availability status to closed. Templates are never
// hard-deleted once events reference them; closing is the retirement path.
func (s *Service) CloseTemplate(ctx context.Context, id string, actor identity.Identity) (*api.TemplateResponse, error) {
	const op = "service.CloseTemplate"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if err := s.store.SetTemplateAvailabilityStatus(ctx, id, availability.StatusClosed); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetTemplate(ctx, id)
}

// DeleteTemplate removes a draft that never made it anywhere. A template
// referenced by an event only ever changes state softly; callers get a
// conflict and should close it instead.
func (s *Service) DeleteTemplate(ctx context.Context, id string, actor identity.Identity) error {
	const op = "service.DeleteTemplate"

	if !actor.IsAdmin() {
		return fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	tied, err := s.store.TemplateHasEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tied {
		return fmt.Errorf("%s: template is referenced by an event: %w", op, response.ErrConflict)
	}

	if err := s.store.DeleteTemplate(ctx, id); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Instances

// CreateInstance reuses the specialist's in-progress instance for the
// template when one exists. The lookup-then-create pair is guarded by a redis
// lock so two tabs submitting at once cannot produce duplicates.
func (s *Service) CreateInstance(ctx context.Context, req *api.InstanceCreateRequest, actor identity.Identity) (*api.InstanceResponse, error) {
	const op = "service.CreateInstance"

	if actor.UserID == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	lockKey := fmt.Sprintf("instance:%s:%s", req.TemplateID, actor.UserID)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	tpl, err := s.store.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if tpl.Status != models.TemplatePublished {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotPublished)
	}

	if availability.Resolve(&tpl.Availability, s.now()) != availability.StatusActive {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotAvailable)
	}

	existing, err := s.store.FindInProgressInstance(ctx, req.TemplateID, actor.UserID)
	if err == nil {
		return toInstanceResponse(existing), nil
	}
	if !errors.Is(err, response.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	inst := &models.Instance{
		ID:         uuid.NewString(),
		TemplateID: req.TemplateID,
		CreatedBy:  actor.UserID,
		Status:     models.InstanceInProgress,
		Data:       "{}",
		CreatedAt:  s.now(),
	}
	inst.UpdatedAt = inst.CreatedAt

	if err := s.store.CreateInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toInstanceResponse(inst), nil
}

func (s *Service) GetInstance(ctx context.Context, id string, actor identity.Identity) (*api.InstanceResponse, error) {
	const op = "service.GetInstance"

	inst, err := s.store.GetInstance(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if inst.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	return toInstanceResponse(inst), nil
}

func (s *Service) ListInstances(ctx context.Context, templateID *string, actor identity.Identity) ([]*api.InstanceResponse, error) {
	const op = "service.ListInstances"

	var createdBy *string
	if !actor.IsAdmin() {
		createdBy = &actor.UserID
	}

	instances, err := s.store.ListInstances(ctx, templateID, createdBy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*api.InstanceResponse, 0, len(instances))
	for _, inst := range instances {
		out = append(out, toInstanceResponse(inst))
	}

	return out, nil
}

func (s *Service) SaveInstance(ctx context.Context, id string, data json.RawMessage, actor identity.Identity) (*api.InstanceResponse, error) {
	const op = "service.SaveInstance"

	inst, err := s.store.GetInstance(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if inst.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if inst.Status != models.InstanceInProgress {
		return nil, fmt.Errorf("%s: instance already completed: %w", op, response.ErrConflict)
	}

	if err := s.store.UpdateInstanceData(ctx, id, string(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetInstance(ctx, id, actor)
}

func (s *Service) CompleteInstance(ctx context.Context, id string, actor identity.Identity) (*api.InstanceResponse, error) {
	const op = "service.CompleteInstance"

	inst, err := s.store.GetInstance(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if inst.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if inst.Status == models.InstanceCompleted {
		return toInstanceResponse(inst), nil
	}

	if err := s.store.SetInstanceStatus(ctx, id, models.InstanceCompleted); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetInstance(ctx, id, actor)
}

// Events

func (s *Service) CreateEvent(ctx context.Context, req *api.EventRequest, actor identity.Identity) (*api.EventResponse, error) {
	const op = "service.CreateEvent"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	event, err := s.eventFromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event.ID = uuid.NewString()
	event.CreatedBy = actor.UserID
	event.CreatedAt = s.now()
	event.UpdatedAt = event.CreatedAt

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := s.store.CreateEvent(ctx, tx, event); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.ReplaceEventResponsibles(ctx, tx, event.ID, event.Responsibles); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.ReplaceEventObjectives(ctx, tx, event.ID, event.Objectives); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetEvent(ctx, event.ID, actor)
}

func (s *Service) GetEvent(ctx context.Context, id string, actor identity.Identity) (*api.EventResponse, error) {
	const op = "service.GetEvent"

	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if event.Status == availability.StatusHidden && !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return s.toEventResponse(event), nil
}

func (s *Service) ListEvents(ctx context.Context, from, to *time.Time, actor identity.Identity) ([]*api.EventResponse, error) {
	const op = "service.ListEvents"

	events, err := s.store.ListEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*api.EventResponse, 0, len(events))

	for _, event := range s.visibleEvents(events, actor) {
		out = append(out, s.toEventResponse(event))
	}

	return out, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, req *api.EventRequest, actor identity.Identity) (*api.EventResponse, error) {
	const op = "service.UpdateEvent"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	existing, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event, err := s.eventFromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event.ID = existing.ID
	event.CreatedBy = existing.CreatedBy
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.now()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := s.store.UpdateEvent(ctx, tx, event); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.ReplaceEventResponsibles(ctx, tx, event.ID, event.Responsibles); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.ReplaceEventObjectives(ctx, tx, event.ID, event.Objectives); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetEvent(ctx, id, actor)
}

// DeleteEvent hides the event rather than removing the row; instances and
// reports keep referencing it.
func (s *Service) DeleteEvent(ctx context.Context, id string, actor identity.Identity) error {
	const op = "service.DeleteEvent"

	if !actor.IsAdmin() {
		return fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if err := s.store.SetEventStatus(ctx, id, availability.StatusHidden); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Calendar

// MonthView assembles the 42-day grid for the anchor's month and buckets
// every visible calendar item into it. Published templates with a schedule
// are surfaced as synthesized monitoring events sharing the template id.
func (s *Service) MonthView(ctx context.Context, anchor time.Time, actor identity.Identity) (*api.CalendarMonthResponse, error) {
	const op = "service.MonthView"

	grid := calendar.MonthGrid(anchor)

	from := grid[0]
	to := grid[len(grid)-1].AddDate(0, 0, 1)

	items, err := s.calendarItems(ctx, &from, &to, actor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buckets := calendar.BucketByDay(items, grid)

	resp := &api.CalendarMonthResponse{
		Month: anchor.Format("2006-01"),
		Days:  make([]api.CalendarDay, 0, len(grid)),
	}

	for _, day := range grid {
		cell := api.CalendarDay{
			Date:    calendar.DayKey(day),
			InMonth: day.Month() == anchor.Month(),
		}

		for _, event := range buckets[calendar.DayKey(day)] {
			cell.Events = append(cell.Events, *s.toEventResponse(event))
		}

		resp.Days = append(resp.Days, cell)
	}

	return resp, nil
}

// Agenda returns every visible item overlapping the next `days` days.
func (s *Service) Agenda(ctx context.Context, days int, actor identity.Identity) (*api.AgendaResponse, error) {
	const op = "service.Agenda"

	if days <= 0 {
		days = calendar.DefaultWindowDays
	}

	today := s.now()
	from := today.AddDate(0, 0, -1)
	to := today.AddDate(0, 0, days)

	items, err := s.calendarItems(ctx, &from, &to, actor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &api.AgendaResponse{
		From:   calendar.DayKey(today),
		To:     calendar.DayKey(today.AddDate(0, 0, days-1)),
		Events: []api.EventResponse{},
	}

	for _, event := range items {
		if calendar.InWindow(event, today, days) {
			resp.Events = append(resp.Events, *s.toEventResponse(event))
		}
	}

	return resp, nil
}

// calendarItems merges stored events with monitorings synthesized from
// published templates that carry a schedule. A native event sharing a
// template's id wins over the synthesized one.
func (s *Service) calendarItems(ctx context.Context, from, to *time.Time, actor identity.Identity) ([]*models.Event, error) {
	events, err := s.store.ListEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}

	items := s.visibleEvents(events, actor)

	seen := make(map[string]bool, len(items))
	for _, event := range items {
		seen[event.ID] = true
	}

	published := string(models.TemplatePublished)

	templates, err := s.store.ListTemplates(ctx, &published)
	if err != nil {
		return nil, err
	}

	for _, tpl := range templates {
		if seen[tpl.ID] {
			continue
		}
		if tpl.Availability.StartAt == nil && tpl.Availability.EndAt == nil {
			continue
		}

		items = append(items, &models.Event{
			ID:          tpl.ID,
			Title:       tpl.Title,
			Type:        models.EventMonitoring,
			Description: tpl.Description,
			StartAt:     tpl.Availability.StartAt,
			EndAt:       tpl.Availability.EndAt,
			Status:      tpl.Availability.Status,
			CreatedBy:   tpl.CreatedBy,
			CreatedAt:   tpl.CreatedAt,
			UpdatedAt:   tpl.UpdatedAt,
		})
	}

	return items, nil
}

func (s *Service) visibleEvents(events []*models.Event, actor identity.Identity) []*models.Event {
	if actor.IsAdmin() {
		return events
	}

	visible := make([]*models.Event, 0, len(events))
	for _, event := range events {
		if event.Status == availability.StatusHidden {
			continue
		}

		visible = append(visible, event)
	}

	return visible
}

// Profiles

func (s *Service) GetProfile(ctx context.Context, id string) (*api.ProfileResponse, error) {
	const op = "service.GetProfile"

	profile, err := s.store.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toProfileResponse(profile), nil
}

func (s *Service) ListProfiles(ctx context.Context) ([]*api.ProfileResponse, error) {
	const op = "service.ListProfiles"

	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*api.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, toProfileResponse(profile))
	}

	return out, nil
}

// Institutions

func (s *Service) CreateInstitution(ctx context.Context, req *api.InstitutionRequest, actor identity.Identity) (*api.InstitutionResponse, error) {
	const op = "service.CreateInstitution"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	inst := institutionFromRequest(req)
	inst.ID = uuid.NewString()
	inst.Estado = models.InstitutionActive

	if err := s.store.CreateInstitution(ctx, inst); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetInstitution(ctx, inst.ID)
}

func (s *Service) GetInstitution(ctx context.Context, id string) (*api.InstitutionResponse, error) {
	const op = "service.GetInstitution"

	inst, err := s.store.GetInstitution(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toInstitutionResponse(inst), nil
}

func (s *Service) ListInstitutions(ctx context.Context, includeInactive bool, actor identity.Identity) ([]*api.InstitutionResponse, error) {
	const op = "service.ListInstitutions"

	if includeInactive && !actor.IsAdmin() {
		includeInactive = false
	}

	institutions, err := s.store.ListInstitutions(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*api.InstitutionResponse, 0, len(institutions))
	for _, inst := range institutions {
		out = append(out, toInstitutionResponse(inst))
	}

	return out, nil
}

func (s *Service) UpdateInstitution(ctx context.Context, id string, req *api.InstitutionRequest, actor identity.Identity) (*api.InstitutionResponse, error) {
	const op = "service.UpdateInstitution"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	inst := institutionFromRequest(req)
	inst.ID = id

	if err := s.store.UpdateInstitution(ctx, inst); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetInstitution(ctx, id)
}

func (s *Service) DeleteInstitution(ctx context.Context, id string, actor identity.Identity) error {
	const op = "service.DeleteInstitution"

	if !actor.IsAdmin() {
		return fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if err := s.store.DeactivateInstitution(ctx, id); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
