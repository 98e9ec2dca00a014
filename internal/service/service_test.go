package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"monitoreo-service/api"
	"monitoreo-service/internal/availability"
	"monitoreo-service/internal/identity"
	"monitoreo-service/internal/models"
	"monitoreo-service/pkg/response"
)

var (
	admin      = identity.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	specialist = identity.Identity{UserID: "spec-1", Role: models.RoleUser}

	fixedNow = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
)

type fakeStore struct {
	templates    map[string]*models.Template
	instances    map[string]*models.Instance
	events       map[string]*models.Event
	institutions map[string]*models.Institution
	tiedToEvent  map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		templates:    map[string]*models.Template{},
		instances:    map[string]*models.Instance{},
		events:       map[string]*models.Event{},
		institutions: map[string]*models.Institution{},
		tiedToEvent:  map[string]bool{},
	}
}

func (f *fakeStore) BeginTx(ctx context.Context) (*sql.Tx, error) { return nil, errors.New("no tx in fake") }

func (f *fakeStore) CreateTemplate(ctx context.Context, tpl *models.Template) error {
	cp := *tpl
	f.templates[tpl.ID] = &cp
	return nil
}

func (f *fakeStore) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (f *fakeStore) ListTemplates(ctx context.Context, status *string) ([]*models.Template, error) {
	var out []*models.Template
	for _, tpl := range f.templates {
		if status != nil && string(tpl.Status) != *status {
			continue
		}
		cp := *tpl
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateTemplate(ctx context.Context, tpl *models.Template) error {
	if _, ok := f.templates[tpl.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *tpl
	f.templates[tpl.ID] = &cp
	return nil
}

func (f *fakeStore) SetTemplateStatus(ctx context.Context, id string, status models.TemplateStatus) error {
	tpl, ok := f.templates[id]
	if !ok {
		return response.ErrNotFound
	}
	tpl.Status = status
	return nil
}

func (f *fakeStore) SetTemplateAvailabilityStatus(ctx context.Context, id string, status availability.Status) error {
	tpl, ok := f.templates[id]
	if !ok {
		return response.ErrNotFound
	}
	tpl.Availability.Status = status
	return nil
}

func (f *fakeStore) DeleteTemplate(ctx context.Context, id string) error {
	if _, ok := f.templates[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeStore) TemplateHasEvent(ctx context.Context, templateID string) (bool, error) {
	return f.tiedToEvent[templateID], nil
}

func (f *fakeStore) CreateInstance(ctx context.Context, inst *models.Instance) error {
	cp := *inst
	f.instances[inst.ID] = &cp
	return nil
}

func (f *fakeStore) GetInstance(ctx context.Context, id string) (*models.Instance, error) {
	inst, ok := f.instances[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *inst
	return &cp, nil
}

func (f *fakeStore) FindInProgressInstance(ctx context.Context, templateID, createdBy string) (*models.Instance, error) {
	for _, inst := range f.instances {
		if inst.TemplateID == templateID && inst.CreatedBy == createdBy && inst.Status == models.InstanceInProgress {
			cp := *inst
			return &cp, nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListInstances(ctx context.Context, templateID, createdBy *string) ([]*models.Instance, error) {
	var out []*models.Instance
	for _, inst := range f.instances {
		if templateID != nil && inst.TemplateID != *templateID {
			continue
		}
		if createdBy != nil && inst.CreatedBy != *createdBy {
			continue
		}
		cp := *inst
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateInstanceData(ctx context.Context, id string, data string) error {
	inst, ok := f.instances[id]
	if !ok {
		return response.ErrNotFound
	}
	inst.Data = data
	return nil
}

func (f *fakeStore) SetInstanceStatus(ctx context.Context, id string, status models.InstanceStatus) error {
	inst, ok := f.instances[id]
	if !ok {
		return response.ErrNotFound
	}
	inst.Status = status
	return nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeStore) ReplaceEventResponsibles(ctx context.Context, tx *sql.Tx, eventID string, responsibles []models.Responsible) error {
	return nil
}

func (f *fakeStore) ReplaceEventObjectives(ctx context.Context, tx *sql.Tx, eventID string, objectives []models.Objective) error {
	return nil
}

func (f *fakeStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *event
	return &cp, nil
}

func (f *fakeStore) ListEvents(ctx context.Context, from, to *time.Time) ([]*models.Event, error) {
	var out []*models.Event
	for _, event := range f.events {
		cp := *event
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) SetEventStatus(ctx context.Context, id string, status availability.Status) error {
	event, ok := f.events[id]
	if !ok {
		return response.ErrNotFound
	}
	event.Status = status
	return nil
}

func (f *fakeStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListProfiles(ctx context.Context) ([]*models.Profile, error) { return nil, nil }

func (f *fakeStore) CreateInstitution(ctx context.Context, inst *models.Institution) error {
	for _, existing := range f.institutions {
		if existing.CodLocal == inst.CodLocal || existing.CodModular == inst.CodModular {
			return response.ErrConflict
		}
	}
	cp := *inst
	f.institutions[inst.ID] = &cp
	return nil
}

func (f *fakeStore) GetInstitution(ctx context.Context, id string) (*models.Institution, error) {
	inst, ok := f.institutions[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *inst
	return &cp, nil
}

func (f *fakeStore) ListInstitutions(ctx context.Context, includeInactive bool) ([]*models.Institution, error) {
	var out []*models.Institution
	for _, inst := range f.institutions {
		if !includeInactive && inst.Estado != models.InstitutionActive {
			continue
		}
		cp := *inst
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateInstitution(ctx context.Context, inst *models.Institution) error {
	if _, ok := f.institutions[inst.ID]; !ok {
		return response.ErrNotFound
	}
	estado := f.institutions[inst.ID].Estado
	cp := *inst
	cp.Estado = estado
	f.institutions[inst.ID] = &cp
	return nil
}

func (f *fakeStore) DeactivateInstitution(ctx context.Context, id string) error {
	inst, ok := f.institutions[id]
	if !ok {
		return response.ErrNotFound
	}
	inst.Estado = models.InstitutionInactive
	return nil
}

type fakeLocker struct {
	allow  bool
	locked int
}

func (l *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if !l.allow {
		return false, nil
	}
	l.locked++
	return true, nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key string) error { return nil }

func newTestService(store *fakeStore) *Service {
	s := NewService(store, &fakeLocker{allow: true})
	s.now = func() time.Time { return fixedNow }
	return s
}

func seedTemplate(store *fakeStore, id string, status models.TemplateStatus, avail availability.Availability) {
	store.templates[id] = &models.Template{
		ID:     id,
		Title:  "Monitoreo " + id,
		Status: status,
		Sections: []models.Section{
			{ID: "s1", Title: "Planificación", Questions: []models.Question{{ID: "q1", Text: "¿Presenta sesión?"}}},
		},
		Levels: []models.ScoringLevel{
			{Key: "1", Label: "Inicio"},
			{Key: "2", Label: "Proceso"},
			{Key: "3", Label: "Logrado"},
		},
		Availability: avail,
		CreatedBy:    "admin-1",
		CreatedAt:    fixedNow.AddDate(0, -1, 0),
		UpdatedAt:    fixedNow.AddDate(0, -1, 0),
	}
}

func TestPublishTemplate(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	seedTemplate(store, "tpl-ok", models.TemplateDraft, availability.Availability{Status: availability.StatusActive})

	store.templates["tpl-empty"] = &models.Template{
		ID:     "tpl-empty",
		Title:  "Sin secciones",
		Status: models.TemplateDraft,
		Levels: []models.ScoringLevel{{Key: "1"}, {Key: "2"}, {Key: "3"}},
	}

	seedTemplate(store, "tpl-levels", models.TemplateDraft, availability.Availability{})
	store.templates["tpl-levels"].Levels = []models.ScoringLevel{{Key: "1"}, {Key: "2"}}

	t.Run("publishes a valid draft", func(t *testing.T) {
		tpl, err := s.PublishTemplate(context.Background(), "tpl-ok", admin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tpl.Status != string(models.TemplatePublished) {
			t.Errorf("status = %s, want published", tpl.Status)
		}
	})

	t.Run("rejects empty sections", func(t *testing.T) {
		_, err := s.PublishTemplate(context.Background(), "tpl-empty", admin)
		if !errors.Is(err, response.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects levels outside 3..5", func(t *testing.T) {
		_, err := s.PublishTemplate(context.Background(), "tpl-levels", admin)
		if !errors.Is(err, response.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects non-admin", func(t *testing.T) {
		_, err := s.PublishTemplate(context.Background(), "tpl-ok", specialist)
		if !errors.Is(err, response.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})
}

func TestCreateInstance(t *testing.T) {
	futureStart := fixedNow.AddDate(0, 0, 5)

	t.Run("creates a fresh instance", func(t *testing.T) {
		store := newFakeStore()
		s := newTestService(store)
		seedTemplate(store, "tpl-1", models.TemplatePublished, availability.Availability{Status: availability.StatusActive})

		inst, err := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-1"}, specialist)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inst.Status != string(models.InstanceInProgress) {
			t.Errorf("status = %s, want in_progress", inst.Status)
		}
		if inst.CreatedBy != specialist.UserID {
			t.Errorf("created_by = %s, want %s", inst.CreatedBy, specialist.UserID)
		}
	})

	t.Run("reuses the existing in-progress instance", func(t *testing.T) {
		store := newFakeStore()
		s := newTestService(store)
		seedTemplate(store, "tpl-1", models.TemplatePublished, availability.Availability{Status: availability.StatusActive})

		first, err := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-1"}, specialist)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		second, err := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-1"}, specialist)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first.ID != second.ID {
			t.Errorf("second call created a duplicate: %s vs %s", first.ID, second.ID)
		}
		if len(store.instances) != 1 {
			t.Errorf("store holds %d instances, want 1", len(store.instances))
		}
	})

	t.Run("different specialists get different instances", func(t *testing.T) {
		store := newFakeStore()
		s := newTestService(store)
		seedTemplate(store, "tpl-1", models.TemplatePublished, availability.Availability{Status: availability.StatusActive})

		other := identity.Identity{UserID: "spec-2", Role: models.RoleUser}

		a, _ := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-1"}, specialist)
		b, err := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-1"}, other)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.ID == b.ID {
			t.Error("instances shared across specialists")
		}
	})

	t.Run("rejects unpublished template", func(t *testing.T) {
		store := newFakeStore()
		s := newTestService(store)
		seedTemplate(store, "tpl-draft", models.TemplateDraft, availability.Availability{Status: availability.StatusActive})

		_, err := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-draft"}, specialist)
		if !errors.Is(err, response.ErrNotPublished) {
			t.Errorf("error = %v, want ErrNotPublished", err)
		}
	})

	t.Run("rejects scheduled template", func(t *testing.T) {
		store := newFakeStore()
		s := newTestService(store)
		seedTemplate(store, "tpl-sched", models.TemplatePublished, availability.Availability{
			Status:  availability.StatusActive,
			StartAt: &futureStart,
		})

		_, err := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-sched"}, specialist)
		if !errors.Is(err, response.ErrNotAvailable) {
			t.Errorf("error = %v, want ErrNotAvailable", err)
		}
	})

	t.Run("refuses when the lock is held", func(t *testing.T) {
		store := newFakeStore()
		s := NewService(store, &fakeLocker{allow: false})
		s.now = func() time.Time { return fixedNow }
		seedTemplate(store, "tpl-1", models.TemplatePublished, availability.Availability{Status: availability.StatusActive})

		_, err := s.CreateInstance(context.Background(), &api.InstanceCreateRequest{TemplateID: "tpl-1"}, specialist)
		if !errors.Is(err, response.ErrLocked) {
			t.Errorf("error = %v, want ErrLocked", err)
		}
	})
}

func TestSaveInstanceOwnership(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	store.instances["inst-1"] = &models.Instance{
		ID:         "inst-1",
		TemplateID: "tpl-1",
		CreatedBy:  specialist.UserID,
		Status:     models.InstanceInProgress,
		Data:       "{}",
		CreatedAt:  fixedNow,
		UpdatedAt:  fixedNow,
	}

	other := identity.Identity{UserID: "spec-2", Role: models.RoleUser}

	if _, err := s.SaveInstance(context.Background(), "inst-1", []byte(`{"a":1}`), other); !errors.Is(err, response.ErrForbidden) {
		t.Errorf("stranger save error = %v, want ErrForbidden", err)
	}

	if _, err := s.SaveInstance(context.Background(), "inst-1", []byte(`{"a":1}`), admin); err != nil {
		t.Errorf("admin save error = %v, want nil", err)
	}

	if _, err := s.SaveInstance(context.Background(), "inst-1", []byte(`{"a":2}`), specialist); err != nil {
		t.Errorf("owner save error = %v, want nil", err)
	}

	store.instances["inst-1"].Status = models.InstanceCompleted

	if _, err := s.SaveInstance(context.Background(), "inst-1", []byte(`{}`), specialist); !errors.Is(err, response.ErrConflict) {
		t.Errorf("completed save error = %v, want ErrConflict", err)
	}
}

func TestDeleteTemplate(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	seedTemplate(store, "tpl-free", models.TemplateDraft, availability.Availability{})
	seedTemplate(store, "tpl-tied", models.TemplateDraft, availability.Availability{})
	store.tiedToEvent["tpl-tied"] = true

	if err := s.DeleteTemplate(context.Background(), "tpl-free", admin); err != nil {
		t.Errorf("free delete error = %v, want nil", err)
	}

	if err := s.DeleteTemplate(context.Background(), "tpl-tied", admin); !errors.Is(err, response.ErrConflict) {
		t.Errorf("tied delete error = %v, want ErrConflict", err)
	}

	if _, ok := store.templates["tpl-tied"]; !ok {
		t.Error("tied template was removed from the store")
	}
}

func TestEventVisibility(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	start := fixedNow
	end := fixedNow.AddDate(0, 0, 1)

	store.events["ev-visible"] = &models.Event{
		ID: "ev-visible", Title: "Jornada", Type: models.EventActivity,
		StartAt: &start, EndAt: &end, Status: availability.StatusActive,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	store.events["ev-hidden"] = &models.Event{
		ID: "ev-hidden", Title: "Borrador", Type: models.EventActivity,
		StartAt: &start, EndAt: &end, Status: availability.StatusHidden,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}

	forAdmin, err := s.ListEvents(context.Background(), nil, nil, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forAdmin) != 2 {
		t.Errorf("admin sees %d events, want 2", len(forAdmin))
	}

	forUser, err := s.ListEvents(context.Background(), nil, nil, specialist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forUser) != 1 || forUser[0].ID != "ev-visible" {
		t.Errorf("specialist sees %v, want only ev-visible", forUser)
	}

	if _, err := s.GetEvent(context.Background(), "ev-hidden", specialist); !errors.Is(err, response.ErrNotFound) {
		t.Errorf("hidden get error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetEvent(context.Background(), "ev-hidden", admin); err != nil {
		t.Errorf("admin hidden get error = %v, want nil", err)
	}
}

func TestDeleteEventHides(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	store.events["ev-1"] = &models.Event{
		ID: "ev-1", Title: "Jornada", Type: models.EventActivity,
		Status: availability.StatusActive, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}

	if err := s.DeleteEvent(context.Background(), "ev-1", admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.events["ev-1"].Status != availability.StatusHidden {
		t.Errorf("status = %s, want hidden", store.events["ev-1"].Status)
	}

	if err := s.DeleteEvent(context.Background(), "ev-1", specialist); !errors.Is(err, response.ErrForbidden) {
		t.Errorf("specialist delete error = %v, want ErrForbidden", err)
	}
}

func TestEventFromRequest(t *testing.T) {
	s := newTestService(newFakeStore())

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := s.eventFromRequest(&api.EventRequest{
			Title:     "Jornada",
			EventType: "activity",
			StartAt:   "2024-03-10",
			EndAt:     "2024-03-05",
		})
		if !errors.Is(err, response.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("requires course outside initial level", func(t *testing.T) {
		_, err := s.eventFromRequest(&api.EventRequest{
			Title:     "Monitoreo",
			EventType: "monitoring",
			Responsibles: []api.ResponsiblePayload{
				{UserID: "u1", Level: "primary", Modality: "ebr"},
			},
		})
		if !errors.Is(err, response.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("accepts inicial without course", func(t *testing.T) {
		event, err := s.eventFromRequest(&api.EventRequest{
			Title:     "Monitoreo",
			EventType: "monitoring",
			Responsibles: []api.ResponsiblePayload{
				{UserID: "u1", Level: "inicial", Modality: "ebr"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.Responsibles[0].Level != models.LevelInitial {
			t.Errorf("level = %s, want initial", event.Responsibles[0].Level)
		}
	})

	t.Run("malformed dates degrade to absent", func(t *testing.T) {
		event, err := s.eventFromRequest(&api.EventRequest{
			Title:     "Jornada",
			EventType: "activity",
			StartAt:   "not-a-date",
			EndAt:     "also-not-a-date",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.StartAt != nil || event.EndAt != nil {
			t.Error("malformed dates should parse to nil")
		}
	})
}

func TestMonthView(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	start := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 7, 18, 0, 0, 0, time.UTC)

	store.events["ev-1"] = &models.Event{
		ID: "ev-1", Title: "Jornada", Type: models.EventActivity,
		StartAt: &start, EndAt: &end, Status: availability.StatusActive,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}

	tplStart := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	tplEnd := time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC)
	seedTemplate(store, "tpl-cal", models.TemplatePublished, availability.Availability{
		Status:  availability.StatusActive,
		StartAt: &tplStart,
		EndAt:   &tplEnd,
	})

	view, err := s.MonthView(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), specialist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Days) != 42 {
		t.Fatalf("grid has %d days, want 42", len(view.Days))
	}
	if view.Month != "2024-03" {
		t.Errorf("month = %s, want 2024-03", view.Month)
	}

	byDate := map[string]api.CalendarDay{}
	for _, day := range view.Days {
		byDate[day.Date] = day
	}

	for _, date := range []string{"2024-03-05", "2024-03-06", "2024-03-07"} {
		found := false
		for _, ev := range byDate[date].Events {
			if ev.ID == "ev-1" {
				found = true
			}
		}
		if !found {
			t.Errorf("ev-1 missing from %s", date)
		}
	}

	if len(byDate["2024-03-08"].Events) != 0 {
		t.Errorf("unexpected events on 2024-03-08: %v", byDate["2024-03-08"].Events)
	}

	found := false
	for _, ev := range byDate["2024-03-21"].Events {
		if ev.ID == "tpl-cal" && ev.EventType == string(models.EventMonitoring) {
			found = true
		}
	}
	if !found {
		t.Error("synthesized monitoring for tpl-cal missing from 2024-03-21")
	}
}

func TestAgenda(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	inside := fixedNow.AddDate(0, 0, 3)
	outside := fixedNow.AddDate(0, 0, 10)

	store.events["ev-soon"] = &models.Event{
		ID: "ev-soon", Title: "Pronto", Type: models.EventActivity,
		StartAt: &inside, EndAt: &inside, Status: availability.StatusActive,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	store.events["ev-later"] = &models.Event{
		ID: "ev-later", Title: "Luego", Type: models.EventActivity,
		StartAt: &outside, EndAt: &outside, Status: availability.StatusActive,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}

	agenda, err := s.Agenda(context.Background(), 0, specialist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(agenda.Events) != 1 || agenda.Events[0].ID != "ev-soon" {
		t.Errorf("agenda = %v, want only ev-soon", agenda.Events)
	}

	if agenda.From != "2024-03-10" || agenda.To != "2024-03-16" {
		t.Errorf("window = [%s, %s], want [2024-03-10, 2024-03-16]", agenda.From, agenda.To)
	}
}

func TestInstitutionLifecycle(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	created, err := s.CreateInstitution(context.Background(), &api.InstitutionRequest{
		NombreIE:   "IE San Martín",
		CodLocal:   "123456",
		CodModular: "654321",
		Nivel:      "Primaria",
		Distrito:   "Tarapoto",
	}, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.CreateInstitution(context.Background(), &api.InstitutionRequest{
		NombreIE:   "IE Duplicada",
		CodLocal:   "123456",
		CodModular: "000001",
	}, admin)
	if !errors.Is(err, response.ErrConflict) {
		t.Errorf("duplicate error = %v, want ErrConflict", err)
	}

	if err := s.DeleteInstitution(context.Background(), created.ID, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.institutions[created.ID].Estado != models.InstitutionInactive {
		t.Error("institution was not soft-deleted")
	}

	got, err := s.GetInstitution(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("inactive institution should stay readable: %v", err)
	}
	if got.Estado != string(models.InstitutionInactive) {
		t.Errorf("estado = %s, want inactive", got.Estado)
	}

	active, err := s.ListInstitutions(context.Background(), false, specialist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active list has %d entries, want 0", len(active))
	}
}
