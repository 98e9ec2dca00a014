package service

import (
	"encoding/json"
	"fmt"
	"time"

	"monitoreo-service/api"
	"monitoreo-service/internal/availability"
	"monitoreo-service/internal/models"
	"monitoreo-service/pkg/response"

	"github.com/google/uuid"
)

const (
	minLevels = 3
	maxLevels = 5
)

func sectionsFromPayload(payload []api.SectionPayload) []models.Section {
	sections := make([]models.Section, 0, len(payload))

	for _, sp := range payload {
		section := models.Section{
			ID:    sp.ID,
			Title: sp.Title,
		}
		if section.ID == "" {
			section.ID = uuid.NewString()
		}

		for _, qp := range sp.Questions {
			question := models.Question{ID: qp.ID, Text: qp.Text}
			if question.ID == "" {
				question.ID = uuid.NewString()
			}

			section.Questions = append(section.Questions, question)
		}

		sections = append(sections, section)
	}

	return sections
}

func levelsFromPayload(payload []api.ScoringLevelPayload) []models.ScoringLevel {
	levels := make([]models.ScoringLevel, 0, len(payload))

	for _, lp := range payload {
		levels = append(levels, models.ScoringLevel{
			Key:         lp.Key,
			Label:       lp.Label,
			Description: lp.Description,
		})
	}

	return levels
}

// validateLevels checks the 3..5 band. Drafts may still have no levels at
// all; published templates may not.
func validateLevels(levels []models.ScoringLevel, required bool) error {
	if len(levels) == 0 {
		if required {
			return fmt.Errorf("levels config is empty: %w", response.ErrValidation)
		}

		return nil
	}

	if len(levels) < minLevels || len(levels) > maxLevels {
		return fmt.Errorf("levels config must have %d to %d entries: %w", minLevels, maxLevels, response.ErrValidation)
	}

	return nil
}

func availabilityFromPayload(payload *api.AvailabilityPayload) availability.Availability {
	if payload == nil {
		return availability.Availability{}
	}

	return availability.Availability{
		Status:  availability.NormalizeStatus(payload.Status),
		StartAt: availability.ParseInstant(payload.StartAt),
		EndAt:   availability.ParseInstant(payload.EndAt),
	}
}

func (s *Service) eventFromRequest(req *api.EventRequest) (*models.Event, error) {
	startAt := availability.ParseInstant(req.StartAt)
	endAt := availability.ParseInstant(req.EndAt)

	if startAt != nil && endAt != nil && endAt.Before(*startAt) {
		return nil, fmt.Errorf("end_at before start_at: %w", response.ErrValidation)
	}

	status := availability.NormalizeStatus(req.Status)
	if status == "" {
		status = availability.StatusActive
	}

	event := &models.Event{
		Title:       req.Title,
		Type:        models.EventType(req.EventType),
		Description: req.Description,
		StartAt:     startAt,
		EndAt:       endAt,
		Status:      status,
	}

	for _, rp := range req.Responsibles {
		level, ok := models.NormalizeLevel(rp.Level)
		if !ok {
			return nil, fmt.Errorf("unknown level %q: %w", rp.Level, response.ErrValidation)
		}

		if rp.Course == "" && level != models.LevelInitial {
			return nil, fmt.Errorf("course required for level %s: %w", level, response.ErrValidation)
		}

		event.Responsibles = append(event.Responsibles, models.Responsible{
			UserID:   rp.UserID,
			Level:    level,
			Modality: models.Modality(rp.Modality),
			Course:   rp.Course,
		})
	}

	for i, op := range req.Objectives {
		order := op.Order
		if order == 0 {
			order = i
		}

		event.Objectives = append(event.Objectives, models.Objective{
			Text:      op.Text,
			Completed: op.Completed,
			Order:     order,
		})
	}

	return event, nil
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.RFC3339)
}

func (s *Service) toTemplateResponse(tpl *models.Template) *api.TemplateResponse {
	resp := &api.TemplateResponse{
		ID:             tpl.ID,
		Title:          tpl.Title,
		Description:    tpl.Description,
		Status:         string(tpl.Status),
		ResolvedStatus: string(availability.Resolve(&tpl.Availability, s.now())),
		Sections:       make([]api.SectionPayload, 0, len(tpl.Sections)),
		Levels:         make([]api.ScoringLevelPayload, 0, len(tpl.Levels)),
		CreatedBy:      tpl.CreatedBy,
		CreatedAt:      tpl.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      tpl.UpdatedAt.Format(time.RFC3339),
	}

	for _, section := range tpl.Sections {
		sp := api.SectionPayload{ID: section.ID, Title: section.Title}
		for _, question := range section.Questions {
			sp.Questions = append(sp.Questions, api.QuestionPayload{ID: question.ID, Text: question.Text})
		}

		resp.Sections = append(resp.Sections, sp)
	}

	for _, level := range tpl.Levels {
		resp.Levels = append(resp.Levels, api.ScoringLevelPayload{
			Key:         level.Key,
			Label:       level.Label,
			Description: level.Description,
		})
	}

	if tpl.Availability.Status != "" || tpl.Availability.StartAt != nil || tpl.Availability.EndAt != nil {
		resp.Availability = &api.AvailabilityPayload{
			Status:  string(tpl.Availability.Status),
			StartAt: formatInstant(tpl.Availability.StartAt),
			EndAt:   formatInstant(tpl.Availability.EndAt),
		}
	}

	return resp
}

func (s *Service) toEventResponse(event *models.Event) *api.EventResponse {
	resp := &api.EventResponse{
		ID:             event.ID,
		Title:          event.Title,
		EventType:      string(event.Type),
		Description:    event.Description,
		StartAt:        formatInstant(event.StartAt),
		EndAt:          formatInstant(event.EndAt),
		Status:         string(event.Status),
		ResolvedStatus: string(availability.ResolveEvent(event.Window(), s.now())),
		CreatedBy:      event.CreatedBy,
		CreatedAt:      event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      event.UpdatedAt.Format(time.RFC3339),
	}

	for _, r := range event.Responsibles {
		resp.Responsibles = append(resp.Responsibles, api.ResponsiblePayload{
			UserID:   r.UserID,
			Level:    string(r.Level),
			Modality: string(r.Modality),
			Course:   r.Course,
		})
	}

	for _, o := range event.Objectives {
		resp.Objectives = append(resp.Objectives, api.ObjectivePayload{
			Text:      o.Text,
			Completed: o.Completed,
			Order:     o.Order,
		})
	}

	return resp
}

func toInstanceResponse(inst *models.Instance) *api.InstanceResponse {
	resp := &api.InstanceResponse{
		ID:         inst.ID,
		TemplateID: inst.TemplateID,
		CreatedBy:  inst.CreatedBy,
		Status:     string(inst.Status),
		CreatedAt:  inst.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  inst.UpdatedAt.Format(time.RFC3339),
	}

	if inst.Data != "" {
		resp.Data = json.RawMessage(inst.Data)
	}

	return resp
}

func toProfileResponse(profile *models.Profile) *api.ProfileResponse {
	return &api.ProfileResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		FullName:  profile.FullName(),
		Role:      string(profile.Role),
		Status:    string(profile.Status),
		AvatarURL: profile.AvatarURL,
	}
}

func institutionFromRequest(req *api.InstitutionRequest) *models.Institution {
	return &models.Institution{
		NombreIE:       req.NombreIE,
		CodLocal:       req.CodLocal,
		CodModular:     req.CodModular,
		Nivel:          req.Nivel,
		Modalidad:      req.Modalidad,
		Distrito:       req.Distrito,
		REI:            req.REI,
		NombreDirector: req.NombreDirector,
	}
}

func toInstitutionResponse(inst *models.Institution) *api.InstitutionResponse {
	return &api.InstitutionResponse{
		ID:             inst.ID,
		NombreIE:       inst.NombreIE,
		CodLocal:       inst.CodLocal,
		CodModular:     inst.CodModular,
		Nivel:          inst.Nivel,
		Modalidad:      inst.Modalidad,
		Distrito:       inst.Distrito,
		REI:            inst.REI,
		NombreDirector: inst.NombreDirector,
		Estado:         string(inst.Estado),
	}
}
