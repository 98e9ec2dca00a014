package api

import "encoding/json"

type AvailabilityPayload struct {
	Status  string `json:"status,omitempty"`
	StartAt string `json:"start_at,omitempty"`
	EndAt   string `json:"end_at,omitempty"`
}

type QuestionPayload struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text" validate:"required"`
}

type SectionPayload struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title" validate:"required"`
	Questions []QuestionPayload `json:"questions" validate:"dive"`
}

type ScoringLevelPayload struct {
	Key         string `json:"key" validate:"required"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description,omitempty"`
}

type TemplateRequest struct {
	Title        string                `json:"title" validate:"required"`
	Description  string                `json:"description,omitempty"`
	Sections     []SectionPayload      `json:"sections" validate:"dive"`
	Levels       []ScoringLevelPayload `json:"levels_config" validate:"omitempty,min=3,max=5,dive"`
	Availability *AvailabilityPayload  `json:"availability,omitempty"`
}

type TemplateResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	Status         string                `json:"status"`
	ResolvedStatus string                `json:"resolved_status"`
	Sections       []SectionPayload      `json:"sections"`
	Levels         []ScoringLevelPayload `json:"levels_config"`
	Availability   *AvailabilityPayload  `json:"availability,omitempty"`
	CreatedBy      string                `json:"created_by"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
}

type InstanceCreateRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
}

type InstanceSaveRequest struct {
	Data json.RawMessage `json:"data" validate:"required"`
}

type InstanceResponse struct {
	ID         string          `json:"id"`
	TemplateID string          `json:"template_id"`
	CreatedBy  string          `json:"created_by"`
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data,omitempty"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

type ResponsiblePayload struct {
	UserID   string `json:"user_id" validate:"required"`
	Level    string `json:"level" validate:"required"`
	Modality string `json:"modality" validate:"required,oneof=ebr ebe"`
	Course   string `json:"course,omitempty"`
}

type ObjectivePayload struct {
	Text      string `json:"text" validate:"required"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
}

type EventRequest struct {
	Title        string               `json:"title" validate:"required"`
	EventType    string               `json:"event_type" validate:"required,oneof=monitoring activity ugel_date"`
	Description  string               `json:"description,omitempty"`
	StartAt      string               `json:"start_at,omitempty"`
	EndAt        string               `json:"end_at,omitempty"`
	Status       string               `json:"status,omitempty"`
	Responsibles []ResponsiblePayload `json:"responsibles" validate:"dive"`
	Objectives   []ObjectivePayload   `json:"objectives" validate:"dive"`
}

type EventResponse struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	EventType      string               `json:"event_type"`
	Description    string               `json:"description,omitempty"`
	StartAt        string               `json:"start_at,omitempty"`
	EndAt          string               `json:"end_at,omitempty"`
	Status         string               `json:"status"`
	ResolvedStatus string               `json:"resolved_status"`
	CreatedBy      string               `json:"created_by"`
	Responsibles   []ResponsiblePayload `json:"responsibles,omitempty"`
	Objectives     []ObjectivePayload   `json:"objectives,omitempty"`
	CreatedAt      string               `json:"created_at"`
	UpdatedAt      string               `json:"updated_at"`
}

type InstitutionRequest struct {
	NombreIE       string `json:"nombre_ie" validate:"required"`
	CodLocal       string `json:"cod_local" validate:"required,numeric"`
	CodModular     string `json:"cod_modular" validate:"required,numeric"`
	Nivel          string `json:"nivel,omitempty"`
	Modalidad      string `json:"modalidad,omitempty"`
	Distrito       string `json:"distrito,omitempty"`
	REI            string `json:"rei,omitempty"`
	NombreDirector string `json:"nombre_director,omitempty"`
}

type InstitutionResponse struct {
	ID             string `json:"id"`
	NombreIE       string `json:"nombre_ie"`
	CodLocal       string `json:"cod_local"`
	CodModular     string `json:"cod_modular"`
	Nivel          string `json:"nivel,omitempty"`
	Modalidad      string `json:"modalidad,omitempty"`
	Distrito       string `json:"distrito,omitempty"`
	REI            string `json:"rei,omitempty"`
	NombreDirector string `json:"nombre_director,omitempty"`
	Estado         string `json:"estado"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type CalendarDay struct {
	Date    string          `json:"date"`
	InMonth bool            `json:"in_month"`
	Events  []EventResponse `json:"events,omitempty"`
}

type CalendarMonthResponse struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type AgendaResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Events []EventResponse `json:"events"`
}
