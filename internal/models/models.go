package models

import (
	"strings"
	"time"

	"monitoreo-service/internal/availability"
)

type TemplateStatus string

const (
	TemplateDraft     TemplateStatus = "draft"
	TemplatePublished TemplateStatus = "published"
)

type InstanceStatus string

const (
	InstanceInProgress InstanceStatus = "in_progress"
	InstanceCompleted  InstanceStatus = "completed"
)

type EventType string

const (
	EventMonitoring EventType = "monitoring"
	EventActivity   EventType = "activity"
	EventUgelDate   EventType = "ugel_date"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type ProfileStatus string

const (
	ProfileActive   ProfileStatus = "active"
	ProfileDisabled ProfileStatus = "disabled"
)

type InstitutionState string

const (
	InstitutionActive   InstitutionState = "active"
	InstitutionInactive InstitutionState = "inactive"
)

type EducationLevel string

const (
	LevelInitial   EducationLevel = "initial"
	LevelPrimary   EducationLevel = "primary"
	LevelSecondary EducationLevel = "secondary"
)

type Modality string

const (
	ModalityEBR Modality = "ebr"
	ModalityEBE Modality = "ebe"
)

// NormalizeLevel folds the legacy Spanish spellings still present in old
// records onto the closed EducationLevel set.
func NormalizeLevel(raw string) (EducationLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "initial", "inicial":
		return LevelInitial, true
	case "primary", "primaria":
		return LevelPrimary, true
	case "secondary", "secundaria":
		return LevelSecondary, true
	default:
		return "", false
	}
}

type Question struct {
	ID   string `db:"id" json:"id"`
	Text string `db:"text" json:"text"`
}

type Section struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Questions []Question `db:"questions" json:"questions"`
}

type ScoringLevel struct {
	Key         string `db:"key" json:"key"`
	Label       string `db:"label" json:"label"`
	Description string `db:"description" json:"description"`
}

type Template struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	Status       TemplateStatus `db:"status"`
	Sections     []Section
	Levels       []ScoringLevel
	Availability availability.Availability
	CreatedBy    string    `db:"created_by"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (t *Template) SpanStart() *time.Time { return t.Availability.StartAt }
func (t *Template) SpanEnd() *time.Time   { return t.Availability.EndAt }

type Instance struct {
	ID         string         `db:"id"`
	TemplateID string         `db:"template_id"`
	CreatedBy  string         `db:"created_by"`
	Status     InstanceStatus `db:"status"`
	Data       string         `db:"data"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type Responsible struct {
	UserID   string         `db:"user_id"`
	Level    EducationLevel `db:"level"`
	Modality Modality       `db:"modality"`
	Course   string         `db:"course"`
}

type Objective struct {
	Text      string `db:"text"`
	Completed bool   `db:"completed"`
	Order     int    `db:"ord"`
}

type Event struct {
	ID           string              `db:"id"`
	Title        string              `db:"title"`
	Type         EventType           `db:"event_type"`
	Description  string              `db:"description"`
	StartAt      *time.Time          `db:"start_at"`
	EndAt        *time.Time          `db:"end_at"`
	Status       availability.Status `db:"status"`
	CreatedBy    string              `db:"created_by"`
	Responsibles []Responsible
	Objectives   []Objective
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (e *Event) SpanStart() *time.Time { return e.StartAt }
func (e *Event) SpanEnd() *time.Time   { return e.EndAt }

// Window returns the event's authored dates as an Availability for status
// resolution.
func (e *Event) Window() *availability.Availability {
	return &availability.Availability{
		Status:  e.Status,
		StartAt: e.StartAt,
		EndAt:   e.EndAt,
	}
}

type Profile struct {
	ID        string        `db:"id"`
	Email     string        `db:"email"`
	FirstName string        `db:"first_name"`
	LastName  string        `db:"last_name"`
	Role      Role          `db:"role"`
	Status    ProfileStatus `db:"status"`
	AvatarURL string        `db:"avatar_url"`
}

func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Institution struct {
	ID             string           `db:"id"`
	NombreIE       string           `db:"nombre_ie"`
	CodLocal       string           `db:"cod_local"`
	CodModular     string           `db:"cod_modular"`
	Nivel          string           `db:"nivel"`
	Modalidad      string           `db:"modalidad"`
	Distrito       string           `db:"distrito"`
	REI            string           `db:"rei"`
	NombreDirector string           `db:"nombre_director"`
	Estado         InstitutionState `db:"estado"`
}
