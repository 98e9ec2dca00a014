package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"monitoreo-service/internal/availability"
	"monitoreo-service/internal/models"
	"monitoreo-service/pkg/response"

	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// #### templates ####

func (s *Storage) CreateTemplate(ctx context.Context, tpl *models.Template) error {
	const op = "storage.postgres.CreateTemplate"

	sections, err := json.Marshal(tpl.Sections)
	if err != nil {
		return fmt.Errorf("%s: marshal sections: %w", op, err)
	}

	levels, err := json.Marshal(tpl.Levels)
	if err != nil {
		return fmt.Errorf("%s: marshal levels: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO templates
		(id, title, description, status, sections, levels_config,
		 avail_status, avail_start_at, avail_end_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		tpl.ID,
		tpl.Title,
		tpl.Description,
		string(tpl.Status),
		sections,
		levels,
		string(tpl.Availability.Status),
		tpl.Availability.StartAt,
		tpl.Availability.EndAt,
		tpl.CreatedBy,
		tpl.CreatedAt,
	)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) scanTemplate(row interface{ Scan(dest ...any) error }) (*models.Template, error) {
	var tpl models.Template
	var sections, levels []byte
	var availStatus string
	var startAt, endAt sql.NullTime

	err := row.Scan(
		&tpl.ID,
		&tpl.Title,
		&tpl.Description,
		&tpl.Status,
		&sections,
		&levels,
		&availStatus,
		&startAt,
		&endAt,
		&tpl.CreatedBy,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &tpl.Sections); err != nil {
			return nil, fmt.Errorf("unmarshal sections: %w", err)
		}
	}
	if len(levels) > 0 {
		if err := json.Unmarshal(levels, &tpl.Levels); err != nil {
			return nil, fmt.Errorf("unmarshal levels: %w", err)
		}
	}

	tpl.Availability.Status = availability.NormalizeStatus(availStatus)
	if startAt.Valid {
		t := startAt.Time
		tpl.Availability.StartAt = &t
	}
	if endAt.Valid {
		t := endAt.Time
		tpl.Availability.EndAt = &t
	}

	return &tpl, nil
}

const templateColumns = `id, title, description, status, sections, levels_config,
	avail_status, avail_start_at, avail_end_at, created_by, created_at, updated_at`

func (s *Storage) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	const op = "storage.postgres.GetTemplate"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id=$1`, id)

	tpl, err := s.scanTemplate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tpl, nil
}

func (s *Storage) ListTemplates(ctx context.Context, status *string) ([]*models.Template, error) {
	const op = "storage.postgres.ListTemplates"

	query := `SELECT ` + templateColumns + ` FROM templates`
	args := []any{}
	if status != nil {
		query += ` WHERE status=$1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var templates []*models.Template

	for rows.Next() {
		tpl, err := s.scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		templates = append(templates, tpl)
	}

	return templates, nil
}

func (s *Storage) UpdateTemplate(ctx context.Context, tpl *models.Template) error {
	const op = "storage.postgres.UpdateTemplate"

	sections, err := json.Marshal(tpl.Sections)
	if err != nil {
		return fmt.Errorf("%s: marshal sections: %w", op, err)
	}

	levels, err := json.Marshal(tpl.Levels)
	if err != nil {
		return fmt.Errorf("%s: marshal levels: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE templates
		SET title=$1, description=$2, sections=$3, levels_config=$4,
			avail_status=$5, avail_start_at=$6, avail_end_at=$7, updated_at=$8
		WHERE id=$9`,
		tpl.Title,
		tpl.Description,
		sections,
		levels,
		string(tpl.Availability.Status),
		tpl.Availability.StartAt,
		tpl.Availability.EndAt,
		tpl.UpdatedAt,
		tpl.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) SetTemplateStatus(ctx context.Context, id string, status models.TemplateStatus) error {
	const op = "storage.postgres.SetTemplateStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE templates SET status=$1, updated_at=now() WHERE id=$2`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) SetTemplateAvailabilityStatus(ctx context.Context, id string, status availability.Status) error {
	const op = "storage.postgres.SetTemplateAvailabilityStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE templates SET avail_status=$1, updated_at=now() WHERE id=$2`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### instances ####

func (s *Storage) CreateInstance(ctx context.Context, inst *models.Instance) error {
	const op = "storage.postgres.CreateInstance"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO instances (id, template_id, created_by, status, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		inst.ID,
		inst.TemplateID,
		inst.CreatedBy,
		string(inst.Status),
		inst.Data,
		inst.CreatedAt,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}
		if ok && sqlErr.Code == "23503" {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

const instanceColumns = `id, template_id, created_by, status, data, created_at, updated_at`

func (s *Storage) scanInstance(row interface{ Scan(dest ...any) error }) (*models.Instance, error) {
	var inst models.Instance
	var data sql.NullString

	err := row.Scan(
		&inst.ID,
		&inst.TemplateID,
		&inst.CreatedBy,
		&inst.Status,
		&data,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inst.Data = data.String

	return &inst, nil
}

func (s *Storage) GetInstance(ctx context.Context, id string) (*models.Instance, error) {
	const op = "storage.postgres.GetInstance"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+instanceColumns+` FROM instances WHERE id=$1`, id)

	inst, err := s.scanInstance(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inst, nil
}

func (s *Storage) FindInProgressInstance(ctx context.Context, templateID, createdBy string) (*models.Instance, error) {
	const op = "storage.postgres.FindInProgressInstance"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+instanceColumns+` FROM instances
		WHERE template_id=$1 AND created_by=$2 AND status=$3
		ORDER BY created_at DESC
		LIMIT 1`,
		templateID, createdBy, string(models.InstanceInProgress))

	inst, err := s.scanInstance(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inst, nil
}

func (s *Storage) ListInstances(ctx context.Context, templateID, createdBy *string) ([]*models.Instance, error) {
	const op = "storage.postgres.ListInstances"

	query := `SELECT ` + instanceColumns + ` FROM instances WHERE 1=1`
	args := []any{}

	if templateID != nil {
		args = append(args, *templateID)
		query += fmt.Sprintf(` AND template_id=$%d`, len(args))
	}
	if createdBy != nil {
		args = append(args, *createdBy)
		query += fmt.Sprintf(` AND created_by=$%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var instances []*models.Instance

	for rows.Next() {
		inst, err := s.scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		instances = append(instances, inst)
	}

	return instances, nil
}

func (s *Storage) UpdateInstanceData(ctx context.Context, id string, data string) error {
	const op = "storage.postgres.UpdateInstanceData"

	res, err := s.db.ExecContext(ctx,
		`UPDATE instances SET data=$1, updated_at=now() WHERE id=$2`, data, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) SetInstanceStatus(ctx context.Context, id string, status models.InstanceStatus) error {
	const op = "storage.postgres.SetInstanceStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE instances SET status=$1, updated_at=now() WHERE id=$2`, string(status), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### events ####

func (s *Storage) CreateEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	const op = "storage.postgres.CreateEvent"

	_, err := tx.ExecContext(ctx,
		`INSERT INTO events
		(id, title, event_type, description, start_at, end_at, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		event.ID,
		event.Title,
		string(event.Type),
		event.Description,
		event.StartAt,
		event.EndAt,
		string(event.Status),
		event.CreatedBy,
		event.CreatedAt,
	)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	const op = "storage.postgres.UpdateEvent"

	res, err := tx.ExecContext(ctx,
		`UPDATE events
		SET title=$1, event_type=$2, description=$3, start_at=$4, end_at=$5, status=$6, updated_at=$7
		WHERE id=$8`,
		event.Title,
		string(event.Type),
		event.Description,
		event.StartAt,
		event.EndAt,
		string(event.Status),
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) ReplaceEventResponsibles(ctx context.Context, tx *sql.Tx, eventID string, responsibles []models.Responsible) error {
	const op = "storage.postgres.ReplaceEventResponsibles"

	_, err := tx.ExecContext(ctx, `DELETE FROM event_responsibles WHERE event_id=$1`, eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, resp := range responsibles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO event_responsibles (event_id, user_id, level, modality, course)
			VALUES ($1, $2, $3, $4, $5)`,
			eventID,
			resp.UserID,
			string(resp.Level),
			string(resp.Modality),
			resp.Course,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) ReplaceEventObjectives(ctx context.Context, tx *sql.Tx, eventID string, objectives []models.Objective) error {
	const op = "storage.postgres.ReplaceEventObjectives"

	_, err := tx.ExecContext(ctx, `DELETE FROM event_objectives WHERE event_id=$1`, eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, obj := range objectives {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO event_objectives (event_id, text, completed, ord)
			VALUES ($1, $2, $3, $4)`,
			eventID,
			obj.Text,
			obj.Completed,
			obj.Order,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

const eventColumns = `id, title, event_type, description, start_at, end_at, status, created_by, created_at, updated_at`

func (s *Storage) scanEvent(row interface{ Scan(dest ...any) error }) (*models.Event, error) {
	var event models.Event
	var status string
	var startAt, endAt sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Type,
		&event.Description,
		&startAt,
		&endAt,
		&status,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Status = availability.NormalizeStatus(status)
	if startAt.Valid {
		t := startAt.Time
		event.StartAt = &t
	}
	if endAt.Valid {
		t := endAt.Time
		event.EndAt = &t
	}

	return &event, nil
}

func (s *Storage) loadEventChildren(ctx context.Context, event *models.Event) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, level, modality, course FROM event_responsibles WHERE event_id=$1`,
		event.ID)
	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var resp models.Responsible
		if err := rows.Scan(&resp.UserID, &resp.Level, &resp.Modality, &resp.Course); err != nil {
			return err
		}

		event.Responsibles = append(event.Responsibles, resp)
	}

	objRows, err := s.db.QueryContext(ctx,
		`SELECT text, completed, ord FROM event_objectives WHERE event_id=$1 ORDER BY ord`,
		event.ID)
	if err != nil {
		return err
	}

	defer objRows.Close()

	for objRows.Next() {
		var obj models.Objective
		if err := objRows.Scan(&obj.Text, &obj.Completed, &obj.Order); err != nil {
			return err
		}

		event.Objectives = append(event.Objectives, obj)
	}

	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.postgres.GetEvent"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id=$1`, id)

	event, err := s.scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.loadEventChildren(ctx, event); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return event, nil
}

func (s *Storage) ListEvents(ctx context.Context, from, to *time.Time) ([]*models.Event, error) {
	const op = "storage.postgres.ListEvents"

	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []any{}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND (end_at IS NULL OR end_at >= $%d)`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND (start_at IS NULL OR start_at <= $%d)`, len(args))
	}
	query += ` ORDER BY start_at NULLS LAST`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var events []*models.Event

	for rows.Next() {
		event, err := s.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		events = append(events, event)
	}

	for _, event := range events {
		if err := s.loadEventChildren(ctx, event); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return events, nil
}

func (s *Storage) SetEventStatus(ctx context.Context, id string, status availability.Status) error {
	const op = "storage.postgres.SetEventStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET status=$1, updated_at=now() WHERE id=$2`, string(status), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteTemplate(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteTemplate"

	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id=$1`, id)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23503" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) TemplateHasEvent(ctx context.Context, templateID string) (bool, error) {
	const op = "storage.postgres.TemplateHasEvent"

	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id=$1)`, templateID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// #### profiles ####

const profileColumns = `id, email, first_name, last_name, role, status, avatar_url`

func (s *Storage) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	const op = "storage.postgres.GetProfile"

	var profile models.Profile
	var avatar sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id).
		Scan(
			&profile.ID,
			&profile.Email,
			&profile.FirstName,
			&profile.LastName,
			&profile.Role,
			&profile.Status,
			&avatar,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile.AvatarURL = avatar.String

	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	const op = "storage.postgres.ListProfiles"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var profiles []*models.Profile

	for rows.Next() {
		var profile models.Profile
		var avatar sql.NullString

		err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.FirstName,
			&profile.LastName,
			&profile.Role,
			&profile.Status,
			&avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		profile.AvatarURL = avatar.String

		profiles = append(profiles, &profile)
	}

	return profiles, nil
}

// #### institutions ####

const institutionColumns = `id, nombre_ie, cod_local, cod_modular, nivel, modalidad, distrito, rei, nombre_director, estado`

func (s *Storage) scanInstitution(row interface{ Scan(dest ...any) error }) (*models.Institution, error) {
	var inst models.Institution

	err := row.Scan(
		&inst.ID,
		&inst.NombreIE,
		&inst.CodLocal,
		&inst.CodModular,
		&inst.Nivel,
		&inst.Modalidad,
		&inst.Distrito,
		&inst.REI,
		&inst.NombreDirector,
		&inst.Estado,
	)
	if err != nil {
		return nil, err
	}

	return &inst, nil
}

func (s *Storage) CreateInstitution(ctx context.Context, inst *models.Institution) error {
	const op = "storage.postgres.CreateInstitution"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO institutions
		(id, nombre_ie, cod_local, cod_modular, nivel, modalidad, distrito, rei, nombre_director, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inst.ID,
		inst.NombreIE,
		inst.CodLocal,
		inst.CodModular,
		inst.Nivel,
		inst.Modalidad,
		inst.Distrito,
		inst.REI,
		inst.NombreDirector,
		string(inst.Estado),
	)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetInstitution(ctx context.Context, id string) (*models.Institution, error) {
	const op = "storage.postgres.GetInstitution"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+institutionColumns+` FROM institutions WHERE id=$1`, id)

	inst, err := s.scanInstitution(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inst, nil
}

func (s *Storage) ListInstitutions(ctx context.Context, includeInactive bool) ([]*models.Institution, error) {
	const op = "storage.postgres.ListInstitutions"

	query := `SELECT ` + institutionColumns + ` FROM institutions`
	if !includeInactive {
		query += ` WHERE estado='active'`
	}
	query += ` ORDER BY nombre_ie`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var institutions []*models.Institution

	for rows.Next() {
		inst, err := s.scanInstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		institutions = append(institutions, inst)
	}

	return institutions, nil
}

func (s *Storage) UpdateInstitution(ctx context.Context, inst *models.Institution) error {
	const op = "storage.postgres.UpdateInstitution"

	res, err := s.db.ExecContext(ctx,
		`UPDATE institutions
		SET nombre_ie=$1, cod_local=$2, cod_modular=$3, nivel=$4, modalidad=$5,
			distrito=$6, rei=$7, nombre_director=$8
		WHERE id=$9`,
		inst.NombreIE,
		inst.CodLocal,
		inst.CodModular,
		inst.Nivel,
		inst.Modalidad,
		inst.Distrito,
		inst.REI,
		inst.NombreDirector,
		inst.ID,
	)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// DeactivateInstitution soft-deletes: past instances keep referencing the row.
func (s *Storage) DeactivateInstitution(ctx context.Context, id string) error {
	const op = "storage.postgres.DeactivateInstitution"

	res, err := s.db.ExecContext(ctx,
		`UPDATE institutions SET estado='inactive' WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
