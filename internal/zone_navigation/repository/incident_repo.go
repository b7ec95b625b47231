package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
)

var ErrDuplicateIncident = errors.New("incident already recorded")

// IncidentRepository handles PostgreSQL operations for incidents
type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// Create inserts an incident, assigning an id when missing.
func (r *IncidentRepository) Create(ctx context.Context, inc *domain.Incident) error {
	if inc.ID == "" {
		inc.ID = uuid.New().String()
	}

	const q = `
INSERT INTO incidents (id, zone_id, classification, source, label, confidence, note)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at;
`
	var confidence sql.NullFloat64
	if inc.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *inc.Confidence, Valid: true}
	}

	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, q,
		inc.ID,
		int(inc.ZoneID),
		string(inc.Classification),
		inc.Source,
		inc.Label,
		confidence,
		inc.Note,
	).Scan(&createdAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateIncident
		}
		return fmt.Errorf("failed to create incident: %w", err)
	}

	inc.CreatedAt = createdAt
	return nil
}

// List returns the most recent incidents, newest first.
func (r *IncidentRepository) List(ctx context.Context, limit int) ([]domain.Incident, error) {
	const q = `
SELECT id, zone_id, classification, source, label, confidence, note, created_at
FROM incidents
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.db.QueryContext(ctx, q, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// ListByZone returns the most recent incidents for one zone.
func (r *IncidentRepository) ListByZone(ctx context.Context, zone domain.ZoneID, limit int) ([]domain.Incident, error) {
	const q = `
SELECT id, zone_id, classification, source, label, confidence, note, created_at
FROM incidents
WHERE zone_id = $1
ORDER BY created_at DESC
LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, int(zone), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func scanIncidents(rows *sql.Rows) ([]domain.Incident, error) {
	out := make([]domain.Incident, 0, 16)
	for rows.Next() {
		var (
			inc        domain.Incident
			zone       int
			class      string
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&inc.ID, &zone, &class, &inc.Source, &inc.Label, &confidence, &inc.Note, &inc.CreatedAt); err != nil {
			return nil, err
		}
		inc.ZoneID = domain.ZoneID(zone)
		inc.Classification = domain.Classification(class)
		if confidence.Valid {
			c := confidence.Float64
			inc.Confidence = &c
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
