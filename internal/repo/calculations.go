package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	catenary "Mooring/internal/calc/catenary"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Calculation is one stored run: the inputs exactly as computed and the
// engine result.
type Calculation struct {
	ID        uuid.UUID          `json:"id"`
	UserID    int                `json:"-"`
	Name      string             `json:"name"`
	Notes     string             `json:"notes"`
	Tags      []string           `json:"tags"`
	Inputs    catenary.LineInput `json:"inputs"`
	Results   catenary.Result    `json:"results"`
	CreatedAt time.Time          `json:"createdAt"`
}

// CalculationFilter narrows List. Zero values mean no constraint.
type CalculationFilter struct {
	Tag    string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// CalculationUpdate holds the user-editable fields; nil fields are left unchanged.
type CalculationUpdate struct {
	Name  *string
	Notes *string
	Tags  *[]string
}

type ComponentTypeCount struct {
	ComponentType string `json:"componentType"`
	Count         int    `json:"count"`
}

type CalculationStats struct {
	TotalCalculations int                  `json:"totalCalculations"`
	AvgSafetyFactor   float64              `json:"avgSafetyFactor"`
	MaxAnchorTension  float64              `json:"maxAnchorTension"`
	MinAnchorTension  float64              `json:"minAnchorTension"`
	ComponentTypes    []ComponentTypeCount `json:"componentTypes"`
}

type CalculationRepository interface {
	CreateCalculation(ctx context.Context, c *Calculation) error
	ListCalculations(ctx context.Context, userID int, f CalculationFilter) ([]Calculation, int, error)
	GetCalculation(ctx context.Context, userID int, id uuid.UUID) (Calculation, error)
	UpdateCalculation(ctx context.Context, userID int, id uuid.UUID, u CalculationUpdate) (Calculation, error)
	DeleteCalculation(ctx context.Context, userID int, id uuid.UUID) error
	CalculationStats(ctx context.Context, userID int) (CalculationStats, error)
}

type PostgresCalculationRepository struct {
	db *sql.DB
}

func NewPostgresCalculationRepository(db *sql.DB) *PostgresCalculationRepository {
	return &PostgresCalculationRepository{db: db}
}

const calculationColumns = "id, user_id, name, notes, tags, inputs, results, created_at"

// CreateCalculation assigns an ID when c has none and fills CreatedAt.
func (r *PostgresCalculationRepository) CreateCalculation(ctx context.Context, c *Calculation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	inputs, err := json.Marshal(c.Inputs)
	if err != nil {
		return fmt.Errorf("encode inputs: %w", err)
	}
	results, err := json.Marshal(c.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	query := `INSERT INTO calculations (id, user_id, name, notes, tags, component_type, safety_factor, anchor_tension, inputs, results)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Notes, pq.Array(c.Tags),
		string(c.Inputs.ComponentType), c.Results.SafetyFactor, c.Results.AnchorTension,
		inputs, results,
	).Scan(&c.CreatedAt)
}

// ListCalculations returns one page, newest first, and the total number of
// rows matching the filter.
func (r *PostgresCalculationRepository) ListCalculations(ctx context.Context, userID int, f CalculationFilter) ([]Calculation, int, error) {
	where, args := listWhere(userID, f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calculations WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + calculationColumns + " FROM calculations WHERE " + where + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Calculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func listWhere(userID int, f CalculationFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	if f.Tag != "" {
		args = append(args, f.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func (r *PostgresCalculationRepository) GetCalculation(ctx context.Context, userID int, id uuid.UUID) (Calculation, error) {
	query := "SELECT " + calculationColumns + " FROM calculations WHERE id = $1 AND user_id = $2"
	c, err := scanCalculation(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresCalculationRepository) UpdateCalculation(ctx context.Context, userID int, id uuid.UUID, u CalculationUpdate) (Calculation, error) {
	var tags any
	if u.Tags != nil {
		tags = pq.Array(*u.Tags)
	}
	query := `UPDATE calculations SET name = COALESCE($3, name), notes = COALESCE($4, notes), tags = COALESCE($5, tags)
WHERE id = $1 AND user_id = $2 RETURNING ` + calculationColumns
	c, err := scanCalculation(r.db.QueryRowContext(ctx, query, id, userID, u.Name, u.Notes, tags))
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresCalculationRepository) DeleteCalculation(ctx context.Context, userID int, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM calculations WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CalculationStats aggregates over all of a user's calculations. The
// component type breakdown is limited to the five most used types.
func (r *PostgresCalculationRepository) CalculationStats(ctx context.Context, userID int) (CalculationStats, error) {
	var s CalculationStats
	query := `SELECT COUNT(*), COALESCE(AVG(safety_factor), 0), COALESCE(MAX(anchor_tension), 0), COALESCE(MIN(anchor_tension), 0)
FROM calculations WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.TotalCalculations, &s.AvgSafetyFactor, &s.MaxAnchorTension, &s.MinAnchorTension)
	if err != nil {
		return CalculationStats{}, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT component_type, COUNT(*) AS n FROM calculations WHERE user_id = $1
GROUP BY component_type ORDER BY n DESC, component_type LIMIT 5`, userID)
	if err != nil {
		return CalculationStats{}, err
	}
	defer rows.Close()
	s.ComponentTypes = []ComponentTypeCount{}
	for rows.Next() {
		var ct ComponentTypeCount
		if err := rows.Scan(&ct.ComponentType, &ct.Count); err != nil {
			return CalculationStats{}, err
		}
		s.ComponentTypes = append(s.ComponentTypes, ct)
	}
	return s, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (Calculation, error) {
	var c Calculation
	var tags pq.StringArray
	var inputs, results []byte
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Notes, &tags, &inputs, &results, &c.CreatedAt); err != nil {
		return Calculation{}, err
	}
	c.Tags = []string(tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if err := json.Unmarshal(inputs, &c.Inputs); err != nil {
		return Calculation{}, fmt.Errorf("decode inputs: %w", err)
	}
	if err := json.Unmarshal(results, &c.Results); err != nil {
		return Calculation{}, fmt.Errorf("decode results: %w", err)
	}
	return c, nil
}
