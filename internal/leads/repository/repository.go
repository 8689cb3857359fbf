package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"junkportal_backend/internal/estimator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("lead not found")
	ErrAlreadyClaimed = errors.New("lead already claimed")
	ErrStaleStatus    = errors.New("lead status changed concurrently")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                uuid.UUID
	CustomerName      string
	CustomerPhone     string
	CustomerEmail     *string
	ZipCode           string
	Zone              string
	PhotoURLs         []string
	ItemTypes         []string
	Notes             *string
	MinPrice          int
	MaxPrice          int
	Confidence        string
	Assumptions       string
	Method            string
	ServiceType       string
	ServiceTypeSource string
	AccessType        string
	HeavyMaterialType *string
	AITotalVolume     float64
	Breakdown         estimator.PricingBreakdown
	DetectedItems     []estimator.DetectedItem
	Status            string
	ClaimedBy         *string
	ClaimedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateLeadParams carries everything needed to persist a new lead.
type CreateLeadParams struct {
	CustomerName      string
	CustomerPhone     string
	CustomerEmail     *string
	ZipCode           string
	Zone              string
	PhotoURLs         []string
	ItemTypes         []string
	Notes             *string
	MinPrice          int
	MaxPrice          int
	Confidence        string
	Assumptions       string
	Method            string
	ServiceType       string
	ServiceTypeSource string
	AccessType        string
	HeavyMaterialType *string
	AITotalVolume     float64
	Breakdown         estimator.PricingBreakdown
	DetectedItems     []estimator.DetectedItem
}

const leadColumns = `
	id, customer_name, customer_phone, customer_email, zip_code, zone,
	photo_urls, item_types, notes, min_price, max_price, confidence,
	assumptions, method, service_type, service_type_source, access_type,
	heavy_material_type, ai_total_volume, pricing_breakdown, detected_items,
	status, claimed_by, claimed_at, created_at, updated_at`

// Create inserts a new lead and returns it with generated fields populated.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	breakdownJSON, err := json.Marshal(params.Breakdown)
	if err != nil {
		return Lead{}, fmt.Errorf("marshal pricing breakdown: %w", err)
	}
	itemsJSON, err := json.Marshal(params.DetectedItems)
	if err != nil {
		return Lead{}, fmt.Errorf("marshal detected items: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			customer_name, customer_phone, customer_email, zip_code, zone,
			photo_urls, item_types, notes, min_price, max_price, confidence,
			assumptions, method, service_type, service_type_source, access_type,
			heavy_material_type, ai_total_volume, pricing_breakdown, detected_items
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING `+leadColumns,
		params.CustomerName, params.CustomerPhone, params.CustomerEmail,
		params.ZipCode, params.Zone, params.PhotoURLs, params.ItemTypes,
		params.Notes, params.MinPrice, params.MaxPrice, params.Confidence,
		params.Assumptions, params.Method, params.ServiceType,
		params.ServiceTypeSource, params.AccessType, params.HeavyMaterialType,
		params.AITotalVolume, breakdownJSON, itemsJSON,
	)

	return scanLead(row)
}

// GetByID fetches a single lead.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// ListFilter narrows the lead listing. Zero values mean no filtering.
type ListFilter struct {
	Status   string
	ZipCode  string
	MinPrice int
	MaxPrice int
	Limit    int
	Offset   int
}

// List returns leads matching the filter, newest first, plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Lead, int, error) {
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ZipCode != "" {
		args = append(args, filter.ZipCode)
		conditions = append(conditions, fmt.Sprintf("zip_code = $%d", len(args)))
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("max_price >= $%d", len(args)))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("min_price <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	rows, err := r.pool.Query(ctx,
		"SELECT "+leadColumns+" FROM leads"+where+
			fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", limitPos, offsetPos),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// Claim atomically marks a lead as claimed. The conditional update guarantees
// only one caller wins; losers get ErrAlreadyClaimed.
func (r *Repository) Claim(ctx context.Context, id uuid.UUID, claimedBy string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET claimed_by = $2, claimed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND claimed_by IS NULL
		RETURNING `+leadColumns,
		id, claimedBy,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the lead does not exist or someone else claimed it first.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return Lead{}, getErr
		}
		return Lead{}, ErrAlreadyClaimed
	}
	return lead, err
}

// UpdateStatus moves a lead from one status to another. The fromStatus guard
// makes the transition check race-free: a concurrent change yields
// ErrStaleStatus.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+leadColumns,
		id, fromStatus, toStatus,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return Lead{}, getErr
		}
		return Lead{}, ErrStaleStatus
	}
	return lead, err
}

func scanLead(row pgx.Row) (Lead, error) {
	var (
		lead          Lead
		breakdownJSON []byte
		itemsJSON     []byte
	)

	err := row.Scan(
		&lead.ID, &lead.CustomerName, &lead.CustomerPhone, &lead.CustomerEmail,
		&lead.ZipCode, &lead.Zone, &lead.PhotoURLs, &lead.ItemTypes,
		&lead.Notes, &lead.MinPrice, &lead.MaxPrice, &lead.Confidence,
		&lead.Assumptions, &lead.Method, &lead.ServiceType,
		&lead.ServiceTypeSource, &lead.AccessType, &lead.HeavyMaterialType,
		&lead.AITotalVolume, &breakdownJSON, &itemsJSON,
		&lead.Status, &lead.ClaimedBy, &lead.ClaimedAt,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &lead.Breakdown); err != nil {
			return Lead{}, fmt.Errorf("unmarshal pricing breakdown: %w", err)
		}
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &lead.DetectedItems); err != nil {
			return Lead{}, fmt.Errorf("unmarshal detected items: %w", err)
		}
	}

	return lead, nil
}
