// Package store persists gateway configurations in Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"eventpay/internal/common/database"
	"eventpay/internal/gateway/domain"
)

// Store handles gateway configuration persistence.
type Store struct {
	db *database.DB
}

// New creates a new configuration store.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

const configColumns = `
	id, gateway, fee_mode,
	domestic_percentage, domestic_fixed_fee,
	international_percentage, international_fixed_fee,
	platform_fee_percentage, platform_fee_minimum, platform_fee_cap,
	is_active, enabled_at, disabled_at, created_at, updated_at
`

// GetActive returns the single active configuration, or database.ErrNotFound
// when no configuration is active.
func (s *Store) GetActive(ctx context.Context) (*domain.GatewayConfiguration, error) {
	query := `SELECT ` + configColumns + ` FROM gateway_configurations WHERE is_active = true`

	cfg, err := scanConfig(s.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("querying active configuration: %w", err)
	}
	return cfg, nil
}

// GetByID returns a configuration by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.GatewayConfiguration, error) {
	query := `SELECT ` + configColumns + ` FROM gateway_configurations WHERE id = $1`

	cfg, err := scanConfig(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("querying configuration %s: %w", id, err)
	}
	return cfg, nil
}

// List returns configurations ordered newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*domain.GatewayConfiguration, int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM gateway_configurations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting configurations: %w", err)
	}

	query := `SELECT ` + configColumns + `
		FROM gateway_configurations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing configurations: %w", err)
	}
	defer rows.Close()

	var configs []*domain.GatewayConfiguration
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning configuration: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return configs, total, nil
}

// Create inserts a new configuration (inactive until activated).
func (s *Store) Create(ctx context.Context, cfg *domain.GatewayConfiguration) error {
	query := `
		INSERT INTO gateway_configurations (
			id, gateway, fee_mode,
			domestic_percentage, domestic_fixed_fee,
			international_percentage, international_fixed_fee,
			platform_fee_percentage, platform_fee_minimum, platform_fee_cap,
			is_active, enabled_at, disabled_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := s.db.Exec(ctx, query,
		cfg.ID, cfg.Gateway, cfg.FeeMode,
		cfg.DomesticRate.Percentage, cfg.DomesticRate.FixedFee,
		cfg.InternationalRate.Percentage, cfg.InternationalRate.FixedFee,
		cfg.PlatformFee.Percentage, cfg.PlatformFee.Minimum, cfg.PlatformFee.Cap,
		cfg.IsActive, cfg.EnabledAt, cfg.DisabledAt, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return database.ErrAlreadyExists
		}
		return fmt.Errorf("inserting configuration: %w", err)
	}
	return nil
}

// Activate makes the given configuration the single active one. The current
// active record (if any) is disabled in the same transaction, so readers
// never observe two active rows.
func (s *Store) Activate(ctx context.Context, id string) (*domain.GatewayConfiguration, error) {
	now := time.Now().UTC()

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE gateway_configurations
			SET is_active = false, disabled_at = $1, updated_at = $1
			WHERE is_active = true AND id <> $2`,
			now, id,
		)
		if err != nil {
			return fmt.Errorf("disabling current configuration: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE gateway_configurations
			SET is_active = true, enabled_at = $1, disabled_at = NULL, updated_at = $1
			WHERE id = $2`,
			now, id,
		)
		if err != nil {
			return fmt.Errorf("enabling configuration: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return database.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Deactivate disables a configuration without activating another.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	now := time.Now().UTC()

	tag, err := s.db.Exec(ctx, `
		UPDATE gateway_configurations
		SET is_active = false, disabled_at = $1, updated_at = $1
		WHERE id = $2`,
		now, id,
	)
	if err != nil {
		return fmt.Errorf("deactivating configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

// scanConfig scans a configuration row. Rate columns are nullable; a NULL
// reads as zero rather than propagating, matching the calculator contract.
func scanConfig(row pgx.Row) (*domain.GatewayConfiguration, error) {
	var cfg domain.GatewayConfiguration
	var domPct, domFixed, intPct, intFixed *float64
	var pfPct, pfMin, pfCap *float64

	err := row.Scan(
		&cfg.ID, &cfg.Gateway, &cfg.FeeMode,
		&domPct, &domFixed,
		&intPct, &intFixed,
		&pfPct, &pfMin, &pfCap,
		&cfg.IsActive, &cfg.EnabledAt, &cfg.DisabledAt, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.DomesticRate = domain.CardRate{Percentage: deref(domPct), FixedFee: deref(domFixed)}
	cfg.InternationalRate = domain.CardRate{Percentage: deref(intPct), FixedFee: deref(intFixed)}
	cfg.PlatformFee = domain.PlatformFee{Percentage: deref(pfPct), Minimum: deref(pfMin), Cap: deref(pfCap)}

	return &cfg, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
