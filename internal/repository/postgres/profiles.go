package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/northbooks/accounts-service/internal/core/domain"
	"github.com/northbooks/accounts-service/internal/repository"
)

var profileColumns = []string{
	"id",
	"account_id",
	"business_name",
	"business_number",
	"hst_number",
	"industry",
	"fiscal_year_end",
	"address_line1",
	"address_line2",
	"city",
	"province",
	"postal_code",
	"country",
	"language",
	"currency",
	"date_format",
	"timezone",
	"email_notifications",
	"processing_alerts",
	"weekly_summary",
	"marketing_emails",
	"profile_completed",
	"profile_completion_percentage",
	"profile_metadata",
	"created_at",
	"updated_at",
}

// ProfileRepository implements port.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	db      pgPool
	builder squirrel.StatementBuilderType
}

// NewProfileRepository wires a PostgreSQL-backed profile repository.
func NewProfileRepository(db pgPool) *ProfileRepository {
	return &ProfileRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByAccountID retrieves the 1:1 profile for an account.
func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Profile, error) {
	stmt, args, err := r.builder.
		Select(profileColumns...).
		From("accounts.user_profiles").
		Where(squirrel.Eq{"account_id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile sql: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args...)

	var profile domain.Profile
	if err := row.Scan(
		&profile.ID,
		&profile.AccountID,
		&profile.BusinessName,
		&profile.BusinessNumber,
		&profile.HSTNumber,
		&profile.Industry,
		&profile.FiscalYearEnd,
		&profile.AddressLine1,
		&profile.AddressLine2,
		&profile.City,
		&profile.Province,
		&profile.PostalCode,
		&profile.Country,
		&profile.Language,
		&profile.Currency,
		&profile.DateFormat,
		&profile.Timezone,
		&profile.EmailNotifications,
		&profile.ProcessingAlerts,
		&profile.WeeklySummary,
		&profile.MarketingEmails,
		&profile.ProfileCompleted,
		&profile.CompletionPercentage,
		&profile.Metadata,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	return &profile, nil
}

func insertProfile(ctx context.Context, builder squirrel.StatementBuilderType, exec pgExecutor, profile domain.Profile) error {
	stmt, args, err := builder.Insert("accounts.user_profiles").
		Columns(profileColumns...).
		Values(
			profile.ID,
			profile.AccountID,
			profile.BusinessName,
			profile.BusinessNumber,
			profile.HSTNumber,
			profile.Industry,
			profile.FiscalYearEnd,
			profile.AddressLine1,
			profile.AddressLine2,
			profile.City,
			profile.Province,
			profile.PostalCode,
			profile.Country,
			profile.Language,
			profile.Currency,
			profile.DateFormat,
			profile.Timezone,
			profile.EmailNotifications,
			profile.ProcessingAlerts,
			profile.WeeklySummary,
			profile.MarketingEmails,
			profile.ProfileCompleted,
			profile.CompletionPercentage,
			profile.Metadata,
			profile.CreatedAt,
			profile.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert profile sql: %w", err)
	}

	if _, err := exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}
