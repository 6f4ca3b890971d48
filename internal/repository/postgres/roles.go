package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/northbooks/accounts-service/internal/core/domain"
)

var roleColumns = []string{
	"id",
	"account_id",
	"role_name",
	"assigned_by",
	"assigned_at",
	"organization_id",
	"is_active",
	"expires_at",
	"created_at",
}

// RoleRepository implements port.RoleRepository using PostgreSQL.
type RoleRepository struct {
	db      pgPool
	builder squirrel.StatementBuilderType
}

// NewRoleRepository wires a PostgreSQL-backed role repository.
func NewRoleRepository(db pgPool) *RoleRepository {
	return &RoleRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByAccount retrieves every role assigned to an account, oldest first.
func (r *RoleRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Role, error) {
	stmt, args, err := r.builder.
		Select(roleColumns...).
		From("accounts.user_roles").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(
			&role.ID,
			&role.AccountID,
			&role.Name,
			&role.AssignedBy,
			&role.AssignedAt,
			&role.OrganizationID,
			&role.IsActive,
			&role.ExpiresAt,
			&role.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

func insertRole(ctx context.Context, builder squirrel.StatementBuilderType, exec pgExecutor, role domain.Role) error {
	stmt, args, err := builder.Insert("accounts.user_roles").
		Columns(roleColumns...).
		Values(
			role.ID,
			role.AccountID,
			role.Name,
			role.AssignedBy,
			role.AssignedAt,
			role.OrganizationID,
			role.IsActive,
			role.ExpiresAt,
			role.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}
