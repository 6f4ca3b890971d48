package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/northbooks/accounts-service/internal/core/domain"
	"github.com/northbooks/accounts-service/internal/repository"
)

const uniqueViolationCode = "23505"

var accountColumns = []string{
	"id",
	"email",
	"password_hash",
	"email_verified",
	"email_verification_token",
	"email_verified_at",
	"first_name",
	"last_name",
	"phone",
	"is_active",
	"is_locked",
	"failed_login_attempts",
	"locked_until",
	"account_type",
	"created_at",
	"updated_at",
	"last_login_at",
	"deleted_at",
}

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db      pgPool
	builder squirrel.StatementBuilderType
}

// NewAccountRepository wires a PostgreSQL-backed account repository.
func NewAccountRepository(db pgPool) *AccountRepository {
	return &AccountRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves an account by identifier. Soft-deleted rows are excluded.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an account by its unique email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *AccountRepository) getBy(ctx context.Context, predicate squirrel.Eq) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("accounts.users").
		Where(predicate).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args...)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	return account, nil
}

// CreateWithProfileAndRole inserts the account, profile, and initial role in
// one transaction. A concurrent insert that already claimed the email
// surfaces as repository.ErrDuplicateEmail; every failure rolls back all
// three inserts.
func (r *AccountRepository) CreateWithProfileAndRole(ctx context.Context, account domain.Account, profile domain.Profile, role domain.Role) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create account tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := r.insertAccount(ctx, tx, account); err != nil {
		return err
	}
	if err := insertProfile(ctx, r.builder, tx, profile); err != nil {
		return err
	}
	if err := insertRole(ctx, r.builder, tx, role); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create account tx: %w", err)
	}

	return nil
}

func (r *AccountRepository) insertAccount(ctx context.Context, exec pgExecutor, account domain.Account) error {
	stmt, args, err := r.builder.Insert("accounts.users").
		Columns(accountColumns...).
		Values(
			account.ID,
			account.Email,
			account.PasswordHash,
			account.EmailVerified,
			account.EmailVerificationToken,
			account.EmailVerifiedAt,
			account.FirstName,
			account.LastName,
			account.Phone,
			account.IsActive,
			account.IsLocked,
			account.FailedLoginAttempts,
			account.LockedUntil,
			account.AccountType,
			account.CreatedAt,
			account.UpdatedAt,
			account.LastLoginAt,
			account.DeletedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// Update persists the mutable account fields and refreshes updated_at.
// account_type is immutable after creation and is never written here.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	stmt, args, err := r.builder.Update("accounts.users").
		Set("email_verified", account.EmailVerified).
		Set("email_verification_token", account.EmailVerificationToken).
		Set("email_verified_at", account.EmailVerifiedAt).
		Set("first_name", account.FirstName).
		Set("last_name", account.LastName).
		Set("phone", account.Phone).
		Set("is_active", account.IsActive).
		Set("is_locked", account.IsLocked).
		Set("failed_login_attempts", account.FailedLoginAttempts).
		Set("locked_until", account.LockedUntil).
		Set("last_login_at", account.LastLoginAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": account.ID}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update account sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// IncrementFailedLogins bumps the failure counter in a single statement so
// concurrent failed attempts cannot read-modify-write past each other.
func (r *AccountRepository) IncrementFailedLogins(ctx context.Context, id string) (int, error) {
	stmt, args, err := r.builder.Update("accounts.users").
		Set("failed_login_attempts", squirrel.Expr("failed_login_attempts + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING failed_login_attempts").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build increment failed logins sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("increment failed logins: %w", err)
	}

	return count, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account           domain.Account
		verificationToken sql.NullString
		firstName         sql.NullString
		lastName          sql.NullString
		phone             sql.NullString
	)

	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.EmailVerified,
		&verificationToken,
		&account.EmailVerifiedAt,
		&firstName,
		&lastName,
		&phone,
		&account.IsActive,
		&account.IsLocked,
		&account.FailedLoginAttempts,
		&account.LockedUntil,
		&account.AccountType,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.LastLoginAt,
		&account.DeletedAt,
	); err != nil {
		return nil, err
	}

	if verificationToken.Valid {
		val := verificationToken.String
		account.EmailVerificationToken = &val
	}
	account.FirstName = firstName.String
	account.LastName = lastName.String
	if phone.Valid {
		val := phone.String
		account.Phone = &val
	}

	return &account, nil
}
