package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/northbooks/accounts-service/internal/core/domain"
	"github.com/northbooks/accounts-service/internal/repository"
)

func newTestAccount() (domain.Account, domain.Profile, domain.Role) {
	now := time.Now().UTC()
	account := domain.Account{
		ID:           "acc-1",
		Email:        "a@b.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "A",
		LastName:     "B",
		IsActive:     true,
		AccountType:  domain.AccountTypeIndividual,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := domain.NewProfile("prof-1", account.ID, now)
	role := domain.Role{
		ID:         "role-1",
		AccountID:  account.ID,
		Name:       domain.RoleClient,
		AssignedAt: now,
		IsActive:   true,
		CreatedAt:  now,
	}
	return account, profile, role
}

func TestCreateWithProfileAndRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)
	account, profile, role := newTestAccount()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts\.users`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO accounts\.user_profiles`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO accounts\.user_roles`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := repo.CreateWithProfileAndRole(context.Background(), account, profile, role); err != nil {
		t.Fatalf("CreateWithProfileAndRole returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateWithProfileAndRoleDuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)
	account, profile, role := newTestAccount()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts\.users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})
	mock.ExpectRollback()

	err = repo.CreateWithProfileAndRole(context.Background(), account, profile, role)
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateWithProfileAndRoleRollsBackOnRoleFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)
	account, profile, role := newTestAccount()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts\.users`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO accounts\.user_profiles`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO accounts\.user_roles`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := repo.CreateWithProfileAndRole(context.Background(), account, profile, role); err == nil {
		t.Fatal("expected role insert failure to surface")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)
	now := time.Now().UTC()
	phone := "+14165550100"

	rows := pgxmock.NewRows(accountColumns).AddRow(
		"acc-1", "a@b.com", "$2a$10$hash", false, nil, nil,
		"A", "B", phone, true, false, 0, nil,
		"individual", now, now, nil, nil,
	)

	mock.ExpectQuery(`SELECT .+ FROM accounts\.users`).
		WithArgs("a@b.com").
		WillReturnRows(rows)

	account, err := repo.GetByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if account.ID != "acc-1" {
		t.Fatalf("expected account acc-1, got %s", account.ID)
	}
	if account.Phone == nil || *account.Phone != phone {
		t.Fatal("expected phone to be populated")
	}
	if account.AccountType != domain.AccountTypeIndividual {
		t.Fatalf("unexpected account type %s", account.AccountType)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM accounts\.users`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(accountColumns))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncrementFailedLogins(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectQuery(`UPDATE accounts\.users SET`).
		WillReturnRows(pgxmock.NewRows([]string{"failed_login_attempts"}).AddRow(5))

	count, err := repo.IncrementFailedLogins(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("IncrementFailedLogins returned error: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected count 5, got %d", count)
	}
}

func TestUpdateMissingAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)
	account, _, _ := newTestAccount()
	account.ID = "missing"

	mock.ExpectExec(`UPDATE accounts\.users SET`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Update(context.Background(), account); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
