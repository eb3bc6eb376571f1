package balance_test

import (
	"context"
	"regexp"
	"testing"

	"go-leaves/internal/balance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupBalanceRepoTest(t *testing.T) (balance.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return balance.NewRepository(gdb), mock
}

func TestBalanceRepository_AddUsage(t *testing.T) {
	repo, mock := setupBalanceRepoTest(t)
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	mock.ExpectExec(regexp.QuoteMeta("SET used = used + $1, remaining = allocated - (used + $2)")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), employeeID, leaveTypeID, 2026).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.AddUsage(context.Background(), employeeID, leaveTypeID, 2026, decimal.NewFromInt(3))

	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepository_InitIfMissing(t *testing.T) {
	repo, mock := setupBalanceRepoTest(t)

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT ("employee_id","leave_type_id","year") DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.InitIfMissing(context.Background(), &balance.Balance{
		ID:          uuid.New(),
		EmployeeID:  uuid.New(),
		LeaveTypeID: uuid.New(),
		Year:        2026,
		Allocated:   decimal.NewFromInt(21),
		Remaining:   decimal.NewFromInt(21),
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
