package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"planning_backend/internal/feature/employees/domain/entity"
	planentity "planning_backend/internal/feature/planning/domain/entity"
	projectentity "planning_backend/internal/feature/projects/domain/entity"
	"planning_backend/internal/platform/db"
	"planning_backend/internal/shared/audit"
)

var fixedNow = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig())
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&entity.Employee{}, &projectentity.Project{}, &planentity.ProjectPlanning{}))
	return conn
}

func newEmployee(first string) *entity.Employee {
	return &entity.Employee{Title: "Engineer", FirstName: first, LastName: "Doe", Email: first + "@example.com"}
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewEmployeeRepository(conn, db.WithClock(func() time.Time { return fixedNow }))
	ctx := audit.WithActor(context.Background(), "alice")

	e := newEmployee("jane")
	require.NoError(t, repo.Add(ctx, e))
	require.NotZero(t, e.ID)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", got.FirstName)
	assert.Equal(t, "alice", got.CreatedBy)
	assert.True(t, got.DateCreated.Equal(fixedNow))

	got.Title = "Lead"
	require.NoError(t, repo.Update(audit.WithActor(ctx, "bob"), got))

	updated, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lead", updated.Title)
	assert.Equal(t, "alice", updated.CreatedBy)
	require.NotNil(t, updated.ModifiedBy)
	assert.Equal(t, "bob", *updated.ModifiedBy)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, e.ID))
	_, err = repo.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestEmployeeRepository_DeleteCascadesToPlans(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewEmployeeRepository(conn)
	ctx := context.Background()

	e := newEmployee("jane")
	other := newEmployee("john")
	require.NoError(t, repo.Add(ctx, e))
	require.NoError(t, repo.Add(ctx, other))

	p := &projectentity.Project{ProjectName: "Apollo", StartDate: fixedNow, EndDate: fixedNow.AddDate(1, 0, 0)}
	require.NoError(t, db.NewRepository[projectentity.Project](conn).Add(ctx, p))

	plans := db.NewRepository[planentity.ProjectPlanning](conn)
	for _, empID := range []uint{e.ID, e.ID, other.ID} {
		require.NoError(t, plans.Add(ctx, &planentity.ProjectPlanning{
			EmployeeID: empID, ProjectID: p.ID, Year: 2024, Q1: decimal.NewFromFloat(0.5),
		}))
	}

	require.NoError(t, repo.Delete(ctx, e.ID))

	live, err := plans.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, other.ID, live[0].EmployeeID)

	var deleted int64
	require.NoError(t, conn.Model(&planentity.ProjectPlanning{}).Where("deleted = ?", true).Count(&deleted).Error)
	assert.Equal(t, int64(2), deleted)
}

func TestEmployeeRepository_NotFound(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewEmployeeRepository(conn)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, db.ErrNotFound)

	missing := newEmployee("ghost")
	missing.ID = 99
	assert.ErrorIs(t, repo.Update(ctx, missing), db.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 99), db.ErrNotFound)
}

func TestNewEmployeeRepository_LeavesCallerOptionsIntact(t *testing.T) {
	conn := setupTestDB(t)
	opts := make([]db.Option, 1, 4)
	opts[0] = db.WithClock(func() time.Time { return fixedNow })

	NewEmployeeRepository(conn, opts...)

	assert.Len(t, opts, 1)
	for i, o := range opts[1:cap(opts)] {
		assert.Nil(t, o, "backing slot %d was written", i+1)
	}
}
