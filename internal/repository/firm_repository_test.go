package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lawpractice-service/internal/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestFirmGetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFirmRepository(db)

	firmID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "subdomain", "status", "plan"}).
		AddRow(firmID, "Acme Law", "acme-law", "active", "Free")
	mock.ExpectQuery(`SELECT (.+) FROM "firms" WHERE id = \$1`).
		WithArgs(firmID, 1).
		WillReturnRows(rows)

	firm, err := repo.GetByID(context.Background(), firmID)

	assert.NoError(t, err)
	assert.Equal(t, "acme-law", firm.Subdomain)
	assert.Equal(t, models.FirmStatusActive, firm.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirmGetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFirmRepository(db)

	firmID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "firms" WHERE id = \$1`).
		WithArgs(firmID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), firmID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithAdminCommitsBothRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFirmRepository(db)

	firmID := uuid.New()
	adminID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "firms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(firmID))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "admin_firms"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "admin_firms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	firm := &models.Firm{Name: "Acme Law", Subdomain: "acme-law", Status: models.FirmStatusActive}
	err := repo.CreateWithAdmin(context.Background(), firm, adminID)

	assert.NoError(t, err)
	assert.Equal(t, firmID, firm.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithAdminRollsBackOnBindingFailure(t *testing.T) {
	// The firm insert and the admin binding are atomic: when the binding
	// insert fails, no firm row survives.
	db, mock := setupMockDB(t)
	repo := NewFirmRepository(db)

	bindingErr := errors.New("insert failed")

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "firms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "admin_firms"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "admin_firms"`).
		WillReturnError(bindingErr)
	mock.ExpectRollback()

	firm := &models.Firm{Name: "Acme Law", Subdomain: "acme-law", Status: models.FirmStatusActive}
	err := repo.CreateWithAdmin(context.Background(), firm, uuid.New())

	assert.ErrorIs(t, err, bindingErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirmDeleteMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFirmRepository(db)

	firmID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "firms" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), firmID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCurrentFirmRequiresBinding(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFirmRepository(db)

	userID := uuid.New()
	firmID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "admin_firms" WHERE user_id = \$1 AND firm_id = \$2`).
		WithArgs(userID, firmID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.SetCurrentFirm(context.Background(), userID, firmID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
