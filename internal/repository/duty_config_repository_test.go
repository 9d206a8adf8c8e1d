package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sma-duty-roster/api/internal/models"
)

func newDutyConfigRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDutyConfigRepositoryGet(t *testing.T) {
	db, mock, cleanup := newDutyConfigRepoMock(t)
	defer cleanup()
	repo := NewDutyConfigRepository(db)

	rows := sqlmock.NewRows([]string{"id", "key", "value_json", "created_at", "updated_at"}).
		AddRow("cfg-1", "zones", `[]`, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, key, value_json, created_at, updated_at FROM duty_configs WHERE key = $1")).
		WithArgs("zones").
		WillReturnRows(rows)

	cfg, err := repo.Get(context.Background(), "zones")
	require.NoError(t, err)
	assert.Equal(t, "zones", cfg.Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDutyConfigRepositoryListByKeys(t *testing.T) {
	db, mock, cleanup := newDutyConfigRepoMock(t)
	defer cleanup()
	repo := NewDutyConfigRepository(db)

	rows := sqlmock.NewRows([]string{"id", "key", "value_json", "created_at", "updated_at"}).
		AddRow("cfg-1", "zones", `[]`, time.Now(), time.Now()).
		AddRow("cfg-2", "breaks", `[]`, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, key, value_json, created_at, updated_at\nFROM duty_configs WHERE key IN ($1,$2) ORDER BY key ASC")).
		WithArgs("zones", "breaks").
		WillReturnRows(rows)

	cfgs, err := repo.ListByKeys(context.Background(), []string{"zones", "breaks"})
	require.NoError(t, err)
	assert.Len(t, cfgs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDutyConfigRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newDutyConfigRepoMock(t)
	defer cleanup()
	repo := NewDutyConfigRepository(db)

	mock.ExpectExec("INSERT INTO duty_configs").
		WithArgs(sqlmock.AnyArg(), "zones", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &models.DutyConfig{Key: "zones", Value: []byte(`[]`)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
