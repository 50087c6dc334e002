package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-api/pkg/config"
)

func TestEnsureSchemaRunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range schemaStatements {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), sqlx.NewDb(db, "sqlmock")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range schemaStatements {
		assert.Regexp(t, `^CREATE (TABLE|INDEX) IF NOT EXISTS`, stmt)
	}
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS students").WillReturnError(errors.New("boom"))

	err = EnsureSchema(context.Background(), sqlx.NewDb(db, "sqlmock"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure schema")
}

func TestConstraintClassification(t *testing.T) {
	unique := fmt.Errorf("create student: %w", &pq.Error{Code: "23505", Constraint: "students_roll_no_key"})
	fk := fmt.Errorf("create attendance: %w", &pq.Error{Code: "23503"})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.Equal(t, "students_roll_no_key", ConstraintName(unique))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.Empty(t, ConstraintName(errors.New("plain")))
}

func TestDataSourceNameQuotesValues(t *testing.T) {
	dsn := dataSourceName(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "attendance",
		Password: `it's a \secret`,
		Name:     "attendance",
		SSLMode:  "disable",
	})

	assert.Equal(t, `host='db.internal' port=5432 user='attendance' password='it\'s a \\secret' dbname='attendance' sslmode='disable'`, dsn)
}

func TestNewPostgresWrapsPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := NewPostgres(ctx, config.DatabaseConfig{Host: "127.0.0.1", Port: 1, User: "u", Name: "attendance", SSLMode: "disable"})
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "ping postgres 127.0.0.1:1/attendance")
}
