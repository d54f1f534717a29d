package migration

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinelQuery = `SELECT to_regclass\('public\.assets'\) IS NOT NULL`

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()
	loc := time.UTC

	t.Run("schema already present skips every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		// No ExecContext expectations: a positive sentinel means nothing runs.

		err = EnsureMigrated(ctx, db, loc, "db-host")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fresh database runs all steps in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for _, step := range steps {
			mock.ExpectExec(regexp.QuoteMeta(step.SQL)).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}

		err = EnsureMigrated(ctx, db, loc, "db-host")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).
			WillReturnError(errors.New("connection refused"))

		err = EnsureMigrated(ctx, db, loc, "db-host")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check sentinel table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("step failure aborts and names the step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(steps[1].SQL)).
			WillReturnError(errors.New("permission denied"))
		// Later steps must not run after a failure.

		err = EnsureMigrated(ctx, db, loc, "db-host")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "migration step "+steps[1].Name+" failed")
		assert.Contains(t, err.Error(), "permission denied")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrationSteps(t *testing.T) {
	// The asset tables the handlers write to must be part of the plan.
	var names []string
	for _, step := range steps {
		names = append(names, step.Name)
	}
	assert.Contains(t, names, "create_table_assets")
	assert.Contains(t, names, "create_table_asset_analysis")
	assert.Contains(t, names, "create_index_assets_user_id")
}
