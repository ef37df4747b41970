package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type queryRecorder struct {
	labels []string
}

func (q *queryRecorder) ObserveDBQuery(label string, _ time.Duration) {
	q.labels = append(q.labels, label)
}

func newKVRepoMock(t *testing.T) (*KVRepository, sqlmock.Sqlmock, *queryRecorder, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	recorder := &queryRecorder{}
	repo := NewKVRepository(sqlx.NewDb(db, "postgres"), recorder)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	return repo, mock, recorder, func() { db.Close() }
}

func TestKVRepositoryGet(t *testing.T) {
	repo, mock, recorder, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1 AND (expires_at = 0 OR expires_at > $2)")).
		WithArgs("session:abc:trainer_id", int64(1740830400000)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`"7"`))

	var value string
	require.NoError(t, repo.Get(context.Background(), "session:abc:trainer_id", &value))
	assert.Equal(t, "7", value)
	assert.Equal(t, []string{"kv_get"}, recorder.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositoryGetMiss(t *testing.T) {
	repo, mock, _, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT value FROM kv_entries").
		WillReturnError(sql.ErrNoRows)

	var value string
	err := repo.Get(context.Background(), "missing", &value)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositorySetUpserts(t *testing.T) {
	repo, mock, _, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries (key, value, expires_at) VALUES ($1, $2, $3)")).
		WithArgs("session:abc:token", `"backend-token"`, int64(1740830400000+int64(time.Hour/time.Millisecond))).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO kv_entries").
		WithArgs("forever", `{"a":1}`, int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), "session:abc:token", "backend-token", time.Hour))
	require.NoError(t, repo.Set(context.Background(), "forever", map[string]int{"a": 1}, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositoryDelete(t *testing.T) {
	repo, mock, _, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key IN ($1, $2)")).
		WithArgs("a", "b").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Delete(context.Background(), "a", "b"))
	require.NoError(t, repo.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositoryDeleteByPattern(t *testing.T) {
	repo, mock, _, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key LIKE $1")).
		WithArgs(`reports:trainer:7:%`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteByPattern(context.Background(), "reports:trainer:7:*"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositoryPurgeExpired(t *testing.T) {
	repo, mock, _, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE expires_at > 0 AND expires_at <= $1")).
		WithArgs(int64(1740830400000)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobToLike(t *testing.T) {
	assert.Equal(t, `session:abc:%`, globToLike("session:abc:*"))
	assert.Equal(t, `session:a\_b:trainer\_id`, globToLike("session:a_b:trainer_id"))
	assert.Equal(t, `100\%`, globToLike("100%"))
}
