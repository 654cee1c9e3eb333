package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/dhchicaiza/registros/internal/database"
	"github.com/dhchicaiza/registros/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeRow struct{ err error }

func (r fakeRow) Scan(...any) error { return r.err }

type fakeConn struct {
	tag      pgconn.CommandTag
	err      error
	deadline bool
	released *int
}

func (c *fakeConn) Exec(ctx context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	_, c.deadline = ctx.Deadline()
	return c.tag, c.err
}

func (c *fakeConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, c.err
}

func (c *fakeConn) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{err: c.err}
}

func (c *fakeConn) Ping(context.Context) error { return c.err }

func (c *fakeConn) Release(context.Context) { *c.released++ }

type fakeProvider struct {
	conn       *fakeConn
	acquireErr error
	acquired   int
	released   int
}

func (p *fakeProvider) Acquire(context.Context) (database.Conn, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	p.conn.released = &p.released
	return p.conn, nil
}

func (p *fakeProvider) Ping(context.Context) error { return nil }
func (p *fakeProvider) Close() error               { return nil }

func TestRegistroRepository_UpdateZeroRowsReleases(t *testing.T) {
	p := &fakeProvider{conn: &fakeConn{tag: pgconn.NewCommandTag("UPDATE 0")}}
	repo := NewRegistroRepository(p, time.Second)

	affected, err := repo.Update(context.Background(), 404, "Ana", "Hola")
	require.NoError(t, err)
	require.Zero(t, affected)
	require.Equal(t, 1, p.acquired)
	require.Equal(t, 1, p.released)
	require.True(t, p.conn.deadline)
}

func TestRegistroRepository_DeleteRowsAffected(t *testing.T) {
	p := &fakeProvider{conn: &fakeConn{tag: pgconn.NewCommandTag("DELETE 1")}}
	repo := NewRegistroRepository(p, time.Second)

	affected, err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)
	require.Equal(t, 1, p.released)
}

func TestRegistroRepository_GetByIDNotFoundReleases(t *testing.T) {
	p := &fakeProvider{conn: &fakeConn{err: pgx.ErrNoRows}}
	repo := NewRegistroRepository(p, time.Second)

	_, err := repo.GetByID(context.Background(), 9)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.Contains(t, err.Error(), "table:registros:")
	require.Equal(t, 1, p.released)
}

func TestRegistroRepository_ErrorsRelease(t *testing.T) {
	boom := errors.New("boom")
	p := &fakeProvider{conn: &fakeConn{err: boom}}
	repo := NewRegistroRepository(p, time.Second)

	_, err := repo.List(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = repo.Create(context.Background(), "Ana", "Hola")
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, p.acquired)
	require.Equal(t, 2, p.released)
}

func TestRegistroRepository_AcquireFailure(t *testing.T) {
	unavailable := &errs.Error{Kind: errs.KindConnection, Err: errors.New("connection refused")}
	p := &fakeProvider{acquireErr: unavailable}
	repo := NewRegistroRepository(p, time.Second)

	_, err := repo.Delete(context.Background(), 1)
	require.True(t, errs.IsKind(err, errs.KindConnection))
	require.Zero(t, p.released)
}

// testConn releases by closing, like the direct provider.
type testConn struct{ *pgx.Conn }

func (c testConn) Release(ctx context.Context) { _ = c.Conn.Close(ctx) }

type testProvider struct{ dsn string }

func (p testProvider) Acquire(ctx context.Context) (database.Conn, error) {
	conn, err := pgx.Connect(ctx, p.dsn)
	if err != nil {
		return nil, err
	}
	return testConn{conn}, nil
}

func (p testProvider) Ping(ctx context.Context) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release(ctx)
	return conn.Ping(ctx)
}

func (p testProvider) Close() error { return nil }

// integrationRepo connects to REGISTROS_TEST_DATABASE_URL or skips.
func integrationRepo(t *testing.T) *RegistroRepository {
	t.Helper()

	dsn := os.Getenv("REGISTROS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("REGISTROS_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	p := testProvider{dsn: dsn}
	conn, err := p.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release(ctx)

	_, err = conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS registros (
		id SERIAL PRIMARY KEY,
		nombre TEXT NOT NULL,
		mensaje TEXT NOT NULL,
		fecha TIMESTAMP DEFAULT now()
	)`)
	require.NoError(t, err)

	return NewRegistroRepository(p, 10*time.Second)
}

// sessionNow returns the server clock as a timestamp without time zone, the
// same wall clock the fecha default stores.
func sessionNow(t *testing.T, repo *RegistroRepository) time.Time {
	t.Helper()

	var now time.Time
	err := repo.withConn(context.Background(), func(ctx context.Context, q database.Querier) error {
		return q.QueryRow(ctx, `SELECT date_trunc('second', LOCALTIMESTAMP)`).Scan(&now)
	})
	require.NoError(t, err)
	return now
}

func TestRegistroRepository_Lifecycle(t *testing.T) {
	repo := integrationRepo(t)
	ctx := context.Background()

	before := sessionNow(t, repo)

	first, err := repo.Create(ctx, "Ana", "Hola")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "Luis", "Buenas")
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)
	require.False(t, first.Fecha.Before(before), "fecha %s before call time %s", first.Fecha, before)
	require.False(t, second.Fecha.Before(first.Fecha.Time))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	require.Equal(t, second.ID, list[0].ID)
	for i := 1; i < len(list); i++ {
		require.Greater(t, list[i-1].ID, list[i].ID)
	}

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", got.Nombre)
	require.Equal(t, "Hola", got.Mensaje)
	require.Equal(t, first.Fecha.String(), got.Fecha.String())

	affected, err := repo.Update(ctx, first.ID, "Ana", "Adios")
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	got, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Adios", got.Mensaje)
	require.Equal(t, first.Fecha.String(), got.Fecha.String())

	for _, id := range []int64{first.ID, second.ID} {
		affected, err = repo.Delete(ctx, id)
		require.NoError(t, err)
		require.Equal(t, int64(1), affected)
	}

	_, err = repo.GetByID(ctx, first.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	affected, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	require.Zero(t, affected)

	affected, err = repo.Update(ctx, first.ID, "X", "Y")
	require.NoError(t, err)
	require.Zero(t, affected)
}
