package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execResult struct {
	tag pgconn.CommandTag
	err error
}

// fakeTx scripts the command tags the review statements report and
// records whether the transaction ended in a commit or a rollback.
type fakeTx struct {
	results    []execResult
	execs      []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, sql)
	if len(t.results) == 0 {
		panic("unexpected exec: " + sql)
	}
	result := t.results[0]
	t.results = t.results[1:]
	return result.tag, result.err
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return d.tx, nil }
func (d *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (d *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (d *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func updated(rows string) execResult {
	return execResult{tag: pgconn.NewCommandTag("UPDATE " + rows)}
}

func TestApproveCommitsBothWrites(t *testing.T) {
	tx := &fakeTx{results: []execResult{updated("1"), updated("1")}}
	repo := NewReviewRepository(&fakeDB{tx: tx})

	require.NoError(t, repo.Approve(context.Background(), "u1", "trader1"))

	require.Len(t, tx.execs, 2)
	assert.Contains(t, tx.execs[0], "UPDATE users")
	assert.Contains(t, tx.execs[1], "UPDATE applications")
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestApproveUnknownUserRollsBack(t *testing.T) {
	tx := &fakeTx{results: []execResult{updated("0")}}
	repo := NewReviewRepository(&fakeDB{tx: tx})

	err := repo.Approve(context.Background(), "ghost", "trader1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The application update never ran.
	require.Len(t, tx.execs, 1)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestApproveWithoutPendingApplicationRollsBackUserUpdate(t *testing.T) {
	// The user row updates, then the application statement matches
	// nothing. The already-applied user write must not survive.
	tx := &fakeTx{results: []execResult{updated("1"), updated("0")}}
	repo := NewReviewRepository(&fakeDB{tx: tx})

	err := repo.Approve(context.Background(), "u1", "trader1")
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	require.Len(t, tx.execs, 2)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestRejectUnknownUserRollsBack(t *testing.T) {
	tx := &fakeTx{results: []execResult{updated("0")}}
	repo := NewReviewRepository(&fakeDB{tx: tx})

	err := repo.Reject(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestRejectCommitsEvenWhenApplicationAlreadyRejected(t *testing.T) {
	tx := &fakeTx{results: []execResult{updated("1"), updated("0")}}
	repo := NewReviewRepository(&fakeDB{tx: tx})

	require.NoError(t, repo.Reject(context.Background(), "u1"))
	assert.True(t, tx.committed)
}
