package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs    []*fakeTx
	begins int
	err    error
}

func (b *fakeBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.err != nil {
		return nil, b.err
	}
	tx := &fakeTx{}
	if b.begins < len(b.txs) {
		tx = b.txs[b.begins]
	}
	b.begins++
	return tx, nil
}

func conflictErr() *pq.Error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializable_RetriesConflictWrappedByRepository(t *testing.T) {
	db := &fakeBeginner{}
	manager := NewTransactionManager(db)

	errExecQuery := errors.New("storage: failed to execute query")
	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("%w: FindCovering - execute select: %w", errExecQuery, conflictErr())
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, db.begins)
}

func TestDoSerializable_SeesConflictThroughTwoWrapLayers(t *testing.T) {
	db := &fakeBeginner{}
	manager := NewTransactionManager(db)

	errExecQuery := errors.New("storage: failed to execute query")
	errInternal := errors.New("usecase: internal error")
	wrap := func() error {
		repoErr := fmt.Errorf("%w: ClaimSlot - execute update: %w", errExecQuery, conflictErr())
		return fmt.Errorf("%w: failed to claim slot: %w", errInternal, repoErr)
	}

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return wrap()
	})

	require.ErrorIs(t, err, ErrSerializationConflict)
	assert.Equal(t, 2, db.begins)
}

func TestDoSerializable_DoesNotRetryOtherErrors(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeBeginner{txs: []*fakeTx{tx}}
	manager := NewTransactionManager(db)

	errBoom := errors.New("boom")
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, db.begins)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestDoSerializable_RetriesCommitTimeConflict(t *testing.T) {
	first := &fakeTx{commitErr: conflictErr()}
	second := &fakeTx{}
	db := &fakeBeginner{txs: []*fakeTx{first, second}}
	manager := NewTransactionManager(db)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, db.begins)
	assert.True(t, second.committed)
}

func TestDo_WrapsBeginError(t *testing.T) {
	db := &fakeBeginner{err: errors.New("connection refused")}
	manager := NewTransactionManager(db)

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.ErrorIs(t, err, ErrBeginTx)
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeBeginner{txs: []*fakeTx{tx}}
	manager := NewTransactionManager(db)

	called := false
	err := manager.Do(context.Background(), func(ctx context.Context) error {
		called = true
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, tx.committed)
}
