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

	"github.com/m1shk4/PTS-BookingService/pkg/dbmetrics"
)

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error   { t.commits++; return nil }
func (t *fakeTx) Rollback() error { t.rollbacks++; return nil }

type fakeBeginner struct {
	tx       *fakeTx
	lastOpts *sql.TxOptions
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.lastOpts = opts
	return b.tx, nil
}

// Конфликт сериализации приходит из репозитория уже обернутым,
// как это делают реальные вызовы
func wrappedSerializationConflict() error {
	errScan := errors.New("repository: failed to scan row")
	return fmt.Errorf("%w: CountOverlapping - scan count: %w", errScan, &pq.Error{Code: "40001"})
}

func TestDoSerializable_RetriesOnSerializationConflict(t *testing.T) {
	tx := &fakeTx{}
	manager := NewTransactionManager(&fakeBeginner{tx: tx})

	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return wrappedSerializationConflict()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, tx.rollbacks)
	assert.Equal(t, 1, tx.commits)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	tx := &fakeTx{}
	manager := NewTransactionManager(&fakeBeginner{tx: tx})

	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return wrappedSerializationConflict()
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, attempts)
	assert.Equal(t, maxSerializableRetries, tx.rollbacks)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
}

func TestDoSerializable_NonRetryableFailsOnce(t *testing.T) {
	tx := &fakeTx{}
	manager := NewTransactionManager(&fakeBeginner{tx: tx})

	errBusiness := errors.New("slot already taken")

	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Equal(t, 0, tx.commits)
}

func TestDoSerializable_UsesSerializableIsolation(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, beginner.lastOpts)
	assert.Equal(t, sql.LevelSerializable, beginner.lastOpts.Isolation)
}
