package dbmetrics

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/m1shk4/PTS-BookingService/pkg/metrics"
)

func TestIsolationLabel(t *testing.T) {
	assert.Equal(t, "default", isolationLabel(nil))
	assert.Equal(t, "default", isolationLabel(&sql.TxOptions{}))
	assert.Equal(t, "serializable", isolationLabel(&sql.TxOptions{Isolation: sql.LevelSerializable}))
}

func TestObserveTx_CountsOutcomes(t *testing.T) {
	m := metrics.New("dbmetrics-test")
	d := Wrap(nil, m)

	d.observeTx("serializable", "commit", nil)
	d.observeTx("serializable", "commit", nil)
	d.observeTx("serializable", "rollback", nil)
	d.observeTx("default", "commit", errors.New("broken pipe"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TxTotal.WithLabelValues("serializable", "commit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxTotal.WithLabelValues("serializable", "rollback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxTotal.WithLabelValues("default", "commit_error")))
}
