package metrics

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCryptoOperation(t *testing.T) {
	m := New()

	m.RecordCryptoOperation("resolve_resource_key", nil)
	m.RecordCryptoOperation("resolve_resource_key", nil)
	m.RecordCryptoOperation("resolve_resource_key", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cryptoOperations.WithLabelValues("resolve_resource_key", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cryptoOperations.WithLabelValues("resolve_resource_key", OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.cryptoOperations.WithLabelValues("accept_invitation", OutcomeOK)))
}

func TestRecordKeychainFailure(t *testing.T) {
	m := New()

	m.RecordKeychainFailure("key_chain_broken")
	m.RecordKeychainFailure("no_session")
	m.RecordKeychainFailure("key_chain_broken")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.keychainFailures.WithLabelValues("key_chain_broken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.keychainFailures.WithLabelValues("no_session")))
}

func TestObserveDuration(t *testing.T) {
	m := New()
	m.ObserveDuration("view_page", 20*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDuration))
}

func TestWriteText(t *testing.T) {
	m := New()
	m.RecordCryptoOperation("create_page", nil)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE cipherboard_crypto_operations_total counter")
	assert.Contains(t, out, `cipherboard_crypto_operations_total{op="create_page",outcome="ok"} 1`)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "metrics.prom")

	first := New()
	first.RecordCryptoOperation("accept_invitation", nil)
	first.RecordCryptoOperation("accept_invitation", nil)
	first.RecordKeychainFailure("unwrap_failure")
	first.ObserveDuration("accept_invitation", time.Millisecond)
	require.NoError(t, first.SaveFile(path))

	second := New()
	require.NoError(t, second.LoadFile(path))
	second.RecordCryptoOperation("accept_invitation", nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(second.cryptoOperations.WithLabelValues("accept_invitation", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.keychainFailures.WithLabelValues("unwrap_failure")))
}

func TestLoadFile_Missing(t *testing.T) {
	m := New()
	assert.NoError(t, m.LoadFile(filepath.Join(t.TempDir(), "absent.prom")))
}

func TestLoadText_Invalid(t *testing.T) {
	m := New()
	err := m.LoadText(strings.NewReader("cipherboard_crypto_operations_total{op=\"x\" 1\n"))
	assert.Error(t, err)
}
