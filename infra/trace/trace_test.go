package trace

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLogIsNoop(t *testing.T) {
	var l *Log
	l.Add("scan", "min", 1.0)
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Stages())
	l.Emit(logrus.New())
}

func TestAddPairsFields(t *testing.T) {
	l := New()
	l.Add("scan", "min", 1.0, "max", 2.0)
	l.Add("odd", "key", 1, "dangling")

	require.Equal(t, 2, l.Len())
	assert.Equal(t, []string{"scan", "odd"}, l.Stages())
	assert.Equal(t, 1.0, l.Events[0].Fields["min"])
	assert.Equal(t, "dangling", l.Events[1].Fields["extra"])
}

func TestEmit(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	l := New()
	l.Add("bin", "n_bins", 3)
	l.Emit(logger)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, "bin", entry.Message)
	assert.Equal(t, 3, entry.Data["n_bins"])
}
