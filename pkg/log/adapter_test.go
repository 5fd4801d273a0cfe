package log

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturingEntry() (*logrus.Entry, *test.Hook) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	hook := test.NewLocal(logger)
	return logrus.NewEntry(logger).WithField("component", "badgerdb"), hook
}

func TestNewBadgerLogrusAdapter(t *testing.T) {
	entry, _ := newCapturingEntry()
	assert.NotNil(t, NewBadgerLogrusAdapter(entry))
}

func TestBadgerLogrusAdapter_Levels(t *testing.T) {
	tests := []struct {
		name  string
		call  func(a *BadgerLogrusAdapter)
		level logrus.Level
		msg   string
	}{
		{"error", func(a *BadgerLogrusAdapter) { a.Errorf("error %s", "test") }, logrus.ErrorLevel, "error test"},
		{"warning", func(a *BadgerLogrusAdapter) { a.Warningf("warning %d", 42) }, logrus.WarnLevel, "warning 42"},
		{"info demoted", func(a *BadgerLogrusAdapter) { a.Infof("flushed %v", true) }, logrus.DebugLevel, "flushed true"},
		{"debug", func(a *BadgerLogrusAdapter) { a.Debugf("debug") }, logrus.DebugLevel, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, hook := newCapturingEntry()
			tt.call(NewBadgerLogrusAdapter(entry))

			last := hook.LastEntry()
			require.NotNil(t, last)
			assert.Equal(t, tt.level, last.Level)
			assert.Equal(t, tt.msg, last.Message)
			assert.Equal(t, "badgerdb", last.Data["component"])
		})
	}
}
