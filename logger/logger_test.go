package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{in: "debug", want: logrus.DebugLevel},
		{in: "WARN", want: logrus.WarnLevel},
		{in: " error ", want: logrus.ErrorLevel},
		{in: "nonsense", want: logrus.InfoLevel},
		{in: "", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.in, "text").GetLevel())
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	l := New("info", "json")

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.WithField("component", "test").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Contains(t, entry, "timestamp")
}

func TestComponent(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetLogger(orig) })

	l := New("info", "json")
	var buf bytes.Buffer
	l.SetOutput(&buf)
	SetLogger(l)

	Component("poller").Info("tick")

	assert.Contains(t, buf.String(), `"component":"poller"`)
}
