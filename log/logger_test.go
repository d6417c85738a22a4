package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubLogger(t *testing.T) {
	t.Parallel()
	assert.Nil(t, NewSubLogger(""), "empty name should not register")
	sl := NewSubLogger("testsublogger")
	require.NotNil(t, sl)
	assert.Equal(t, sl, NewSubLogger("TESTSUBLOGGER"), "registration should be case insensitive and stable")
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	sl := NewSubLogger("testlevels")
	var buf bytes.Buffer
	sl.SetOutput(&buf)
	sl.SetLevels(splitLevel("INFO|ERROR"))

	Debugf(sl, "hidden %d", 1)
	assert.Empty(t, buf.String(), "debug should be filtered out")

	Infof(sl, "visible %d", 2)
	assert.Contains(t, buf.String(), "visible 2")
	assert.Contains(t, buf.String(), "[INFO]")
	assert.Contains(t, buf.String(), "TESTLEVELS")

	buf.Reset()
	Errorln(sl, "boom")
	assert.Contains(t, buf.String(), "boom")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestSetupGlobalLogger(t *testing.T) {
	require.Error(t, SetupGlobalLogger(nil))

	cfg := GenDefaultSettings()
	cfg.SubLoggers = []SubLoggerConfig{{Name: "LOG", Level: "DEBUG|INFO|WARN|ERROR", Output: "stderr"}}
	require.NoError(t, SetupGlobalLogger(cfg))
	assert.True(t, Global.GetLevels().Debug)

	cfg.SubLoggers[0].Name = "missing"
	require.ErrorIs(t, SetupGlobalLogger(cfg), errSubloggerNotFound)

	cfg.SubLoggers[0].Name = "LOG"
	cfg.SubLoggers[0].Output = "carrier pigeon"
	require.ErrorIs(t, SetupGlobalLogger(cfg), errUnhandledOutputWriter)
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()
	mw := &multiWriter{}
	require.ErrorIs(t, mw.Add(nil), errWriterIsNil)

	var a, b bytes.Buffer
	require.NoError(t, mw.Add(&a))
	require.NoError(t, mw.Add(&b))
	require.ErrorIs(t, mw.Add(&a), errWriterAlreadyLoaded)

	n, err := mw.Write([]byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "payload", a.String())
	assert.Equal(t, "payload", b.String())
}
