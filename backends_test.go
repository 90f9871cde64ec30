package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	t.Run("retains lines oldest first", func(t *testing.T) {
		m := NewMemoryBackend("mem", 0)
		require.NoError(t, m.Write([]byte("one\n")))
		require.NoError(t, m.Write([]byte("two\n")))
		assert.Equal(t, []string{"one\n", "two\n"}, m.Lines())
		assert.Equal(t, "one\ntwo\n", m.Contents())
	})

	t.Run("evicts oldest beyond capacity", func(t *testing.T) {
		m := NewMemoryBackend("mem", 3)
		for i := 0; i < 5; i++ {
			require.NoError(t, m.Write([]byte(fmt.Sprintf("l%d\n", i))))
		}
		assert.Equal(t, []string{"l2\n", "l3\n", "l4\n"}, m.Lines())
	})

	t.Run("reset discards everything", func(t *testing.T) {
		m := NewMemoryBackend("mem", 0)
		require.NoError(t, m.Write([]byte("x\n")))
		m.Reset()
		assert.Zero(t, m.Len())
	})
}

func TestConsoleBackend(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleBackend("console", &buf)
	require.NoError(t, c.Write([]byte("to console\n")))
	assert.Equal(t, "to console\n", buf.String())

	t.Run("nil writer falls back to stderr", func(t *testing.T) {
		assert.NotPanics(t, func() { NewConsoleBackend("console", nil) })
	})
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	f := NewFileBackend("file", path, FileBackendOptions{MaxSizeMB: 1})
	defer f.Close()

	require.NoError(t, f.Write([]byte("persisted line\n")))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "persisted line\n", string(data))
}

func TestZerologBackend(t *testing.T) {
	t.Run("forwards at mapped level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		z := NewZerologBackend("zl", &logger)

		require.NoError(t, z.WriteLevel(ErrorLevel, []byte("bus fault\n")))
		out := buf.String()
		assert.Contains(t, out, `"level":"error"`)
		assert.Contains(t, out, "bus fault")
		assert.NotContains(t, out, "bus fault\\n", "trailing newline must be stripped")
	})

	t.Run("plain write uses the raw level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		z := NewZerologBackend("zl", &logger)

		require.NoError(t, z.Write([]byte("raw\n")))
		assert.Contains(t, buf.String(), `"level":"info"`)
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		z := NewZerologBackend("zl", nil)
		assert.NoError(t, z.Write([]byte("dropped\n")))
	})
}

func TestZerologLevelMapping(t *testing.T) {
	tests := []struct {
		in       Severity
		expected zerolog.Level
	}{
		{TraceLevel, zerolog.TraceLevel},
		{DebugLevel, zerolog.DebugLevel},
		{InfoLevel, zerolog.InfoLevel},
		{WarnLevel, zerolog.WarnLevel},
		{ErrorLevel, zerolog.ErrorLevel},
		{FatalLevel, zerolog.FatalLevel},
		{Disabled, zerolog.Disabled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, zerologLevel(tt.in), tt.in.String())
	}
}
