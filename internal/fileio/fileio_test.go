package fileio

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcncl/devkit/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "日本"}`), 0644))

	text, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "日本"}`, text)

	_, err = Open(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeIO}))

	binary := filepath.Join(dir, "binary.json")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00}, 0644))
	_, err = Open(binary)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidUTF8))

	_, err = Open("  ")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidFilePath))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, Save(path, "{\n    \"a\": 1\n}"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1\n}", string(data))

	err = Save(filepath.Join(dir, "no", "such", "dir.json"), "x")
	require.Error(t, err)
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeIO, appErr.Type)
	assert.Contains(t, errors.UserFriendlyError(err), "no such file or directory")
}

func TestMatchFilter(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"config.json", "JSON files"},
		{"/tmp/notes.txt", "Text files"},
		{"Makefile", "All files"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, ok := MatchFilter(tt.path, Filters)
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Name)
		})
	}

	_, ok := MatchFilter("data.yaml", Filters[:2])
	assert.False(t, ok)
}

func TestCopy(t *testing.T) {
	original := clipboardWrite
	defer func() { clipboardWrite = original }()

	var got string
	clipboardWrite = func(text string) error {
		got = text
		return nil
	}
	assert.True(t, Copy("1700000000"))
	assert.Equal(t, "1700000000", got)

	clipboardWrite = func(string) error { return stderrors.New("no clipboard utility") }
	assert.False(t, Copy("x"))
}

func TestWatcher_RunsActionOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			calls.Add(1)
			return stderrors.New("failures do not stop the watcher")
		})
	}()

	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0644))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"a": 2}`), 0644))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	// Writes to other files in the directory are ignored.
	time.Sleep(100 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
