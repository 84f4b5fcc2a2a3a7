package browser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionCloseIsIdempotent(t *testing.T) {
	var order []string
	boom := errors.New("browser already gone")
	s := &Session{
		ID:  "s-1",
		log: zap.NewNop(),
		closers: []func() error{
			func() error { order = append(order, "page"); return nil },
			func() error { order = append(order, "context"); return boom },
			func() error { order = append(order, "browser"); return nil },
		},
	}

	err := s.Close()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"page", "context", "browser"}, order)

	// second close is a no-op that reports the same result
	assert.ErrorIs(t, s.Close(), boom)
	assert.Len(t, order, 3)
}

func TestScreenshotPath(t *testing.T) {
	dir := t.TempDir()
	shots := filepath.Join(dir, "shots")

	got, err := screenshotPath(shots, "Invalid_Login_Creds")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(shots, "Invalid_Login_Creds.png"), got)
	assert.DirExists(t, shots)

	got, err = screenshotPath(shots, "../escape.PNG")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(shots, "escape.PNG"), got)

	got, err = screenshotPath("", "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare.png", got)

	_, err = screenshotPath(shots, "  ")
	assert.Error(t, err)
}

func TestNewSession(t *testing.T) {
	closed := 0
	s := NewSession(Firefox, nil, Options{DefaultTimeout: 7e9, ScreenshotDir: "/tmp/shots"}, nil,
		func() error { closed++; return nil })

	assert.Len(t, s.ID, 36)
	assert.Equal(t, Firefox, s.Kind)
	assert.Equal(t, "7s", s.Timeout().String())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, closed)

	other := NewSession(Firefox, nil, Options{}, nil)
	assert.NotEqual(t, s.ID, other.ID)
}
