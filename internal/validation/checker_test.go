package validation

import (
	"errors"
	"strings"
	"testing"

	"streamsite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_CollectsEveryViolation(t *testing.T) {
	t.Parallel()

	err := New().
		Required("name", " ").
		Required("url", "").
		URL("url", "").
		MaxLen("type", strings.Repeat("x", 11), 10).
		HexColor("primaryColor", "purple").
		Err()
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.True(t, errors.Is(err, models.ErrValidation))

	fields := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"name", "url", "type", "primaryColor"}, fields)
}

func TestChecker_URLSkipsFieldThatAlreadyFailed(t *testing.T) {
	t.Parallel()

	c := New().Required("url", "   ").URL("url", "   ")
	assert.Len(t, c.Fields(), 1)
}

func TestChecker_NoViolations(t *testing.T) {
	t.Parallel()

	err := New().
		Required("name", "RENNSZ").
		URL("url", "https://www.twitch.tv/rennsz").
		HexColor("accentTeal", "#2DD4BF").
		HexColor("accentPurple", "#fff").
		HexColor("unset", "").
		Err()
	assert.NoError(t, err)
}

func TestIsHTTPURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsHTTPURL("https://discord.gg/abc"))
	assert.True(t, IsHTTPURL("http://localhost:5173/x"))
	assert.False(t, IsHTTPURL("javascript:alert(1)"))
	assert.False(t, IsHTTPURL("ftp://example.com"))
	assert.False(t, IsHTTPURL("/relative/path"))
	assert.False(t, IsHTTPURL("https://"))
}
