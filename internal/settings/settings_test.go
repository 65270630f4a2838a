package settings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Mooring/internal/auth"
	repo "Mooring/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSettings struct {
	stored map[int]repo.Settings
	err    error
}

func (m *memSettings) GetSettings(_ context.Context, userID int) (repo.Settings, error) {
	if m.err != nil {
		return repo.Settings{}, m.err
	}
	if s, ok := m.stored[userID]; ok {
		return s, nil
	}
	return repo.DefaultSettings(), nil
}

func (m *memSettings) UpdateSettings(_ context.Context, userID int, s repo.Settings) error {
	if m.err != nil {
		return m.err
	}
	m.stored[userID] = s
	return nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func ptr(v float64) *float64 { return &v }

func TestUpdateRequest_Apply(t *testing.T) {
	base := repo.DefaultSettings()

	got, err := UpdateRequest{ForceUnit: "kN", SafetyFactor: ptr(2)}.apply(base)
	require.NoError(t, err)
	assert.Equal(t, "m", got.LengthUnit)
	assert.Equal(t, "kN", got.ForceUnit)
	require.NotNil(t, got.SafetyFactor)
	assert.Equal(t, 2.0, *got.SafetyFactor)

	got, err = UpdateRequest{ResetSafetyFactor: true, SafetyFactor: ptr(3)}.apply(got)
	require.NoError(t, err)
	assert.Nil(t, got.SafetyFactor)

	bad := []UpdateRequest{
		{LengthUnit: "furlong"},
		{ForceUnit: "kgf"},
		{Theme: "neon"},
		{SafetyFactor: ptr(0)},
		{SafetyFactor: ptr(-1)},
	}
	for _, u := range bad {
		_, err := u.apply(base)
		assert.Error(t, err, "%+v", u)
	}
}

func TestHandler_GetAndUpdate(t *testing.T) {
	store := &memSettings{stored: map[int]repo.Settings{}}
	h := &Handler{Repo: store, Log: quiet}
	ctx := auth.WithUser(context.Background(), 5, "mate")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/user/settings",
		strings.NewReader(`{"lengthUnit":"ft","safetyFactor":2.0,"theme":"dark"}`)).WithContext(ctx)
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ft", store.stored[5].LengthUnit)
	assert.Equal(t, "N", store.stored[5].ForceUnit)

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/user/settings", nil).WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool          `json:"success"`
		Data    repo.Settings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "dark", body.Data.Theme)
	require.NotNil(t, body.Data.SafetyFactor)
	assert.Equal(t, 2.0, *body.Data.SafetyFactor)
}

func TestHandler_Errors(t *testing.T) {
	store := &memSettings{stored: map[int]repo.Settings{}}
	h := &Handler{Repo: store, Log: quiet}
	ctx := auth.WithUser(context.Background(), 5, "mate")

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/user/settings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/api/user/settings",
		strings.NewReader(`{"forceUnit":"stone"}`)).WithContext(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.stored)

	store.err = errors.New("db down")
	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/user/settings", nil).WithContext(ctx))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLookup(t *testing.T) {
	store := &memSettings{stored: map[int]repo.Settings{
		5: {LengthUnit: "m", ForceUnit: "kN", SafetyFactor: ptr(2.2), Theme: "light"},
	}}
	ctx := auth.WithUser(context.Background(), 5, "mate")

	s := Lookup(ctx, store, quiet)
	assert.Equal(t, 2.2, RequiredSafetyFactor(s))

	assert.Equal(t, repo.DefaultSettings(), Lookup(context.Background(), store, quiet))
	assert.Equal(t, repo.DefaultSettings(), Lookup(ctx, nil, quiet))

	store.err = errors.New("db down")
	assert.Equal(t, repo.DefaultSettings(), Lookup(ctx, store, quiet))
	assert.Equal(t, 0.0, RequiredSafetyFactor(repo.DefaultSettings()))
}
