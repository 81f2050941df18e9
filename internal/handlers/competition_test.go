package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseCompetitionFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/competitions?category=cat-1&search=hack&sort=trending&startDate=2026-03-01T00:00:00Z&endDate=2026-03-05T00:00:00Z", nil)

	filter := parseCompetitionFilter(req)
	require.Equal(t, "cat-1", filter.CategoryID)
	require.Equal(t, "hack", filter.Search)
	require.Equal(t, "trending", filter.Sort)
	require.NotNil(t, filter.StartDate)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), filter.StartDate.UTC())
	require.NotNil(t, filter.EndDate)
}

func TestParseCompetitionFilterIgnoresBadDates(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/competitions?startDate=yesterday", nil)

	filter := parseCompetitionFilter(req)
	require.Nil(t, filter.StartDate)
	require.Nil(t, filter.EndDate)
}

func TestCompetitionRequestValidate(t *testing.T) {
	now := time.Now()
	req := competitionRequest{
		Title:      "Hackathon",
		CategoryID: "3f1c0a9e-08d4-4c2b-b5d7-2a6e9c8f1b0d",
		Venue:      "Main hall",
		StartDate:  now,
		EndDate:    now.Add(2 * time.Hour),
		DayNumber:  1,
	}

	rec := httptest.NewRecorder()
	require.True(t, req.validate(rec))

	missing := req
	missing.Venue = ""
	rec = httptest.NewRecorder()
	require.False(t, missing.validate(rec))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	noDates := req
	noDates.StartDate = time.Time{}
	rec = httptest.NewRecorder()
	require.False(t, noDates.validate(rec))
}
