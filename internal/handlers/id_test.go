package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// Malformed ids must be rejected up front instead of reaching the
// datastore, where the uuid codec would fail with an opaque 500.
func TestMalformedIDRejected(t *testing.T) {
	cases := []struct {
		name  string
		serve func(w http.ResponseWriter, r *http.Request)
		req   *http.Request
	}{
		{
			name:  "competition get",
			serve: NewCompetitionHandler(nil).Get,
			req:   withURLParam(httptest.NewRequest(http.MethodGet, "/api/competitions/abc", nil), "id", "abc"),
		},
		{
			name:  "competition delete",
			serve: NewCompetitionHandler(nil).Delete,
			req:   withURLParam(httptest.NewRequest(http.MethodDelete, "/api/competitions/abc", nil), "id", "abc"),
		},
		{
			name:  "category get",
			serve: NewCategoryHandler(nil).Get,
			req:   withURLParam(httptest.NewRequest(http.MethodGet, "/api/categories/abc", nil), "id", "abc"),
		},
		{
			name:  "registration create",
			serve: NewRegistrationHandler(nil).Create,
			req: httptest.NewRequest(http.MethodPost, "/api/registrations",
				strings.NewReader(`{"competition":"x"}`)),
		},
		{
			name:  "registration approve",
			serve: NewRegistrationHandler(nil).Approve,
			req:   withURLParam(httptest.NewRequest(http.MethodPut, "/api/registrations/abc/approve", nil), "id", "abc"),
		},
		{
			name:  "registration delete",
			serve: NewRegistrationHandler(nil).Delete,
			req:   withURLParam(httptest.NewRequest(http.MethodDelete, "/api/registrations/abc", nil), "id", "abc"),
		},
		{
			name:  "chat history",
			serve: NewChatHandler(nil).History,
			req:   withURLParam(httptest.NewRequest(http.MethodGet, "/api/chat/garbage", nil), "userId", "garbage"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.serve(rec, tc.req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.JSONEq(t, `{"success":false,"error":"Invalid id format"}`, rec.Body.String())
		})
	}
}

func TestWellFormedIDAccepted(t *testing.T) {
	rec := httptest.NewRecorder()
	require.True(t, validateID(rec, "8a7b9c64-1f2e-4d3a-9b8c-7d6e5f4a3b2c"))

	rec = httptest.NewRecorder()
	require.False(t, validateID(rec, "8a7b9c64"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompetitionRequestRejectsBadCategoryID(t *testing.T) {
	req := competitionRequest{
		Title:      "Hackathon",
		CategoryID: "not-a-uuid",
		Venue:      "Main hall",
	}

	rec := httptest.NewRecorder()
	require.False(t, req.validate(rec))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
