package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taakra-backend/internal/repository"
	"taakra-backend/internal/services"

	"github.com/stretchr/testify/require"
)

func TestRespondList(t *testing.T) {
	rec := httptest.NewRecorder()
	respondList(rec, 2, []string{"a", "b"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"success":true,"count":2,"data":["a","b"]}`, rec.Body.String())
}

func TestRespondData(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, http.StatusCreated, map[string]string{"id": "x"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"success":true,"data":{"id":"x"}}`, rec.Body.String())
}

func TestRespondServiceError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrCompetitionNotFound, http.StatusNotFound},
		{repository.ErrRegistrationNotFound, http.StatusNotFound},
		{repository.ErrAlreadyRegistered, http.StatusBadRequest},
		{repository.ErrAlreadyApproved, http.StatusBadRequest},
		{repository.ErrEmailTaken, http.StatusBadRequest},
		{repository.ErrCategoryInUse, http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrInvalidToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		respondServiceError(rec, tc.err)
		require.Equal(t, tc.code, rec.Code, "error %v", tc.err)

		if tc.code == http.StatusInternalServerError {
			require.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rec.Body.String())
		}
	}
}
