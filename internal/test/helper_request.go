package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/api/httperrors"
)

type validatable interface {
	Validate(formats strfmt.Registry) error
}

// PerformRequest serves a single request against s. body is sent as JSON
// unless nil.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body interface{}, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "failed to encode request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, values := range headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if body != nil && req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseAndValidate decodes the JSON body into v and validates it.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v validatable) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(v), "failed to decode response body")
	require.NoError(t, v.Validate(strfmt.Default), "response failed validation")
}

// RequireHTTPError checks status, type and title of an error response.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, want *httperrors.HTTPError) map[string]interface{} {
	t.Helper()

	require.Equal(t, int(*want.Code), res.Result().StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body), "failed to decode error body")

	require.Equal(t, string(*want.Type), body["type"])
	require.Equal(t, *want.Title, body["title"])
	require.EqualValues(t, *want.Code, body["status"])

	return body
}
