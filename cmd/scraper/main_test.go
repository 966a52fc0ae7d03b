package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushBatch(t *testing.T) {
	var got map[string][]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/services", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success","count":1}`))
	}))
	defer srv.Close()

	items := []any{map[string]any{"service_name": "Zuku Fibre"}}
	require.NoError(t, pushBatch(context.Background(), srv.URL, items))
	assert.Equal(t, "Zuku Fibre", got["services"][0]["service_name"])
}

func TestPushBatch_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"status":"rejected","message":"no valid records"}`))
	}))
	defer srv.Close()

	err := pushBatch(context.Background(), srv.URL, []any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}
