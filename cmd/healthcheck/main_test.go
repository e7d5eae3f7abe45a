package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: "127.0.0.1:8080"},
		{name: "bind all v4", raw: "0.0.0.0:9090", want: "127.0.0.1:9090"},
		{name: "bind all v6", raw: "[::]:9090", want: "127.0.0.1:9090"},
		{name: "port only", raw: ":9090", want: "127.0.0.1:9090"},
		{name: "explicit host", raw: "10.0.0.5:8080", want: "10.0.0.5:8080"},
		{name: "malformed", raw: "garbage", want: "127.0.0.1:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAddr(tt.raw))
		})
	}
}

func TestHealthURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:9090/api/v1/health", healthURL("0.0.0.0:9090"))
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "ok", status: http.StatusOK, body: `{"status":"ok","accounts":2}`},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: "unexpected status 500"},
		{name: "degraded", status: http.StatusOK, body: `{"status":"degraded"}`, wantErr: `status "degraded"`},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: "decode health response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, healthPath, r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			err := checkHealth(context.Background(), srv.URL+healthPath)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
