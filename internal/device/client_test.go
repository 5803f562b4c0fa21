package device

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ReadBinarySensor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/binary_sensor/Blinking", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"binary_sensor-blinking","state":"ON","value":true}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	armed, err := c.ReadBinarySensor(context.Background(), SensorBlinking)
	require.NoError(t, err)
	assert.True(t, armed)
}

func TestClient_ReadNumericSensor_EscapesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sensor/Boot%20Count", r.URL.EscapedPath())
		w.Write([]byte(`{"value":42}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", time.Second)
	n, err := c.ReadNumericSensor(context.Background(), SensorBootCount)
	require.NoError(t, err)
	assert.Equal(t, 42.0, n)
}

func TestClient_SetText(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotLen   int64
		gotCL    string
		gotTE    []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		gotLen = r.ContentLength
		gotCL = r.Header.Get("Content-Length")
		gotTE = r.TransferEncoding
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	require.NoError(t, c.SetText(context.Background(), "boo & hello"))

	assert.Equal(t, "/text/Scroll%20Text/set", gotPath)
	assert.Equal(t, "value=boo%20%26%20hello", gotQuery)
	assert.Equal(t, int64(0), gotLen)
	assert.Equal(t, "0", gotCL)
	assert.Empty(t, gotTE)
}

func TestClient_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		timeout    time.Duration
		wantKind   error
		wantStatus int
	}{
		{
			name: "non-success status is rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			timeout:    time.Second,
			wantKind:   ErrRejected,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed body is rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			timeout:    time.Second,
			wantKind:   ErrRejected,
			wantStatus: http.StatusOK,
		},
		{
			name: "missing value is rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"state":"ON"}`))
			},
			timeout:    time.Second,
			wantKind:   ErrRejected,
			wantStatus: http.StatusOK,
		},
		{
			name: "empty object is rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
			timeout:    time.Second,
			wantKind:   ErrRejected,
			wantStatus: http.StatusOK,
		},
		{
			name: "mistyped value is rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"value":"on"}`))
			},
			timeout:    time.Second,
			wantKind:   ErrRejected,
			wantStatus: http.StatusOK,
		},
		{
			name: "slow device times out as unreachable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(500 * time.Millisecond):
				case <-r.Context().Done():
				}
				w.Write([]byte(`{"value":true}`))
			},
			timeout:  50 * time.Millisecond,
			wantKind: ErrUnreachable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := NewClient(server.URL, tc.timeout)
			_, err := c.ReadBinarySensor(context.Background(), SensorBlinking)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantKind)
			assert.Equal(t, tc.wantStatus, StatusOf(err))
		})
	}
}

func TestClient_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	host := server.URL
	server.Close()

	c := NewClient(host, 200*time.Millisecond)
	err := c.SetText(context.Background(), "hi")

	assert.ErrorIs(t, err, ErrUnreachable)
	assert.False(t, errors.Is(err, ErrRejected))
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "set text", de.Op)
}
