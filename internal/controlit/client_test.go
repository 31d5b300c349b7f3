package controlit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/attendance-bot/pkg/dateutil"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "", time.Second, zap.NewNop())
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/authenticate", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "secret", req.Password)

		w.Write([]byte(`{"Success": true, "User": {"AccessToken": "tok-123"}}`))
	})

	token, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLogin_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success": false, "Message": "bad credentials", "ErrorCode": 7}`))
	})

	_, err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "bad credentials", rejected.Message)
	assert.Equal(t, 7, rejected.ErrorCode)
}

func TestRegister_SendsExpectedRequest(t *testing.T) {
	var got RegisterRequest
	var auth string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events/manual-register", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"Success": true}`))
	})

	loc := time.FixedZone("CET", 3600)
	start := time.Date(2024, time.December, 24, 7, 3, 12, 0, loc)
	end := time.Date(2024, time.December, 24, 15, 3, 12, 0, loc)

	err := client.Register(context.Background(), "tok-123", start, end)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", auth)
	assert.Equal(t, DefaultEventTypeID, got.EventTypeID)
	assert.Equal(t, "2024-12-24T07:03:12+01:00", got.StartDate)
	assert.Equal(t, "2024-12-24T15:03:12+01:00", got.EndDate)
}

func TestRegister_TransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := client.Register(context.Background(), "tok", time.Now(), time.Now().Add(8*time.Hour))
	require.Error(t, err)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, http.StatusBadGateway, transport.StatusCode)
}

func TestRegister_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listening anymore

	client := NewClient(url, "", time.Second, zap.NewNop())

	err := client.Register(context.Background(), "tok", time.Now(), time.Now().Add(8*time.Hour))
	require.Error(t, err)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, 0, transport.StatusCode)
	assert.NotNil(t, errors.Unwrap(transport))
}

func TestRegister_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success": false, "Message": "day already registered", "ErrorCode": 12}`))
	})

	err := client.Register(context.Background(), "tok", time.Now(), time.Now().Add(8*time.Hour))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "day already registered", rejected.Message)
}

func TestLatestEventDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/events/latest", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Write([]byte(`{"Success": true, "EventHistory": [
			{"StartDate": "2024-12-20T07:01:44+01:00", "EndDate": "2024-12-20T15:01:44+01:00"},
			{"StartDate": "2024-12-19T07:04:02+01:00", "EndDate": "2024-12-19T15:04:02+01:00"}
		]}`))
	})

	date, err := client.LatestEventDate(context.Background(), "tok")
	require.NoError(t, err)

	// The client reports the local calendar date of the newest event
	newest, err := time.Parse(time.RFC3339, "2024-12-20T07:01:44+01:00")
	require.NoError(t, err)
	want := dateutil.StartOfDay(newest.In(time.Local))

	assert.True(t, date.Equal(want), "date = %v, want %v", date, want)
}

func TestLatestEventDate_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success": true, "EventHistory": []}`))
	})

	_, err := client.LatestEventDate(context.Background(), "tok")
	require.Error(t, err)
}
