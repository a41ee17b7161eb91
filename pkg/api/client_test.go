package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_GET(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/users/me", r.URL.Path)
		require.Equal(t, "id,username", r.URL.Query().Get("user.fields"))
		require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":"42","username":"nova"}}`))
	}))
	defer server.Close()

	resp, err := NewGenerator(server.URL).
		New("/2/users/%s", "me").
		Query(Parameter{"user.fields": "id,username"}).
		GET(context.Background(), OAuth2("Bearer", "abc"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)

	body, err := resp.JSON()
	require.NoError(t, err)

	id, err := body.GetString("data.id")
	require.NoError(t, err)
	require.Equal(t, "42", id)

	data, err := body.GetJSON("data")
	require.NoError(t, err)
	username, err := data.GetString("username")
	require.NoError(t, err)
	require.Equal(t, "nova", username)
}

func TestClient_POSTJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[{"n":1},{"n":2}]`))
	}))
	defer server.Close()

	resp, err := NewGenerator(server.URL).New("/x").Body(JSON{"a": 1}).POST(context.Background())
	require.NoError(t, err)

	array, ok := resp.Body.(Array)
	require.True(t, ok)
	require.Len(t, array, 2)

	n, err := array[1].GetInt("n")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestClient_AllEndpointsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewGenerator(server.URL).New("/x").GET(context.Background())
	require.ErrorIs(t, err, ErrAllEndpoints)
}

func TestParameter_Encode(t *testing.T) {
	p := Parameter{"b": "x y", "a": "1"}
	require.Equal(t, "a=1&b=x%20y", p.Encode())
}
