package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `form:"name" json:"name"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
	UserID   string `json:"user_id"`
}

type rootKey struct{}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty name")
	}

	if req.Name == "boom" {
		return nil, context.DeadlineExceeded
	}

	return &echoResponse{
		Greeting: ctx.Value(rootKey{}).(string) + " " + req.Name,
		UserID:   xcontext.RequestUserID(ctx),
	}, nil
}

func serve(r *Router, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	result := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	return w, result
}

func TestRouter(t *testing.T) {
	root := context.WithValue(context.Background(), rootKey{}, "hello")
	r := New(root)

	closed := 0
	var closedErr error
	r.AddCloser(func(ctx context.Context) {
		closed++
		closedErr = xcontext.Error(ctx)
	})

	GET(r, "/echo", echo)
	POST(r, "/echo", echo)

	authed := r.Group("/auth")
	authed.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("Authorization") == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Need token")
		}
		return xcontext.WithRequestUserID(ctx, "user-1"), nil
	})
	GET(authed, "/echo", echo)

	t.Run("query binding", func(t *testing.T) {
		w, body := serve(r, http.MethodGet, "/echo?name=nova", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, float64(0), body["code"])
		require.Equal(t, "hello nova", body["data"].(map[string]any)["greeting"])
	})

	t.Run("json binding", func(t *testing.T) {
		w, body := serve(r, http.MethodPost, "/echo", `{"name":"vega"}`)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "hello vega", body["data"].(map[string]any)["greeting"])
	})

	t.Run("invalid json", func(t *testing.T) {
		w, body := serve(r, http.MethodPost, "/echo", `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, float64(errorx.BadRequest), body["code"])
	})

	t.Run("domain error", func(t *testing.T) {
		w, body := serve(r, http.MethodGet, "/echo", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Empty name", body["error"])
		require.Error(t, closedErr)
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		w, body := serve(r, http.MethodGet, "/echo?name=boom", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, errorx.Unknown.Message, body["error"])
	})

	t.Run("before middleware", func(t *testing.T) {
		w, body := serve(r, http.MethodGet, "/auth/echo?name=nova", "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, float64(errorx.Unauthenticated), body["code"])

		req := httptest.NewRequest(http.MethodGet, "/auth/echo?name=nova", nil)
		req.Header.Set("Authorization", "Bearer x")
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"user_id":"user-1"`)
	})

	t.Run("branch does not inherit later middlewares", func(t *testing.T) {
		w, _ := serve(r, http.MethodGet, "/echo?name=nova", "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	require.Equal(t, 8, closed)
}

func TestRouter_AfterClearsResponse(t *testing.T) {
	r := New(context.WithValue(context.Background(), rootKey{}, "hi"))
	r.After(func(ctx context.Context) (context.Context, error) {
		http.Redirect(xcontext.HTTPWriter(ctx), xcontext.HTTPRequest(ctx), "https://example.com", http.StatusFound)
		return xcontext.WithResponse(ctx, nil), nil
	})
	GET(r, "/echo", echo)

	w, _ := serve(r, http.MethodGet, "/echo?name=nova", "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))
}
