package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. Returning an error stops the
// chain and the error is rendered instead of the response.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs once the response has been written, whatever the outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	root   context.Context
	engine *gin.Engine
	inner  gin.IRouter

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers *[]CloserFunc
}

// New creates a router whose handlers see every value stored in root (configs,
// logger, database, ...) on top of the per-request context.
func New(root context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Clients are identified by the socket peer until proxies are trusted.
	if err := engine.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	return &Router{
		root:    root,
		engine:  engine,
		inner:   engine,
		closers: &[]CloserFunc{},
	}
}

// Branch returns a router on the same path prefix with its own copy of the
// middleware chain.
func (r *Router) Branch() *Router {
	return r.Group("")
}

// Group returns a branch mounted under pattern.
func (r *Router) Group(pattern string) *Router {
	branch := *r
	if pattern != "" {
		branch.inner = r.inner.Group(pattern)
	}
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	branch.afters = append([]MiddlewareFunc{}, r.afters...)
	return &branch
}

func (r *Router) Before(middlewares ...MiddlewareFunc) {
	r.befores = append(r.befores, middlewares...)
}

func (r *Router) After(middlewares ...MiddlewareFunc) {
	r.afters = append(r.afters, middlewares...)
}

// AddCloser registers a closer for every route of this router and its
// branches.
func (r *Router) AddCloser(closer CloserFunc) {
	*r.closers = append(*r.closers, closer)
}

// Handle mounts a raw http.Handler, used for probes which do not go through
// the middleware chain.
func (r *Router) Handle(method, pattern string, handler http.Handler) {
	r.inner.Handle(method, pattern, gin.WrapH(handler))
}

// SetTrustedProxies lists the proxies (IPs or CIDRs) whose X-Forwarded-For
// and X-Real-IP headers decide the client address.
func (r *Router) SetTrustedProxies(proxies []string) error {
	return r.engine.SetTrustedProxies(proxies)
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}
