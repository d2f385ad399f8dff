package main

import (
	"testing"

	"github.com/gin-gonic/gin"

	"structa-system/config"
)

// Handlers only touch their dependencies per request, so the route table can
// be inspected without a database or redis behind it.
func TestRegisterRoutesSurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerRoutes(r, nil, nil, config.Config{})

	want := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/login"},
		{"POST", "/api/v1/auth/register"},
		{"GET", "/api/v1/projects/:id/financials"},
		{"GET", "/api/v1/projects/:id/team"},
		{"POST", "/api/v1/projects/:id/team"},
		{"POST", "/api/v1/projects/:id/allocate"},
		{"GET", "/api/v1/finance/general-ledger"},
		{"POST", "/api/v1/finance/general-ledger"},
		{"GET", "/api/v1/finance/general-ledger/export"},
		{"GET", "/api/v1/dashboard/executive-summary"},
	}

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, w := range want {
		if !registered[w.method+" "+w.path] {
			t.Errorf("route %s %s not registered", w.method, w.path)
		}
	}
}
