package ldp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldptw/internal/domain"
)

type captured struct {
	path, link, contentType string
}

func newFakeServer(t *testing.T, status int) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	router := mux.NewRouter()
	router.HandleFunc("/ldp/{id:[0-9a-f]{32}}", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, captured{
			path:        r.URL.Path,
			link:        r.Header.Get("Link"),
			contentType: r.Header.Get("Content-Type"),
		})
		w.WriteHeader(status)
	}).Methods(http.MethodPut)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestClient_CreateResource(t *testing.T) {
	tests := []struct {
		name     string
		typ      domain.ContainerType
		wantLink string
	}{
		{"basic", domain.BasicContainer, `<http://www.w3.org/ns/ldp#BasicContainer>; rel="type"`},
		{"direct", domain.DirectContainer, `<http://www.w3.org/ns/ldp#DirectContainer>; rel="type"`},
		{"indirect", domain.IndirectContainer, `<http://www.w3.org/ns/ldp#IndirectContainer>; rel="type"`},
		{"no container type", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := newFakeServer(t, http.StatusCreated)

			url, err := NewClient(srv.Client()).CreateResource(context.Background(), srv.URL+"/ldp/", tt.typ)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, srv.URL+"/ldp/"))

			require.Len(t, *requests, 1)
			got := (*requests)[0]
			assert.Equal(t, "text/turtle", got.contentType)
			assert.Equal(t, tt.wantLink, got.link)
			assert.Equal(t, strings.TrimPrefix(url, srv.URL), got.path)
		})
	}
}

func TestClient_CreateResource_UnexpectedStatus(t *testing.T) {
	srv, _ := newFakeServer(t, http.StatusOK)

	_, err := NewClient(srv.Client()).CreateResource(context.Background(), srv.URL+"/ldp", domain.BasicContainer)
	assert.ErrorContains(t, err, "expected 201 Created")
}

func TestResourceURL_Fresh(t *testing.T) {
	a, b := ResourceURL("http://example.org/ldp/"), ResourceURL("http://example.org/ldp")
	assert.NotEqual(t, a, b)
	assert.Len(t, strings.TrimPrefix(a, "http://example.org/ldp/"), 32)
}
