package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTenant() *model.Tenant {
	return &model.Tenant{ID: 5, Name: "Empresa Alfa", Active: true}
}

func TestSankhyaClient_FetchPartners(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/parceiros", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("empresa"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[
			{"id":"100","fields":{"name":"Parceiro A","city":"Sao Paulo"}},
			{"id":"200","fields":{"name":"Parceiro B"}}
		]}`))
	}))
	defer server.Close()

	c := NewSankhyaClient(server.URL, "test-token", 5*time.Second, zap.NewNop())

	records, err := c.Fetch(context.Background(), testTenant(), model.EntityTypePartners)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "100", records[0].ExternalID)
	assert.Equal(t, "Parceiro A", records[0].Payload["name"])
	assert.Equal(t, "Sao Paulo", records[0].Payload["city"])
	assert.Equal(t, "200", records[1].ExternalID)
}

func TestSankhyaClient_FetchTradeTypesPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tipos-negociacao", r.URL.Path)
		w.Write([]byte(`{"records":[]}`))
	}))
	defer server.Close()

	c := NewSankhyaClient(server.URL, "test-token", 5*time.Second, zap.NewNop())

	records, err := c.Fetch(context.Background(), testTenant(), model.EntityTypeTradeTypes)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSankhyaClient_FetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewSankhyaClient(server.URL, "test-token", 5*time.Second, zap.NewNop())

	_, err := c.Fetch(context.Background(), testTenant(), model.EntityTypePartners)

	assert.ErrorIs(t, err, ErrFetch)
}

func TestSankhyaClient_FetchUnreachableGateway(t *testing.T) {
	c := NewSankhyaClient("http://127.0.0.1:1", "test-token", time.Second, zap.NewNop())

	_, err := c.Fetch(context.Background(), testTenant(), model.EntityTypePartners)

	assert.ErrorIs(t, err, ErrFetch)
}

func TestSankhyaClient_FetchMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewSankhyaClient(server.URL, "test-token", 5*time.Second, zap.NewNop())

	_, err := c.Fetch(context.Background(), testTenant(), model.EntityTypePartners)

	assert.ErrorIs(t, err, ErrFetch)
}

func TestSankhyaClient_FetchUnknownEntityType(t *testing.T) {
	c := NewSankhyaClient("http://localhost", "test-token", time.Second, zap.NewNop())

	_, err := c.Fetch(context.Background(), testTenant(), model.EntityType("bogus"))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFetch)
}
