package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"go.uber.org/zap"
)

// ErrFetch marks a remote fetch that failed because Sankhya was unreachable
// or rejected the request. Callers test for it with errors.Is.
var ErrFetch = errors.New("sankhya fetch failed")

// RemoteSource provides the authoritative record set for one
// (tenant, entity type) pair
type RemoteSource interface {
	Fetch(ctx context.Context, tenant *model.Tenant, entityType model.EntityType) ([]model.RemoteRecord, error)
}

// SankhyaClient implements RemoteSource against the Sankhya gateway REST API
type SankhyaClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSankhyaClient creates a new Sankhya API client
func NewSankhyaClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *SankhyaClient {
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &SankhyaClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// sankhyaRecord is the wire shape of one record in a Sankhya list response
type sankhyaRecord struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

type sankhyaListResponse struct {
	Records []sankhyaRecord `json:"records"`
}

// Fetch retrieves the full remote record set for one tenant and entity type
func (c *SankhyaClient) Fetch(ctx context.Context, tenant *model.Tenant, entityType model.EntityType) ([]model.RemoteRecord, error) {
	endpoint, err := c.resourceURL(tenant.ID, entityType)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	var payload sankhyaListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrFetch, err)
	}

	records := make([]model.RemoteRecord, 0, len(payload.Records))
	for _, raw := range payload.Records {
		fields := raw.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		records = append(records, model.RemoteRecord{
			ExternalID: raw.ID,
			Payload:    fields,
		})
	}

	c.logger.Debug("Fetched remote records",
		zap.Int64("tenant_id", tenant.ID),
		zap.String("entity_type", entityType.String()),
		zap.Int("count", len(records)))

	return records, nil
}

// resourceURL maps an entity type to its gateway resource path
func (c *SankhyaClient) resourceURL(tenantID int64, entityType model.EntityType) (string, error) {
	var resource string
	switch entityType {
	case model.EntityTypePartners:
		resource = "parceiros"
	case model.EntityTypeTradeTypes:
		resource = "tipos-negociacao"
	default:
		return "", fmt.Errorf("no sankhya resource for entity type %q", entityType)
	}

	return fmt.Sprintf("%s/api/v1/%s?empresa=%s", c.baseURL, resource,
		url.QueryEscape(fmt.Sprintf("%d", tenantID))), nil
}
