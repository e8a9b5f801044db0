package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/creditnote/backend/internal/domain/erp"
	"github.com/creditnote/backend/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum allowed response size from the backend (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client implements erp.Gateway against the backend's /jsonrpc endpoint.
// Authentication goes through the "common" service; everything else is an
// execute_kw call on the "object" service. The resolved user id is cached
// for the lifetime of the client and re-resolved only on explicit
// Authenticate calls.
type Client struct {
	config     *Config
	httpClient *http.Client
	log        *zap.Logger

	mu  sync.Mutex
	uid int64

	seq atomic.Int64
}

// NewClient creates a client for the given backend configuration.
func NewClient(config *Config, log *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		log: log.Named("odoo"),
	}, nil
}

// Authenticate resolves the configured credentials to a user id.
func (c *Client) Authenticate(ctx context.Context) (int64, error) {
	var result any
	err := c.call(ctx, "common", "authenticate",
		[]any{c.config.Database, c.config.Username, c.config.Password, map[string]any{}},
		&result)
	if err != nil {
		return 0, err
	}

	// The backend answers false (not an error) for bad credentials.
	uid, ok := result.(float64)
	if !ok || uid <= 0 {
		return 0, erp.ErrAuthFailed
	}

	c.mu.Lock()
	c.uid = int64(uid)
	c.mu.Unlock()

	c.log.Info("authenticated against backend",
		zap.String("database", c.config.Database),
		zap.Int64("uid", int64(uid)))
	return int64(uid), nil
}

// Search returns the ids of records matching the domain.
func (c *Client) Search(ctx context.Context, model string, domain erp.Domain, opts *erp.Options) ([]int64, error) {
	var raw []any
	if err := c.executeKw(ctx, model, "search", []any{normalizeDomain(domain)}, kwargs(opts), &raw); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: non-numeric id in search result", erp.ErrInvalidResponse)
		}
		ids = append(ids, int64(f))
	}
	return ids, nil
}

// Read returns the requested fields for the given ids.
func (c *Client) Read(ctx context.Context, model string, ids []int64, fields []string) ([]erp.Record, error) {
	kw := map[string]any{}
	if len(fields) > 0 {
		kw["fields"] = fields
	}
	var records []erp.Record
	if err := c.executeKw(ctx, model, "read", []any{ids}, kw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SearchRead combines Search and Read in one round trip.
func (c *Client) SearchRead(ctx context.Context, model string, domain erp.Domain, opts *erp.Options) ([]erp.Record, error) {
	var records []erp.Record
	if err := c.executeKw(ctx, model, "search_read", []any{normalizeDomain(domain)}, kwargs(opts), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a record and returns its id.
func (c *Client) Create(ctx context.Context, model string, values map[string]any) (int64, error) {
	var id float64
	if err := c.executeKw(ctx, model, "create", []any{values}, nil, &id); err != nil {
		return 0, err
	}
	return int64(id), nil
}

// executeKw issues an execute_kw call on the object service, resolving the
// session uid first if needed.
func (c *Client) executeKw(ctx context.Context, model, method string, args []any, kw map[string]any, out any) error {
	ctx, span := telemetry.StartSpan(ctx, "odoo."+method,
		attribute.String("odoo.model", model))
	defer span.End()

	uid, err := c.ensureUID(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	callArgs := []any{c.config.Database, uid, c.config.Password, model, method, args}
	if kw != nil {
		callArgs = append(callArgs, kw)
	}

	start := time.Now()
	err = c.call(ctx, "object", "execute_kw", callArgs, out)
	telemetry.RecordError(span, err)
	c.log.Debug("execute_kw",
		zap.String("model", model),
		zap.String("method", method),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return err
}

func (c *Client) ensureUID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	uid := c.uid
	c.mu.Unlock()
	if uid > 0 {
		return uid, nil
	}
	return c.Authenticate(ctx)
}

// call performs one JSON-RPC round trip.
func (c *Client) call(ctx context.Context, service, method string, args []any, out any) error {
	reqBody := rpcRequest{
		Jsonrpc: "2.0",
		Method:  "call",
		ID:      c.seq.Add(1),
		Params: rpcParams{
			Service: service,
			Method:  method,
			Args:    args,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("odoo: failed to encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.URL, "/") + "/jsonrpc"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("odoo: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", erp.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("odoo: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", erp.ErrRequestFailed, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("%w: %v", erp.ErrInvalidResponse, err)
	}

	if rpcResp.Error != nil {
		if rpcResp.Error.isAccessDenied() {
			return fmt.Errorf("%w: %s", erp.ErrAuthFailed, rpcResp.Error.describe())
		}
		return fmt.Errorf("%w: %s", erp.ErrRequestFailed, rpcResp.Error.describe())
	}

	if out != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("%w: %v", erp.ErrInvalidResponse, err)
		}
	}
	return nil
}

// kwargs converts gateway options to execute_kw keyword arguments.
func kwargs(opts *erp.Options) map[string]any {
	if opts == nil {
		return nil
	}
	kw := map[string]any{}
	if len(opts.Fields) > 0 {
		kw["fields"] = opts.Fields
	}
	if opts.Limit > 0 {
		kw["limit"] = opts.Limit
	}
	if len(kw) == 0 {
		return nil
	}
	return kw
}

// normalizeDomain guarantees an empty domain serializes as [] rather than null.
func normalizeDomain(domain erp.Domain) erp.Domain {
	if domain == nil {
		return erp.Domain{}
	}
	return domain
}

// Ensure Client implements the gateway contract
var _ erp.Gateway = (*Client)(nil)
