// Package olcaipc provides an olca.Client implementation backed by the
// JSON-RPC 2.0 interface a running openLCA engine exposes over HTTP
// (Tools > Developer tools > IPC Server, port 8080 by default).
package olcaipc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"sankey/pkg/olca"
	"sankey/pkg/serrors"
)

// Client talks to the engine's IPC endpoint and fulfills the olca.Client
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs the JSON-RPC POSTs
	endpoint   string       // endpoint is the engine IPC URL, e.g. http://localhost:8080
	seq        atomic.Uint64
}

// New constructs a Client that uses the provided http.Client to call the
// engine IPC endpoint at the given URL.
func New(httpClient *http.Client, endpoint string) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
	}
}

// Ensure Client conforms to the olca.Client interface at compile time.
var _ olca.Client = (*Client)(nil)

// rpcError is the error object of a JSON-RPC 2.0 response.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("ipc error %d: %s", e.Code, e.Message)
}

// invoke performs one JSON-RPC call against the engine. When out is non-nil
// the response result is decoded into it; a null result leaves out untouched
// and returns errNullResult so entity getters can map it to a not-found kind.
func (c *Client) invoke(ctx context.Context, method string, params any, out any) error {
	type envelope struct {
		JSONRPC string `json:"jsonrpc"`
		ID      uint64 `json:"id"`
		Method  string `json:"method"`
		Params  any    `json:"params,omitempty"`
	}
	bodyBytes, err := json.Marshal(envelope{
		JSONRPC: "2.0",
		ID:      c.seq.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ipc call %s failed: %s", method, strings.TrimSpace(string(b)))
	}

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(b, &rpcResp); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("ipc call %s: %w", method, rpcResp.Error)
	}
	if out == nil {
		return nil
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return errNullResult
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("could not decode result of %s: %w", method, err)
	}

	return nil
}

// errNullResult marks a successful call whose result was null. Entity getters
// translate it into a not-found kind.
var errNullResult = serrors.With(serrors.ErrNotFound, "entity not found")

// typedRef identifies an entity by model type and id, the parameter shape of
// the data/get family of methods.
type typedRef struct {
	Type string `json:"@type"`
	ID   string `json:"@id,omitempty"`
}

// resultRef identifies a calculation result, the parameter shape of the
// result/* family of methods.
type resultRef struct {
	ID string `json:"@id"`
}

// GetDescriptors lists descriptors of the given model type from the engine's
// active database.
func (c *Client) GetDescriptors(ctx context.Context, modelType olca.ModelType) ([]olca.Ref, error) {
	var out []olca.Ref
	if err := c.invoke(ctx, "data/get/descriptors", typedRef{Type: string(modelType)}, &out); err != nil {
		return nil, fmt.Errorf("could not get %s descriptors: %w", modelType, err)
	}

	return out, nil
}

// getEntity fetches one full entity of the given model type into out.
func (c *Client) getEntity(ctx context.Context, modelType olca.ModelType, id string, out any) error {
	err := c.invoke(ctx, "data/get", typedRef{Type: string(modelType), ID: id}, out)
	if err == errNullResult {
		return serrors.With(serrors.ErrNotFound, "%s %s not found", modelType, id)
	}
	if err != nil {
		return fmt.Errorf("could not get %s %s: %w", modelType, id, err)
	}

	return nil
}

// GetProductSystem fetches a full product system by id.
func (c *Client) GetProductSystem(ctx context.Context, id string) (*olca.ProductSystem, error) {
	var out olca.ProductSystem
	if err := c.getEntity(ctx, olca.ModelProductSystem, id, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetImpactMethod fetches a full impact method by id.
func (c *Client) GetImpactMethod(ctx context.Context, id string) (*olca.ImpactMethod, error) {
	var out olca.ImpactMethod
	if err := c.getEntity(ctx, olca.ModelImpactMethod, id, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetImpactCategory fetches a full impact category by id.
func (c *Client) GetImpactCategory(ctx context.Context, id string) (*olca.ImpactCategory, error) {
	var out olca.ImpactCategory
	if err := c.getEntity(ctx, olca.ModelImpactCategory, id, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetProcess fetches a full process by id.
func (c *Client) GetProcess(ctx context.Context, id string) (*olca.Process, error) {
	var out olca.Process
	if err := c.getEntity(ctx, olca.ModelProcess, id, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Calculate submits a calculation and returns the scheduled result state.
func (c *Client) Calculate(ctx context.Context, setup olca.CalculationSetup) (*olca.ResultState, error) {
	var out olca.ResultState
	if err := c.invoke(ctx, "result/calculate", setup, &out); err != nil {
		return nil, fmt.Errorf("could not submit calculation: %w", err)
	}

	return &out, nil
}

// GetState reports the current state of a submitted result.
func (c *Client) GetState(ctx context.Context, resultID string) (*olca.ResultState, error) {
	var out olca.ResultState
	if err := c.invoke(ctx, "result/state", resultRef{ID: resultID}, &out); err != nil {
		return nil, fmt.Errorf("could not get result state: %w", err)
	}

	return &out, nil
}

// GetImpactCategories lists the impact categories present in a result.
func (c *Client) GetImpactCategories(ctx context.Context, resultID string) ([]olca.Ref, error) {
	var out []olca.Ref
	if err := c.invoke(ctx, "result/impact-categories", resultRef{ID: resultID}, &out); err != nil {
		return nil, fmt.Errorf("could not get impact categories: %w", err)
	}

	return out, nil
}

// GetTotalImpacts returns the total impact of every category in a result.
func (c *Client) GetTotalImpacts(ctx context.Context, resultID string) ([]olca.ImpactValue, error) {
	var out []olca.ImpactValue
	if err := c.invoke(ctx, "result/total-impacts", resultRef{ID: resultID}, &out); err != nil {
		return nil, fmt.Errorf("could not get total impacts: %w", err)
	}

	return out, nil
}

// GetTotalImpactValueOf returns the total impact value of one category.
func (c *Client) GetTotalImpactValueOf(ctx context.Context,
	resultID string,
	category olca.Ref) (*olca.ImpactValue, error) {
	params := struct {
		ID             string   `json:"@id"`
		ImpactCategory olca.Ref `json:"impactCategory"`
	}{ID: resultID, ImpactCategory: category}

	var out olca.ImpactValue
	if err := c.invoke(ctx, "result/total-impact-value-of", params, &out); err != nil {
		return nil, fmt.Errorf("could not get total impact value: %w", err)
	}

	return &out, nil
}

// GetSankeyGraph asks the engine for its native contribution graph.
func (c *Client) GetSankeyGraph(ctx context.Context,
	resultID string,
	req olca.SankeyRequest) (*olca.SankeyGraph, error) {
	params := struct {
		ID             string   `json:"@id"`
		ImpactCategory olca.Ref `json:"impactCategory"`
		MaxNodes       int      `json:"maxNodes,omitempty"`
		MinShare       float64  `json:"minShare,omitempty"`
	}{ID: resultID, ImpactCategory: req.ImpactCategory, MaxNodes: req.MaxNodes, MinShare: req.MinShare}

	var out olca.SankeyGraph
	err := c.invoke(ctx, "result/sankey", params, &out)
	if err == errNullResult {
		// older engines do not implement result/sankey
		return nil, serrors.With(serrors.ErrNotFound, "engine returned no sankey graph")
	}
	if err != nil {
		return nil, fmt.Errorf("could not get sankey graph: %w", err)
	}

	return &out, nil
}

// Dispose releases the engine-side memory held by a result.
func (c *Client) Dispose(ctx context.Context, resultID string) error {
	if err := c.invoke(ctx, "result/dispose", resultRef{ID: resultID}, nil); err != nil {
		return fmt.Errorf("could not dispose result: %w", err)
	}

	return nil
}
