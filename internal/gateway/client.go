package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/storefront/internal/session"
	"github.com/duynhne/storefront/middleware"
)

// Client talks to the one remote GraphQL endpoint. All operations funnel
// through Do; nothing else in the service issues outbound requests.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a Client for the given endpoint. A nil httpClient falls
// back to http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// envelope is the GraphQL response wire format.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Do submits one query/variables pair and returns the data field raw.
// When requireAuth is set, the bearer token comes from the request-scoped
// session in ctx; without one the call fails before any network attempt.
// A non-empty errors list in the envelope becomes a *RemoteError carrying
// the first message only.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, requireAuth bool) (json.RawMessage, error) {
	ctx, span := middleware.StartSpan(ctx, "gateway.request", trace.WithAttributes(
		attribute.String("layer", "gateway"),
		attribute.Bool("request.authenticated", requireAuth),
	))
	defer span.End()

	var token string
	if requireAuth {
		sess, ok := session.FromContext(ctx)
		if !ok || sess.Token == "" {
			span.SetAttributes(attribute.Bool("auth.present", false))
			return nil, fmt.Errorf("authenticated request: %w", ErrUnauthenticated)
		}
		token = sess.Token
	}

	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apollo-require-preflight", "true")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("execute graphql request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}

	if len(env.Errors) > 0 {
		remote := &RemoteError{Message: env.Errors[0].Message}
		span.RecordError(remote)
		span.SetAttributes(attribute.Bool("request.success", false))
		return nil, fmt.Errorf("graphql operation failed: %w", remote)
	}

	span.SetAttributes(attribute.Bool("request.success", true))
	return env.Data, nil
}

// do runs a query and unmarshals the single top-level field the operation
// selects into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, requireAuth bool, field string, out any) error {
	data, err := c.Do(ctx, query, variables, requireAuth)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode data envelope: %w", err)
	}
	raw, ok := fields[field]
	if !ok {
		return fmt.Errorf("response missing field %q", field)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode field %q: %w", field, err)
	}
	return nil
}
