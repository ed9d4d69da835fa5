package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the trainplan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// catalog and stored programs live on the remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("httpclient: %s: %w: %s", path, models.ErrInvalidProfile, apiError(data))
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, fmt.Errorf("httpclient: %s: %w: %s", path, program.ErrCatalogUnavailable, apiError(data))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}
	return data, nil
}

// apiError extracts the "error" field of a JSON error body.
func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return string(body)
	}
	return e.Error
}

func (c *HTTPClient) GenerateProgram(ctx context.Context, in models.ProfileInput) (*models.Program, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/programs/preview", nil, in)
	if err != nil {
		return nil, err
	}

	var prog models.Program
	if err := json.Unmarshal(body, &prog); err != nil {
		return nil, fmt.Errorf("httpclient: decode program: %w", err)
	}
	return &prog, nil
}

func (c *HTTPClient) QueryExercises(ctx context.Context, f models.Filter) ([]models.Exercise, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/exercises", filterParams(f), nil)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

// filterParams encodes f with the query parameter names the REST API reads.
func filterParams(f models.Filter) url.Values {
	v := url.Values{}
	if f.PrimaryMuscle != "" {
		v.Set("muscle", string(f.PrimaryMuscle))
	}
	if len(f.EquipmentCategories) > 0 {
		eq := make([]string, len(f.EquipmentCategories))
		for i, e := range f.EquipmentCategories {
			eq[i] = string(e)
		}
		v.Set("equipment", strings.Join(eq, ","))
	}
	if len(f.ExcludePrimaryMuscles) > 0 {
		ms := make([]string, len(f.ExcludePrimaryMuscles))
		for i, m := range f.ExcludePrimaryMuscles {
			ms[i] = string(m)
		}
		v.Set("exclude", strings.Join(ms, ","))
	}
	if f.MaxComplexity != models.ComplexityAny {
		v.Set("max_complexity", strconv.Itoa(f.MaxComplexity))
	}
	if !f.OnlyIncluded {
		v.Set("all", "true")
	}
	return v
}

func (c *HTTPClient) GetProgram(ctx context.Context, id uuid.UUID) (*models.StoredProgram, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/programs/"+id.String(), nil, nil)
	if err != nil {
		return nil, err
	}

	var stored models.StoredProgram
	if err := json.Unmarshal(body, &stored); err != nil {
		return nil, fmt.Errorf("httpclient: decode program: %w", err)
	}
	return &stored, nil
}

func (c *HTTPClient) Plan(ctx context.Context, days int, duration models.SessionDuration) (program.SplitPlan, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))
	params.Set("duration", string(duration))

	body, err := c.do(ctx, http.MethodGet, "/api/v1/splits", params, nil)
	if err != nil {
		return program.SplitPlan{}, err
	}

	var plan program.SplitPlan
	if err := json.Unmarshal(body, &plan); err != nil {
		return program.SplitPlan{}, fmt.Errorf("httpclient: decode split plan: %w", err)
	}
	return plan, nil
}
