package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cuemby/felix/pkg/types"
)

// HTTPClient is a ComputeClient backed by the provider's REST API. There
// is no third-party SDK for this provider's compute-maintenance API in
// the retrieved example pack (see DESIGN.md), so this client is built on
// net/http and encoding/json directly, the way the teacher codebase talks
// to its own internal APIs.
type HTTPClient struct {
	baseURL string
	tenancy string
	region  string
	http    *http.Client
}

// NewHTTPClient builds a client scoped to one tenancy and region.
func NewHTTPClient(baseURL, tenancyOCID, region string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		tenancy: tenancyOCID,
		region:  region,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type compartmentListResponse struct {
	Compartments []string `json:"compartments"`
}

func (c *HTTPClient) ListCompartments(ctx context.Context) ([]string, error) {
	var out compartmentListResponse
	if err := c.get(ctx, fmt.Sprintf("/20190901/compartments?tenancyId=%s", c.tenancy), &out); err != nil {
		return nil, fmt.Errorf("cloud: list compartments: %w", err)
	}
	return out.Compartments, nil
}

type eventWire struct {
	EventID         string            `json:"id"`
	InstanceID      string            `json:"instanceId"`
	CompartmentID   string            `json:"compartmentId"`
	FaultIDs        []string          `json:"faultIds"`
	LifecycleState  string            `json:"lifecycleState"`
	TimeWindowStart *time.Time        `json:"timeWindowStart,omitempty"`
	FreeformTags    map[string]string `json:"freeformTags"`
}

func (w eventWire) toDomain() types.MaintenanceEvent {
	return types.MaintenanceEvent{
		EventID:         w.EventID,
		InstanceID:      w.InstanceID,
		CompartmentID:   w.CompartmentID,
		FaultIDs:        w.FaultIDs,
		LifecycleState:  types.LifecycleState(w.LifecycleState),
		TimeWindowStart: w.TimeWindowStart,
		FreeformTags:    w.FreeformTags,
	}
}

type eventListResponse struct {
	Items []eventWire `json:"items"`
}

func (c *HTTPClient) ListInstanceMaintenanceEvents(ctx context.Context, compartmentID string) ([]types.MaintenanceEvent, error) {
	var out eventListResponse
	path := fmt.Sprintf("/20190901/instanceMaintenanceEvents?compartmentId=%s&region=%s", compartmentID, c.region)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("cloud: list maintenance events for %s: %w", compartmentID, err)
	}
	events := make([]types.MaintenanceEvent, len(out.Items))
	for i, w := range out.Items {
		events[i] = w.toDomain()
	}
	return events, nil
}

func (c *HTTPClient) GetInstanceMaintenanceEvent(ctx context.Context, eventID string) (types.MaintenanceEvent, error) {
	var out eventWire
	if err := c.get(ctx, "/20190901/instanceMaintenanceEvents/"+eventID, &out); err != nil {
		return types.MaintenanceEvent{}, fmt.Errorf("cloud: get maintenance event %s: %w", eventID, err)
	}
	return out.toDomain(), nil
}

type updateEventBody struct {
	TimeWindowStart time.Time         `json:"timeWindowStart"`
	FreeformTags    map[string]string `json:"freeformTags"`
}

type updateEventResponse struct {
	WorkRequestID string `json:"opcWorkRequestId"`
}

func (c *HTTPClient) UpdateInstanceMaintenanceEvent(ctx context.Context, eventID string, req UpdateEventRequest) (string, error) {
	body := updateEventBody{TimeWindowStart: req.TimeWindowStart, FreeformTags: req.FreeformTags}
	var out updateEventResponse
	if err := c.put(ctx, "/20190901/instanceMaintenanceEvents/"+eventID, body, &out); err != nil {
		return "", fmt.Errorf("cloud: update maintenance event %s: %w", eventID, err)
	}
	return out.WorkRequestID, nil
}

type workRequestWire struct {
	ID    string `json:"id"`
	State string `json:"status"`
}

func (c *HTTPClient) GetWorkRequest(ctx context.Context, workRequestID string) (WorkRequest, error) {
	var out workRequestWire
	if err := c.get(ctx, "/20160918/workRequests/"+workRequestID, &out); err != nil {
		return WorkRequest{}, fmt.Errorf("cloud: get work request %s: %w", workRequestID, err)
	}
	return WorkRequest{ID: out.ID, State: types.WorkRequestState(out.State)}, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) put(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
