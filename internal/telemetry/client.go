// README: HTTP polling client for the external drone telemetry API.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Unit is one reported real-world unit from a ListUnits poll. It is
// ephemeral; only the derived vehicle update survives a cycle.
type Unit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// State is the current reported state of a unit.
type State struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"location"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) ListUnits(ctx context.Context) ([]Unit, error) {
	var units []Unit
	if err := c.getJSON(ctx, c.baseURL+"/drones", &units); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

func (c *Client) GetState(ctx context.Context, unitID string) (*State, error) {
	var state State
	if err := c.getJSON(ctx, c.baseURL+"/drones/"+unitID+"/state", &state); err != nil {
		return nil, fmt.Errorf("get state for unit %s: %w", unitID, err)
	}
	return &state, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
