// Package device talks to the display's local ESPHome-style REST API.
package device

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sensor and entity names exposed by the display firmware.
const (
	SensorBlinking    = "Blinking"
	SensorBootCount   = "Boot Count"
	SensorTemperature = "Temperature"
	SensorHumidity    = "Humidity"
	TextScroll        = "Scroll Text"
)

// DefaultTimeout bounds every device call when none is configured.
const DefaultTimeout = 2 * time.Second

// Client issues single-attempt, timeout-bounded calls to the device.
type Client struct {
	http    *resty.Client
	timeout time.Duration
}

// NewClient creates a client for the device at host, e.g. http://boo-display.local.
func NewClient(host string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(host, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, timeout: timeout}
}

type boolReading struct {
	Value *bool `json:"value"`
}

type numberReading struct {
	Value *float64 `json:"value"`
}

// ReadBinarySensor returns the value of binary_sensor/<name>.
func (c *Client) ReadBinarySensor(ctx context.Context, name string) (bool, error) {
	op := "read binary_sensor " + name
	var reading boolReading
	if err := c.getJSON(ctx, op, "/binary_sensor/"+url.PathEscape(name), &reading); err != nil {
		return false, err
	}
	if reading.Value == nil {
		return false, rejected(op, http.StatusOK, fmt.Errorf("response has no boolean value"))
	}
	return *reading.Value, nil
}

// ReadNumericSensor returns the value of sensor/<name>.
func (c *Client) ReadNumericSensor(ctx context.Context, name string) (float64, error) {
	op := "read sensor " + name
	var reading numberReading
	if err := c.getJSON(ctx, op, "/sensor/"+url.PathEscape(name), &reading); err != nil {
		return 0, err
	}
	if reading.Value == nil {
		return 0, rejected(op, http.StatusOK, fmt.Errorf("response has no numeric value"))
	}
	return *reading.Value, nil
}

// SetText pushes value to the scrolling text entity. The request carries an
// empty body.
func (c *Client) SetText(ctx context.Context, value string) error {
	op := "set text"
	path := "/text/" + url.PathEscape(TextScroll) + "/set?value=" + encodeComponent(value)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetContentLength(true).
		Post(path)
	if err != nil {
		return unreachable(op, err)
	}
	if !resp.IsSuccess() {
		return rejected(op, resp.StatusCode(), nil)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return unreachable(op, err)
	}
	if !resp.IsSuccess() {
		return rejected(op, resp.StatusCode(), nil)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return rejected(op, resp.StatusCode(), fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// encodeComponent escapes s for a query value with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
