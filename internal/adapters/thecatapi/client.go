// Package thecatapi es el cliente HTTP de https://thecatapi.com.
package thecatapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-manager/internal/platform/httpclient"
)

const DefaultBaseURL = "https://api.thecatapi.com/v1/"

var ErrNotConfigured = errors.New("thecatapi client not configured")

// Config del cliente. APIKey es opcional: sin key la API responde con cuota reducida.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// Transport opcional, para tests.
	Transport http.RoundTripper
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	headers := map[string]string{}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		headers["x-api-key"] = key
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL:   base,
		Timeout:   cfg.Timeout,
		Headers:   headers,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("thecatapi: %w", err)
	}
	return &Client{http: hc}, nil
}

// Breeds lista razas. page es zero-indexed, como la espera la API.
func (c *Client) Breeds(ctx context.Context, limit, page int) ([]json.RawMessage, error) {
	if c == nil || c.http == nil {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))

	var out []json.RawMessage
	if err := c.http.GetJSON(ctx, "breeds", q, &out); err != nil {
		return nil, fmt.Errorf("thecatapi breeds: %w", err)
	}
	return out, nil
}

// RandomImage devuelve un arreglo con una imagen y la información de su raza.
func (c *Client) RandomImage(ctx context.Context) ([]json.RawMessage, error) {
	if c == nil || c.http == nil {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("has_breeds", "1")

	var out []json.RawMessage
	if err := c.http.GetJSON(ctx, "images/search", q, &out); err != nil {
		return nil, fmt.Errorf("thecatapi random: %w", err)
	}
	return out, nil
}
