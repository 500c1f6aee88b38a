// Package carapi is a client for the marketplace REST API.
package carapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
)

const apiPrefix = "/api/v1"

// Client talks to one marketplace backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// WithTokenSource authenticates requests that need a logged in user.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(client *Client) {
		client.tokens = ts
	}
}

// New creates a client for the backend at baseURL, e.g. http://localhost:8000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/") + apiPrefix,
		http:    http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) url(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// GetCar fetches a single car. Missing cars yield ErrNotFound.
func (c *Client) GetCar(ctx context.Context, id int) (*Car, error) {
	var car Car
	err := c.do(ctx, http.MethodGet, c.url("cars", strconv.Itoa(id)), nil, false, &car)
	if err != nil {
		return nil, fmt.Errorf("cannot get car %d: %w", id, err)
	}
	return &car, nil
}

// Login exchanges credentials for an access token using the password grant.
func (c *Client) Login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.url("auth", "login"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	token, err := conf.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			detail := decodeDetail(re.Body)
			if re.Response.StatusCode == http.StatusUnauthorized {
				return nil, fmt.Errorf("login failed: %s: %w", detail, ErrUnauthorized)
			}
			return nil, fmt.Errorf("login failed: %w", &StatusError{Code: re.Response.StatusCode, Detail: detail})
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return token, nil
}

// ListFavorites returns the logged in user's favorites.
func (c *Client) ListFavorites(ctx context.Context) ([]Favorite, error) {
	var favorites []Favorite
	// the collection route is registered with a trailing slash
	err := c.do(ctx, http.MethodGet, c.url("favorites")+"/", nil, true, &favorites)
	if err != nil {
		return nil, fmt.Errorf("cannot list favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite bookmarks a car. A car that is already a favorite is not an error.
func (c *Client) AddFavorite(ctx context.Context, carID int) error {
	body := map[string]int{"car_id": carID}
	err := c.do(ctx, http.MethodPost, c.url("favorites")+"/", body, true, nil)

	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusBadRequest && strings.Contains(se.Detail, "already in favorites") {
		slog.Debug("car already in favorites", "car", carID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot add car %d to favorites: %w", carID, err)
	}
	return nil
}

func (c *Client) RemoveFavorite(ctx context.Context, carID int) error {
	err := c.do(ctx, http.MethodDelete, c.url("favorites", strconv.Itoa(carID)), nil, true, nil)
	if err != nil {
		return fmt.Errorf("cannot remove car %d from favorites: %w", carID, err)
	}
	return nil
}

func (c *Client) IsFavorite(ctx context.Context, carID int) (bool, error) {
	var res struct {
		IsFavorite bool `json:"is_favorite"`
	}
	err := c.do(ctx, http.MethodGet, c.url("favorites", "check", strconv.Itoa(carID)), nil, true, &res)
	if err != nil {
		return false, fmt.Errorf("cannot check favorite %d: %w", carID, err)
	}
	return res.IsFavorite, nil
}

func (c *Client) do(ctx context.Context, method, u string, body any, authenticated bool, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		if c.tokens == nil {
			return ErrUnauthorized
		}
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("cannot obtain token: %w", err)
		}
		token.SetAuthHeader(req)
	}

	slog.Debug("api request", "method", method, "url", u)
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("cannot read response: %w", err)
	}
	slog.Debug("api response", "method", method, "url", u, "status", res.StatusCode)

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case res.StatusCode < 200 || res.StatusCode > 299:
		return &StatusError{Code: res.StatusCode, Detail: decodeDetail(raw)}
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	return nil
}

// decodeDetail extracts the error message of a FastAPI style error body.
func decodeDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	// validation errors carry a list of objects
	return string(body.Detail)
}
