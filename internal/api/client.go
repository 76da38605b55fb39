package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/househunt/househunt-go/internal/model"
)

// Client talks to the property-search backend.
type Client struct {
	http *resty.Client
}

// NewClient creates a Client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(slogLogger{})

	return &Client{http: c}
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	var out model.LoginResponse
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&failure).
		Post("/login")
	if err := check("login", res, err, &failure); err != nil {
		return model.LoginResponse{}, err
	}
	return out, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetError(&failure).
		Post("/register")
	return check("register", res, err, &failure)
}

// VerifyToken returns nil when the backend accepts token.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&failure).
		Get("/verify_token")
	return check("verify token", res, err, &failure)
}

// Scrape asks the backend to count the results behind a search URL.
func (c *Client) Scrape(ctx context.Context, token, searchURL string) (model.ScrapeResponse, error) {
	var out model.ScrapeResponse
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("url", searchURL).
		SetResult(&out).
		SetError(&failure).
		Get("/scrape")
	if err := check("scrape", res, err, &failure); err != nil {
		return model.ScrapeResponse{}, err
	}
	return out, nil
}

// History returns the user's scrape history.
func (c *Client) History(ctx context.Context, token string) ([]model.HistoryEntry, error) {
	var out []model.HistoryEntry
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		SetError(&failure).
		Get("/history")
	if err := check("history", res, err, &failure); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.HistoryEntry{}
	}
	return out, nil
}

// Geocode resolves an address to coordinates.
func (c *Client) Geocode(ctx context.Context, token, address string) (model.Coordinates, error) {
	var out model.GeocodeResponse
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(model.GeocodeRequest{Address: address}).
		SetResult(&out).
		SetError(&failure).
		Post("/geocode")
	if err := check("geocode", res, err, &failure); err != nil {
		return model.Coordinates{}, err
	}
	return model.Coordinates{Lat: out.Lat, Lon: out.Lon}, nil
}

// AskExpert forwards a free-text question. No session is needed.
func (c *Client) AskExpert(ctx context.Context, question string) (model.AskExpertResponse, error) {
	var out model.AskExpertResponse
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(model.AskExpertRequest{Question: question}).
		SetResult(&out).
		SetError(&failure).
		Post("/ask_expert")
	if err := check("ask expert", res, err, &failure); err != nil {
		return model.AskExpertResponse{}, err
	}
	return out, nil
}

// GetCollection decodes GET /<kind> into out, which must be a pointer to a
// slice.
func (c *Client) GetCollection(ctx context.Context, token string, kind model.Kind, out any) error {
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(out).
		SetError(&failure).
		Get("/" + kind.String())
	return check("load "+kind.String(), res, err, &failure)
}

// PostCollection replaces the whole collection with items.
func (c *Client) PostCollection(ctx context.Context, token string, kind model.Kind, items any) error {
	var failure model.ErrorResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]any{kind.String(): items}).
		SetError(&failure).
		Post("/" + kind.String())
	return check("save "+kind.String(), res, err, &failure)
}

func check(op string, res *resty.Response, err error, failure *model.ErrorResponse) error {
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if res.IsError() {
		return &BackendError{
			Status:  res.StatusCode(),
			Message: failure.Error,
			Body:    res.String(),
		}
	}
	return nil
}

// slogLogger routes resty's internal messages through slog.
type slogLogger struct{}

func (slogLogger) Errorf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogLogger) Warnf(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogLogger) Debugf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
