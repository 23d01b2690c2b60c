// Package api is the typed client for the remote proforma GraphQL backend.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-proformas/internal/metrics"
	"github.com/diewo77/go-proformas/internal/models"
)

// Operation names, used for error wrapping, logs and metric labels.
const (
	OpSearchClients        = "searchClients"
	OpCreateClient         = "createClient"
	OpCreateProforma       = "createProforma"
	OpListProformas        = "listProformas"
	OpUpdateProformaStatus = "updateProformaStatus"
	OpGetProforma          = "getProforma"
)

// Error is a failed remote operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Message returns the text shown to a user for err: the backend's own
// message for GraphQL errors, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return strings.TrimPrefix(apiErr.Err.Error(), "graphql: ")
	}
	return err.Error()
}

// NewClient is the input for CreateClient.
type NewClient struct {
	Name  string
	Phone string
	TaxID string
}

// NewProforma is the input for CreateProforma.
type NewProforma struct {
	ClientID   string
	VehicleRef string
	Driver     string
	Items      []models.ProformaItem
}

// Created is what the backend returns for a saved proforma.
type Created struct {
	ID    string
	Total decimal.Decimal
}

// Options configures a Client.
type Options struct {
	GraphQLURL   string
	DocumentBase string
	// HTTPClient defaults to a client with no timeout.
	HTTPClient *http.Client
	CacheTTL   time.Duration
	Metrics    *metrics.Recorder
	Logger     *zap.Logger
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	gql          *graphql.Client
	documentBase string
	cache        *SearchCache
	metrics      *metrics.Recorder
	log          *zap.Logger
}

// New builds a Client from opts.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("api")

	gql := graphql.NewClient(opts.GraphQLURL, graphql.WithHTTPClient(httpClient))
	gql.Log = func(s string) { logger.Debug(s) }

	return &Client{
		gql:          gql,
		documentBase: strings.TrimRight(opts.DocumentBase, "/"),
		cache:        NewSearchCache(opts.CacheTTL),
		metrics:      opts.Metrics,
		log:          logger,
	}
}

func (c *Client) run(ctx context.Context, op string, req *graphql.Request, resp any) error {
	start := time.Now()
	err := c.gql.Run(ctx, req, resp)
	elapsed := time.Since(start)
	c.metrics.ObserveAPICall(op, elapsed, err)
	if err != nil {
		c.log.Warn("remote operation failed",
			zap.String("operation", op),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return &Error{Op: op, Err: err}
	}
	c.log.Debug("remote operation",
		zap.String("operation", op),
		zap.Duration("elapsed", elapsed))
	return nil
}

// SearchClients returns clients whose name contains name. Results are
// served from the search cache while fresh.
func (c *Client) SearchClients(ctx context.Context, name string) ([]models.Client, error) {
	name = strings.TrimSpace(name)
	if cached, ok := c.cache.Get(name); ok {
		return cached, nil
	}

	req := graphql.NewRequest(searchClientsQuery)
	req.Var("name", name)

	var resp struct {
		AllClients []models.Client `json:"allClients"`
	}
	if err := c.run(ctx, OpSearchClients, req, &resp); err != nil {
		return nil, err
	}
	c.cache.Put(name, resp.AllClients)
	return resp.AllClients, nil
}

// CreateClient registers a new client and invalidates the search cache.
func (c *Client) CreateClient(ctx context.Context, in NewClient) (models.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Client{}, &Error{Op: OpCreateClient, Err: errors.New("name is required")}
	}

	req := graphql.NewRequest(createClientMutation)
	req.Var("name", name)
	req.Var("phone", strings.TrimSpace(in.Phone))
	req.Var("nit", strings.TrimSpace(in.TaxID))

	var resp struct {
		CreateClient struct {
			Client models.Client `json:"client"`
		} `json:"createClient"`
	}
	if err := c.run(ctx, OpCreateClient, req, &resp); err != nil {
		return models.Client{}, err
	}
	c.cache.InvalidateAll()
	return resp.CreateClient.Client, nil
}

type itemInput struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

// CreateProforma saves a proforma and returns its id and the backend total.
func (c *Client) CreateProforma(ctx context.Context, in NewProforma) (Created, error) {
	items := make([]itemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, itemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
		})
	}

	req := graphql.NewRequest(createProformaMutation)
	req.Var("clientId", in.ClientID)
	req.Var("vehicleRef", in.VehicleRef)
	req.Var("driver", in.Driver)
	req.Var("items", items)

	var resp struct {
		CreateProforma struct {
			Proforma struct {
				ID    string          `json:"id"`
				Total decimal.Decimal `json:"total"`
			} `json:"proforma"`
		} `json:"createProforma"`
	}
	if err := c.run(ctx, OpCreateProforma, req, &resp); err != nil {
		return Created{}, err
	}
	p := resp.CreateProforma.Proforma
	return Created{ID: p.ID, Total: p.Total}, nil
}

// ListProformas returns proformas whose client name or vehicle contains
// search, newest first. An empty search lists everything.
func (c *Client) ListProformas(ctx context.Context, search string) ([]models.Proforma, error) {
	req := graphql.NewRequest(listProformasQuery)
	req.Var("search", strings.TrimSpace(search))

	var resp struct {
		AllProformas []models.Proforma `json:"allProformas"`
	}
	if err := c.run(ctx, OpListProformas, req, &resp); err != nil {
		return nil, err
	}
	return resp.AllProformas, nil
}

// UpdateProformaStatus sets the status of proforma id.
func (c *Client) UpdateProformaStatus(ctx context.Context, id string, status models.Status) (models.Proforma, error) {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return models.Proforma{}, &Error{Op: OpUpdateProformaStatus, Err: err}
	}

	req := graphql.NewRequest(updateProformaStatusMutation)
	req.Var("id", id)
	req.Var("status", string(status))

	var resp struct {
		UpdateProformaStatus struct {
			Proforma models.Proforma `json:"proforma"`
		} `json:"updateProformaStatus"`
	}
	if err := c.run(ctx, OpUpdateProformaStatus, req, &resp); err != nil {
		return models.Proforma{}, err
	}
	return resp.UpdateProformaStatus.Proforma, nil
}

// GetProforma fetches one proforma with its client and items.
func (c *Client) GetProforma(ctx context.Context, id string) (models.Proforma, error) {
	req := graphql.NewRequest(getProformaQuery)
	req.Var("id", id)

	var resp struct {
		Proforma *models.Proforma `json:"proforma"`
	}
	if err := c.run(ctx, OpGetProforma, req, &resp); err != nil {
		return models.Proforma{}, err
	}
	if resp.Proforma == nil {
		return models.Proforma{}, &Error{Op: OpGetProforma, Err: fmt.Errorf("proforma %s not found", id)}
	}
	return *resp.Proforma, nil
}

// DocumentURL is where the backend serves the printable document for id.
func (c *Client) DocumentURL(id string) string {
	return c.documentBase + "/pdf/" + url.PathEscape(id) + "/"
}
