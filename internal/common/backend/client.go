// Package backend is the typed client for the GigDial backend that owns gigs,
// users, messages and cities.
package backend

import (
	"context"
	"net/url"

	httpclient "gigdial/internal/common/http"
	"gigdial/internal/models"
)

// Endpoint names used for metrics and spans.
const (
	EndpointListGigs        = "gigs.list"
	EndpointWorkerGigs      = "gigs.by_worker"
	EndpointApprovedWorkers = "workers.approved"
	EndpointWorker          = "workers.get"
	EndpointSendMessage     = "messages.send"
	EndpointRegisterUser    = "users.register"
	EndpointCities          = "cities.list"
)

// Client calls the backend's JSON API.
type Client struct {
	http *httpclient.Client
}

func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// ListGigs fetches every gig: GET /api/gigs.
func (c *Client) ListGigs(ctx context.Context) ([]models.Gig, error) {
	var gigs []models.Gig
	if err := c.http.GetJSON(ctx, EndpointListGigs, "/api/gigs", "", &gigs); err != nil {
		return nil, err
	}
	return gigs, nil
}

// ListWorkerGigs fetches the gigs owned by workerID: GET /api/gigs/worker/:id.
func (c *Client) ListWorkerGigs(ctx context.Context, workerID string) ([]models.Gig, error) {
	var gigs []models.Gig
	path := "/api/gigs/worker/" + url.PathEscape(workerID)
	if err := c.http.GetJSON(ctx, EndpointWorkerGigs, path, "", &gigs); err != nil {
		return nil, err
	}
	return gigs, nil
}

// ListApprovedWorkers: GET /api/users/workers/approved.
func (c *Client) ListApprovedWorkers(ctx context.Context) ([]models.WorkerProfile, error) {
	var workers []models.WorkerProfile
	if err := c.http.GetJSON(ctx, EndpointApprovedWorkers, "/api/users/workers/approved", "", &workers); err != nil {
		return nil, err
	}
	return workers, nil
}

// GetWorker: GET /api/users/workers/:id. A missing worker is RESOURCE_NOT_FOUND.
func (c *Client) GetWorker(ctx context.Context, workerID string) (*models.WorkerProfile, error) {
	var w models.WorkerProfile
	path := "/api/users/workers/" + url.PathEscape(workerID)
	if err := c.http.GetJSON(ctx, EndpointWorker, path, "", &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// SendMessageRequest is the body of POST /api/messages.
type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// SendMessageResponse is the subset of the stored message gigdial needs.
type SendMessageResponse struct {
	ID string `json:"_id"`
}

// SendMessage posts a contact message on behalf of the bearer token's owner.
func (c *Client) SendMessage(ctx context.Context, token string, req SendMessageRequest) (*SendMessageResponse, error) {
	var resp SendMessageResponse
	if err := c.http.PostJSON(ctx, EndpointSendMessage, "/api/messages", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterUser: POST /api/users.
func (c *Client) RegisterUser(ctx context.Context, reg models.Registration) (*models.RegisteredUser, error) {
	var user models.RegisteredUser
	if err := c.http.PostJSON(ctx, EndpointRegisterUser, "/api/users", "", reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListCities: GET /api/cities.
func (c *Client) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := c.http.GetJSON(ctx, EndpointCities, "/api/cities", "", &cities); err != nil {
		return nil, err
	}
	return cities, nil
}
