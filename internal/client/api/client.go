// Package api is a small HTTP client for the TaskFlow REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with every following request.
func (c *Client) SetToken(token string) {
	c.token = token
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	var resp authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Token, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListTasks returns the caller's own and assigned tasks, optionally limited
// to one project.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	path := "/api/tasks"
	if projectID != "" {
		path += "?projectId=" + url.QueryEscape(projectID)
	}

	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in models.NewTask) (*models.Task, error) {
	var resp struct {
		Task models.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// UpdateTask sends a partial update; only the keys in fields change.
func (c *Client) UpdateTask(ctx context.Context, id string, fields map[string]any) (*models.Task, error) {
	var resp struct {
		Task models.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), fields, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

// CreateAttachment registers fileName on the task and returns the URL the
// blob must be PUT to.
func (c *Client) CreateAttachment(ctx context.Context, taskID, fileName string) (*models.Attachment, string, error) {
	var resp struct {
		Attachment models.Attachment `json:"attachment"`
		UploadURL  string            `json:"uploadUrl"`
	}
	path := "/api/tasks/" + url.PathEscape(taskID) + "/attachments"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"fileName": fileName}, &resp); err != nil {
		return nil, "", err
	}
	return &resp.Attachment, resp.UploadURL, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
