// Package client is the Go counterpart of the browser UI: a cookie-carrying
// API client plus the data-table controller that drives the task list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"

	"github.com/taskdeck/taskdeck/internal/domain/entity"
)

// Session is the explicit process-wide session context: populated on
// sign-in, cleared on sign-out, and handed to whoever needs display data.
// Nothing reads ambient storage.
type Session struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// APIError carries the server's message (and field errors for 400s) back to
// the caller.
type APIError struct {
	StatusCode int
	Message    string
	Errors     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the task API. The cookie jar carries the session token;
// the session cookie is HTTP-only so the jar is the only place it lives.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	session *Session
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

// Session returns a copy of the current session, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

type SignUpInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string            `json:"message"`
	User    *Session          `json:"user"`
	Errors  map[string]string `json:"errors"`
}

// SignUp registers a new account. It does not sign the user in.
func (c *Client) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/sign-up", nil, in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SignIn verifies credentials, stores the session cookie in the jar, and
// populates the session context.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/sign-in", nil, signInRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.session = out.User
	c.mu.Unlock()
	return out.User, nil
}

// SignOut clears the cookie server-side and drops the session context.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/sign-out", nil, nil, nil)
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return err
}

// ListQuery is the page/sort/filter triple the table controller sends.
type ListQuery struct {
	Page           int
	PageSize       int
	SortColumn     string
	SortDirection  string
	StatusFilter   string
	PriorityFilter string
}

// TaskListPage is the server's list response.
type TaskListPage struct {
	Tasks      []entity.Task `json:"tasks"`
	TotalTasks int           `json:"totalTasks"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
}

// ListTasks fetches one page of the signed-in user's tasks.
func (c *Client) ListTasks(ctx context.Context, q ListQuery) (TaskListPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.SortColumn != "" {
		sorting, _ := json.Marshal([]map[string]string{{
			"column":    q.SortColumn,
			"direction": q.SortDirection,
		}})
		params.Set("sorting", string(sorting))
	}
	filters := map[string]string{}
	if q.StatusFilter != "" {
		filters["status"] = q.StatusFilter
	}
	if q.PriorityFilter != "" {
		filters["priority"] = q.PriorityFilter
	}
	if len(filters) > 0 {
		b, _ := json.Marshal(filters)
		params.Set("filters", string(b))
	}

	var out TaskListPage
	if err := c.do(ctx, http.MethodGet, "/api/tasks", params, nil, &out); err != nil {
		return TaskListPage{}, err
	}
	return out, nil
}

type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

type taskResponse struct {
	Message string       `json:"message"`
	Task    *entity.Task `json:"task"`
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*entity.Task, error) {
	var out taskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in TaskInput) (*entity.Task, error) {
	var out taskResponse
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var msg struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(res.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
			apiErr.Errors = msg.Errors
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
