package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrSessionExpired is returned when the server rejects the stored
// token. The client clears its session before returning it so the UI
// can drop back to the login screen.
var ErrSessionExpired = errors.New("session expired, please sign in again")

var errNetwork = errors.New("Network error. Please check your connection.")

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// APIClient talks to the tasknest HTTP API and holds the bearer token
// for the signed-in user.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *APIClient) Authenticated() bool {
	return c.token != ""
}

func (c *APIClient) ClearSession() {
	c.token = ""
}

func (c *APIClient) do(method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.ClearSession()
		return ErrSessionExpired
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return errors.New(apiErr.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *APIClient) Signup(email, fullName, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"fullName": fullName,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *APIClient) Login(email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *APIClient) ListTasks() ([]Task, error) {
	var tasks []Task
	if err := c.do(http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *APIClient) CreateTask(req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.do(http.MethodPost, "/api/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask sends a partial update. Fields absent from the patch are
// left untouched by the server; an explicit nil clears dueDate or
// priority.
func (c *APIClient) UpdateTask(id int64, patch map[string]interface{}) (*Task, error) {
	var task Task
	if err := c.do(http.MethodPut, "/api/tasks/"+strconv.FormatInt(id, 10), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) DeleteTask(id int64) error {
	return c.do(http.MethodDelete, "/api/tasks/"+strconv.FormatInt(id, 10), nil, nil)
}
