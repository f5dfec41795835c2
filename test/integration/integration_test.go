package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"
)

var (
	apiBaseURL       = getEnv("API_BASE_URL", "http://localhost:8080")
	testUserEmail    = fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	testUserPassword = "testPassword123!"
	authToken        string
	createdTaskID    int64
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		fmt.Println("Skipping integration tests. Set INTEGRATION_TEST=true to run.")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func request(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, apiBaseURL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

func TestHealthCheck(t *testing.T) {
	resp, err := http.Get(apiBaseURL + "/api/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestUserSignup(t *testing.T) {
	resp := request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    testUserEmail,
		"fullName": "Test User",
		"password": testUserPassword,
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	result := decode(t, resp)
	token, ok := result["token"].(string)
	if !ok || token == "" {
		t.Fatal("expected token in signup response")
	}
	authToken = token
}

func TestDuplicateSignup(t *testing.T) {
	resp := request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    testUserEmail,
		"fullName": "Test User",
		"password": testUserPassword,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestUserSignin(t *testing.T) {
	resp := request(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    testUserEmail,
		"password": testUserPassword,
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	result := decode(t, resp)
	if token, ok := result["token"].(string); ok && token != "" {
		authToken = token
	} else {
		t.Error("expected token in signin response")
	}
}

func TestTasksRequireAuth(t *testing.T) {
	resp := request(t, http.MethodGet, "/api/tasks", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}
}

func TestCreateTask(t *testing.T) {
	if authToken == "" {
		t.Skip("no auth token from signup")
	}

	resp := request(t, http.MethodPost, "/api/tasks", authToken, map[string]string{
		"title":    "Integration test task",
		"priority": "high",
		"dueDate":  "2030-01-01",
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	result := decode(t, resp)
	id, ok := result["id"].(float64)
	if !ok || id == 0 {
		t.Fatal("expected task id in response")
	}
	createdTaskID = int64(id)

	if result["completed"] != false {
		t.Errorf("expected new task to be incomplete, got %v", result["completed"])
	}
	if result["priority"] != "high" {
		t.Errorf("expected priority 'high', got %v", result["priority"])
	}
}

func TestListTasks(t *testing.T) {
	if authToken == "" {
		t.Skip("no auth token from signup")
	}

	resp := request(t, http.MethodGet, "/api/tasks", authToken, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var tasks []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		t.Fatalf("failed to decode task list: %v", err)
	}
	if len(tasks) == 0 {
		t.Error("expected at least one task")
	}
}

func TestUpdateTask(t *testing.T) {
	if authToken == "" || createdTaskID == 0 {
		t.Skip("no task from create test")
	}

	resp := request(t, http.MethodPut, "/api/tasks/"+strconv.FormatInt(createdTaskID, 10), authToken, map[string]interface{}{
		"completed": true,
		"priority":  nil,
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	result := decode(t, resp)
	if result["completed"] != true {
		t.Errorf("expected completed true, got %v", result["completed"])
	}
	if result["priority"] != nil {
		t.Errorf("expected cleared priority, got %v", result["priority"])
	}
}

func TestTaskIsolation(t *testing.T) {
	if createdTaskID == 0 {
		t.Skip("no task from create test")
	}

	otherEmail := fmt.Sprintf("other-%d@example.com", time.Now().UnixNano())
	resp := request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    otherEmail,
		"fullName": "Other User",
		"password": testUserPassword,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("second signup failed with %d", resp.StatusCode)
	}
	otherToken, _ := decode(t, resp)["token"].(string)

	resp = request(t, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(createdTaskID, 10), otherToken, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 for foreign delete, got %d", resp.StatusCode)
	}
}

func TestDeleteTask(t *testing.T) {
	if authToken == "" || createdTaskID == 0 {
		t.Skip("no task from create test")
	}

	resp := request(t, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(createdTaskID, 10), authToken, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	resp = request(t, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(createdTaskID, 10), authToken, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 for repeat delete, got %d", resp.StatusCode)
	}
}
