package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// Setup a test server with a fresh temp database. The returned client keeps a
// cookie jar but does not follow redirects, so tests can assert on 302s.
func setupTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "twitterclone-test-*.db")
	require.NoError(t, err)
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	db, err := openDB(tmpFile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, runMigrations(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	app := NewApp(NewStorage(db), newStore("test-secret"), bcryptHasher{}, nil, log)

	ts := httptest.NewServer(app.setupRouter())
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	client := ts.Client()
	client.Jar = jar
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return ts, client
}

// Helper: read response body as string
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// Helper: decode a {"error": ...} / {"success": ...} envelope
func decodeEnvelope(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	var envelope map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

// Helper: register a user
func register(t *testing.T, ts *httptest.Server, client *http.Client, username, password, password2 string) *http.Response {
	t.Helper()
	resp, err := client.PostForm(ts.URL+"/register", url.Values{
		"username":  {username},
		"password":  {password},
		"password2": {password2},
	})
	require.NoError(t, err)
	return resp
}

// Helper: login
func login(t *testing.T, ts *httptest.Server, client *http.Client, username, password string) *http.Response {
	t.Helper()
	resp, err := client.PostForm(ts.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	return resp
}

// Helper: register and login
func registerAndLogin(t *testing.T, ts *httptest.Server, client *http.Client, username, password string) {
	t.Helper()
	resp := register(t, ts, client, username, password, password)
	resp.Body.Close()
	resp = login(t, ts, client, username, password)
	resp.Body.Close()
}

// Helper: logout
func doLogout(t *testing.T, ts *httptest.Server, client *http.Client) *http.Response {
	t.Helper()
	resp, err := client.Get(ts.URL + "/logout")
	require.NoError(t, err)
	return resp
}

// Helper: form request with an explicit method (PUT, DELETE)
func formRequest(t *testing.T, ts *httptest.Server, client *http.Client, method, path string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestIndexGreeting(t *testing.T) {
	ts, client := setupTestServer(t)

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `"Hello, please register or login!"`, readBody(t, resp))

	registerAndLogin(t, ts, client, "alice", "secret")

	resp, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `"Hello, alice !"`, readBody(t, resp))
}

func TestRegister(t *testing.T) {
	ts, client := setupTestServer(t)

	// Successful registration redirects to the login page
	resp := register(t, ts, client, "user1", "default", "default")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	// Duplicate username
	resp = register(t, ts, client, "user1", "default", "default")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "User exists, try another username!", decodeEnvelope(t, resp)["error"])

	// Empty fields
	resp = register(t, ts, client, "", "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Fields are required to be filled.", decodeEnvelope(t, resp)["error"])

	// Mismatched passwords
	resp = register(t, ts, client, "user2", "x", "y")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Password mismatch!", decodeEnvelope(t, resp)["error"])

	// The mismatched registration must not have created the account
	resp = login(t, ts, client, "user2", "x")
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginLogout(t *testing.T) {
	ts, client := setupTestServer(t)

	resp := register(t, ts, client, "user1", "default", "default")
	resp.Body.Close()

	// Unknown username
	resp = login(t, ts, client, "nobody", "default")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "User not found!", decodeEnvelope(t, resp)["error"])

	// Wrong password
	resp = login(t, ts, client, "user1", "wrongpassword")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Incorrect password!", decodeEnvelope(t, resp)["error"])

	// Missing fields
	resp = login(t, ts, client, "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Correct credentials redirect to the root and bind the session
	resp = login(t, ts, client, "user1", "default")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	require.JSONEq(t, `"Hello, user1 !"`, readBody(t, resp))

	// Logout clears the session; protected endpoints reject afterwards
	resp = doLogout(t, ts, client)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	resp, err = client.PostForm(ts.URL+"/chat", url.Values{"_to": {"user1"}, "content": {"hi"}})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "You must be logged in.", decodeEnvelope(t, resp)["error"])

	resp, err = client.PostForm(ts.URL+"/tweet", url.Values{"title": {"t"}, "content": {"c"}})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestUsersDump(t *testing.T) {
	ts, client := setupTestServer(t)

	resp := register(t, ts, client, "user1", "default", "default")
	resp.Body.Close()

	resp, err := client.Get(ts.URL + "/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	resp.Body.Close()
	require.Len(t, users, 1)
	require.Equal(t, "user1", users[0]["username"])
	require.NotEmpty(t, users[0]["password_hash"])
}

func TestHealthz(t *testing.T) {
	ts, client := setupTestServer(t)

	resp, err := client.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", decodeEnvelope(t, resp)["success"])
}

func TestFormPages(t *testing.T) {
	ts, client := setupTestServer(t)

	for _, path := range []string{"/register", "/login"} {
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, readBody(t, resp), "<form")
	}

	// Logged-in users are bounced from the auth forms
	registerAndLogin(t, ts, client, "alice", "secret")
	for _, path := range []string{"/register", "/login"} {
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusFound, resp.StatusCode)
		require.Equal(t, "/", resp.Header.Get("Location"))
	}
}
