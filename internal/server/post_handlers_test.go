package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/funkydonkey/fatherhood-is/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest), "body: %s", raw)
}

func TestGeneratePostImage(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	resp, err := app.Test(jsonRequest(t, "POST", "/api/posts/generate", fiber.Map{
		"text":        "building the tallest lego tower together",
		"author_name": "Sam",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		ImageURL   string  `json:"image_url"`
		PreviewURL string  `json:"preview_url"`
		Text       string  `json:"text"`
		AuthorName *string `json:"author_name"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.ImageURL)
	assert.Equal(t, "building the tallest lego tower together", body.Text)
	require.NotNil(t, body.AuthorName)
	assert.Equal(t, "Sam", *body.AuthorName)
}

func TestGeneratePostImageRejectsInvalidText(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	resp, err := app.Test(jsonRequest(t, "POST", "/api/posts/generate", fiber.Map{
		"text": "ab",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, models.CodeValidation, body.Code)
}

func TestGenerateRateLimitExhaustion(t *testing.T) {
	// The 11th generate request from one IP is rejected with a reset_at
	// timestamp; requests from another IP still pass.
	app, _, _ := newTestApp(t, testConfig())

	payload := fiber.Map{"text": "a bedtime story every single night"}
	for i := 0; i < 10; i++ {
		req := jsonRequest(t, "POST", "/api/posts/generate", payload)
		req.Header.Set("X-Forwarded-For", "203.0.113.77")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d", i+1)
	}

	req := jsonRequest(t, "POST", "/api/posts/generate", payload)
	req.Header.Set("X-Forwarded-For", "203.0.113.77")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		ResetAt string `json:"reset_at"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Rate limit exceeded", body.Error)
	resetAt, err := time.Parse(time.RFC3339, body.ResetAt)
	require.NoError(t, err)
	assert.True(t, resetAt.After(time.Now()))

	other := jsonRequest(t, "POST", "/api/posts/generate", payload)
	other.Header.Set("X-Forwarded-For", "198.51.100.9")
	resp, err = app.Test(other, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreatePost(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	resp, err := app.Test(jsonRequest(t, "POST", "/api/posts", fiber.Map{
		"text":      "waiting at the bus stop in the rain",
		"image_url": "https://cdn.test/a.png",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "waiting at the bus stop in the rain", post.Text)
	assert.True(t, post.IsPublished)
}

func TestCreatePostRequiresImageURL(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	resp, err := app.Test(jsonRequest(t, "POST", "/api/posts", fiber.Map{
		"text": "missing the image url",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetPostsPagination(t *testing.T) {
	app, _, db := newTestApp(t, testConfig())

	for i := 0; i < 45; i++ {
		seedPost(t, db, fmt.Sprintf("numbered post %d for paging", i))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/posts?page=3&limit=20", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Posts      []models.Post     `json:"posts"`
		Pagination models.Pagination `json:"pagination"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Posts, 5)
	assert.Equal(t, 3, body.Pagination.Page)
	assert.Equal(t, int64(45), body.Pagination.Total)
	assert.Equal(t, 3, body.Pagination.Pages)
}

func TestGetPostsRejectsBadParams(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	for _, target := range []string{
		"/api/posts?page=0",
		"/api/posts?limit=51",
		"/api/posts?sort=trending",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestGetPost(t *testing.T) {
	app, _, db := newTestApp(t, testConfig())
	post := seedPost(t, db, "found by its identifier")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/posts/"+post.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/posts/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
