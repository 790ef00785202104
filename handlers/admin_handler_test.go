package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwhitmore/portfolio-backend/middleware"
	"github.com/jwhitmore/portfolio-backend/types"
)

const testAdminToken = "test-admin-token-0123456789"

func setupAdminRouter(store *MockMessageStore) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewAdminHandler(store)
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth(testAdminToken))
	admin.GET("/messages", h.ListMessages)
	return r
}

func getMessages(r *gin.Engine, url, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func unmarshalBody(w *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func storedMessages(n int) []types.Message {
	msgs := make([]types.Message, n)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range msgs {
		msgs[i] = types.Message{
			ID:        int64(n - i),
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Body:      "Hello",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return msgs
}

func TestListMessages_NoAuthHeader(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	w := getMessages(r, "/api/admin/messages", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "Unauthorized"}`, w.Body.String())
	store.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything, mock.Anything)
}

func TestListMessages_MalformedAuthHeader(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	w := getMessages(r, "/api/admin/messages", "Token "+testAdminToken)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "Unauthorized"}`, w.Body.String())
}

func TestListMessages_WrongToken(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	w := getMessages(r, "/api/admin/messages", "Bearer wrong")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error": "Forbidden"}`, w.Body.String())
}

func TestListMessages_Pagination(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	page := storedMessages(25)[10:20]
	store.On("ListMessages", mock.Anything, 10, 10).Return(page, nil)
	store.On("CountMessages", mock.Anything).Return(25, nil)

	w := getMessages(r, "/api/admin/messages?page=2&limit=10", "Bearer "+testAdminToken)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.MessagePage
	require.NoError(t, unmarshalBody(w, &resp))

	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 25, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	require.Len(t, resp.Messages, 10)
	// Newest-first ordering comes from the store; row 11 leads page 2.
	assert.Equal(t, int64(15), resp.Messages[0].ID)
}

func TestListMessages_DefaultsOnJunkParams(t *testing.T) {
	cases := []string{
		"/api/admin/messages",
		"/api/admin/messages?page=abc&limit=xyz",
		"/api/admin/messages?page=0&limit=-5",
	}
	for _, url := range cases {
		t.Run(url, func(t *testing.T) {
			store := new(MockMessageStore)
			r := setupAdminRouter(store)

			store.On("ListMessages", mock.Anything, 20, 0).Return([]types.Message{}, nil)
			store.On("CountMessages", mock.Anything).Return(0, nil)

			w := getMessages(r, url, "Bearer "+testAdminToken)

			require.Equal(t, http.StatusOK, w.Code)
			store.AssertCalled(t, "ListMessages", mock.Anything, 20, 0)
		})
	}
}

func TestListMessages_LimitCapped(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	store.On("ListMessages", mock.Anything, 100, 0).Return([]types.Message{}, nil)
	store.On("CountMessages", mock.Anything).Return(0, nil)

	w := getMessages(r, "/api/admin/messages?limit=500", "Bearer "+testAdminToken)

	require.Equal(t, http.StatusOK, w.Code)
	store.AssertCalled(t, "ListMessages", mock.Anything, 100, 0)
}

func TestListMessages_EmptyStore(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	store.On("ListMessages", mock.Anything, 20, 0).Return(nil, nil)
	store.On("CountMessages", mock.Anything).Return(0, nil)

	w := getMessages(r, "/api/admin/messages", "Bearer "+testAdminToken)

	require.Equal(t, http.StatusOK, w.Code)
	// A nil slice must serialize as an empty array, not null.
	assert.Contains(t, w.Body.String(), `"messages":[]`)
}

func TestListMessages_StoreFailure(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	store.On("ListMessages", mock.Anything, 20, 0).Return(nil, assert.AnError)

	w := getMessages(r, "/api/admin/messages", "Bearer "+testAdminToken)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Failed to fetch messages"}`, w.Body.String())
}

func TestListMessages_CountFailure(t *testing.T) {
	store := new(MockMessageStore)
	r := setupAdminRouter(store)

	store.On("ListMessages", mock.Anything, 20, 0).Return([]types.Message{}, nil)
	store.On("CountMessages", mock.Anything).Return(0, assert.AnError)

	w := getMessages(r, "/api/admin/messages", "Bearer "+testAdminToken)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Failed to fetch messages"}`, w.Body.String())
}
