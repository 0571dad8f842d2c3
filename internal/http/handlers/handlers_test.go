package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/service"
	"github.com/ignatzorin/campus-market/internal/ws"
)

func newHealthDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func TestHealthHandler_Healthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newHealthDB(t)
	mock.ExpectPing()

	r := gin.New()
	r.GET("/health", NewHealthHandler(db, ws.NewHub()).Health)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy (postgres)", resp.Checks["database"])
	require.NotNil(t, resp.Online)
	assert.Equal(t, 0, *resp.Online)
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newHealthDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	r := gin.New()
	r.GET("/health", NewHealthHandler(db, nil).Health)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestWSHandler_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/ws", NewWSHandler(ws.NewHub(), service.NewTokenManager("secret", time.Hour), nil).Handle)

	req, _ := http.NewRequest(http.MethodGet, "/api/ws", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSHandler_RejectsInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/ws", NewWSHandler(ws.NewHub(), service.NewTokenManager("secret", time.Hour), nil).Handle)

	req, _ := http.NewRequest(http.MethodGet, "/api/ws?token=garbage", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSHandler_DeliversUserEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Discard()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub()
	go hub.Run(ctx)

	tokens := service.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.GET("/api/ws", NewWSHandler(hub, tokens, nil).Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()

	userID := uuid.New()
	token, _, err := tokens.Issue(userID, "user")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Online(userID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.BroadcastToUser(uuid.New(), "notification", map[string]string{"title": "чужое"}))
	require.NoError(t, hub.BroadcastToUser(userID, "notification", map[string]string{"title": "Заказ оплачен"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "Заказ оплачен", msg.Data["title"])
}
