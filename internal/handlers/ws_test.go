package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func dialWebSocket(t *testing.T, serverURL, token string, userID uint) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(serverURL, "http://", "ws://", 1) + fmt.Sprintf("/api/ws/%d", userID)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Origin", "http://localhost:3000")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}

	var welcome map[string]string
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("failed to read welcome message: %v", err)
	}

	return conn
}

func TestWebSocketConcurrentBroadcasts(t *testing.T) {
	assert := assert.New(t)

	userID, token := registerUser(t, "ws-concurrent@example.com")

	server := httptest.NewServer(testRouter)
	defer server.Close()

	first := dialWebSocket(t, server.URL, token, userID)
	defer first.Close()

	second := dialWebSocket(t, server.URL, token, userID)
	defer second.Close()

	const writes = 5

	statuses := make(chan int, writes)

	for i := 0; i < writes; i++ {
		go func(n int) {
			recorder := doRequest(t, http.MethodPost, "/api/grapes", token, map[string]interface{}{
				"userId": userID,
				"gentle": fmt.Sprintf("burst %d", n),
			})
			statuses <- recorder.Code
		}(i)
	}

	for i := 0; i < writes; i++ {
		assert.Equal(http.StatusCreated, <-statuses)
	}

	// Every open socket sees every refresh, with no interleaved frames
	for _, conn := range []*websocket.Conn{first, second} {
		for i := 0; i < writes; i++ {
			var msg map[string]string
			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			if !assert.NoError(conn.ReadJSON(&msg)) {
				return
			}
			assert.Equal("refresh", msg["type"])
		}
	}
}

func TestWebSocketRefreshOnEntryCreate(t *testing.T) {
	assert := assert.New(t)

	userID, token := registerUser(t, "ws-refresh@example.com")

	server := httptest.NewServer(testRouter)
	defer server.Close()

	conn := dialWebSocket(t, server.URL, token, userID)
	defer conn.Close()

	createGrapesEntry(t, token, map[string]interface{}{
		"userId": userID,
		"gentle": "ws trigger",
	})

	var refresh map[string]string
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	assert.NoError(conn.ReadJSON(&refresh))
	assert.Equal("refresh", refresh["type"])
	assert.Equal(fmt.Sprint(userID), refresh["userId"])
}
