package handlers

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// Each connection starts a ping goroutine; it must exit with the handler, or
// every disconnect leaks one.
func TestWebSocketStopsPingerOnDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ws/:department_id", WebSocket)

	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/1"
	header := http.Header{"Origin": []string{"http://localhost:3000"}}

	dialAndClose := func() {
		conn, _, err := websocket.DefaultDialer.Dial(url, header)
		require.NoError(t, err)

		var welcome map[string]interface{}
		require.NoError(t, conn.ReadJSON(&welcome))
		require.Equal(t, "connected", welcome["type"])

		require.NoError(t, conn.Close())
	}

	// First connection warms up the server; measure after it settles.
	dialAndClose()
	time.Sleep(100 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for i := 0; i < 8; i++ {
		dialAndClose()
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline+2
	}, 5*time.Second, 50*time.Millisecond, "ping goroutines survived their connections")
}
