package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyviewlabs/skyview-api/internal/catalog"
	"github.com/skyviewlabs/skyview-api/internal/ephemeris"
	"github.com/skyviewlabs/skyview-api/internal/sky"
)

const testCatalogJSON = `[
	{"name": "Sirius", "ra": 6.752481, "dec": -16.716116, "mag": -1.46},
	{"name": "Vega", "ra": 18.615649, "dec": 38.783692, "mag": 0.03},
	{"name": "Polaris", "ra": 2.530301, "dec": 89.264109, "mag": 1.98}
]`

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	dir := t.TempDir()

	catPath := filepath.Join(dir, "star_catalog.json")
	require.NoError(t, os.WriteFile(catPath, []byte(testCatalogJSON), 0o644))

	svc := sky.NewService(
		catalog.NewStore(catPath),
		catalog.NewBoundaries(filepath.Join(dir, "iau_boundaries.json")),
		ephemeris.NewMeeusProvider(),
	)
	return NewHub(svc)
}

func dial(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	// The write pump batches newline-separated messages; take the first
	if i := strings.IndexByte(string(raw), '\n'); i >= 0 {
		raw = raw[:i]
	}

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHubWelcomeAndPing(t *testing.T) {
	hub := newTestHub(t)
	conn, done := dial(t, hub)
	defer done()

	welcome := readMessage(t, conn)
	assert.Equal(t, EventConnectionEstablished, welcome.Type)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	pong := readMessage(t, conn)
	assert.Equal(t, EventPong, pong.Type)
}

func TestHubSubscribePushesFrame(t *testing.T) {
	hub := newTestHub(t)
	conn, done := dial(t, hub)
	defer done()

	welcome := readMessage(t, conn)
	require.Equal(t, EventConnectionEstablished, welcome.Type)

	sub, err := json.Marshal(Subscription{Lat: 19.4326, Lon: -99.1332, IntervalS: 60})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Type: "subscribe", Data: sub}))

	frame := readMessage(t, conn)
	require.Equal(t, EventSkyFrame, frame.Type)

	var snapshot SkyFrame
	require.NoError(t, json.Unmarshal(frame.Data, &snapshot))
	assert.NotEmpty(t, snapshot.At)
	assert.Len(t, snapshot.Bodies, 9)
	for _, st := range snapshot.Stars {
		assert.GreaterOrEqual(t, st.Altitude, 0.0)
	}
}

func TestHubClientCount(t *testing.T) {
	hub := newTestHub(t)
	assert.Equal(t, 0, hub.ClientCount())

	conn, done := dial(t, hub)
	readMessage(t, conn)
	assert.Equal(t, 1, hub.ClientCount())

	done()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 5*time.Second, 50*time.Millisecond)
}
