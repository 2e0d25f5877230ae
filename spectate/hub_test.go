package spectate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilepush/game"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
)

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func runningGame(t *testing.T) *game.Game {
	t.Helper()
	g := game.New(prefabs.DefaultTuning(), quietLogger())
	require.NoError(t, g.Load([]obj.Descriptor{
		{GID: obj.GIDPlayer, X: 2, Y: 13, W: 1, H: 1},
		{GID: obj.GIDBlock, X: 0, Y: 14, W: 16, H: 1},
	}))
	return g
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	server := httptest.NewServer(hub.Routes())
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + URIWebSocket
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestStateBeforePublish(t *testing.T) {
	_, server := startHub(t)
	resp, err := http.Get(server.URL + URIState)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublishReachesSpectators(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	g := runningGame(t)
	_, err := g.Tick(input.Snapshot{Held: input.Set(input.Right)})
	require.NoError(t, err)
	require.NoError(t, hub.Publish(FrameOf(g)))

	f := readFrame(t, conn)
	assert.Equal(t, 1, f.Tick)
	assert.Equal(t, "running", f.Status)
	require.Len(t, f.Objects, 2)
	assert.Equal(t, "player", f.Objects[0].Kind)
	assert.InDelta(t, 2.08, f.Objects[0].X, 1e-9)

	resp, err := http.Get(server.URL + URIState)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, f, state)
}

func TestStateAsMsgpack(t *testing.T) {
	hub, server := startHub(t)
	g := runningGame(t)
	_, err := g.Tick(input.Snapshot{Held: input.Set(input.Right)})
	require.NoError(t, err)
	require.NoError(t, hub.Publish(FrameOf(g)))

	req, err := http.NewRequest(http.MethodGet, server.URL+URIState, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", ContentTypeMsgpack)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ContentTypeMsgpack, resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	got, err := UnmarshalMsgpack(data)
	require.NoError(t, err)
	want, ok := hub.LatestFrame()
	require.True(t, ok)
	assert.Equal(t, want.Run, got.Run)
	assert.Equal(t, 1, got.Tick)
	require.Len(t, got.Objects, 2)
	assert.Equal(t, want.Objects[0].Kind, got.Objects[0].Kind)
	assert.InDelta(t, want.Objects[0].X, got.Objects[0].X, 1e-9)
}

func TestLateJoinerGetsLatestFrame(t *testing.T) {
	hub, server := startHub(t)
	g := runningGame(t)
	require.NoError(t, hub.Publish(FrameOf(g)))

	conn := dial(t, server)
	f := readFrame(t, conn)
	assert.Equal(t, 0, f.Tick)
	assert.Len(t, f.Objects, 2)
}

func latestFrame(t *testing.T, hub *Hub) Frame {
	t.Helper()
	var f Frame
	require.NoError(t, json.Unmarshal(hub.Latest(), &f))
	return f
}

func TestRunChangesOnReload(t *testing.T) {
	hub := NewHub(quietLogger())
	g := runningGame(t)

	for range 2 {
		_, err := g.Tick(input.Snapshot{})
		require.NoError(t, err)
	}
	require.NoError(t, hub.Publish(FrameOf(g)))
	first := latestFrame(t, hub).Run
	require.NotEmpty(t, first)

	_, err := g.Tick(input.Snapshot{})
	require.NoError(t, err)
	require.NoError(t, hub.Publish(FrameOf(g)))
	assert.Equal(t, first, latestFrame(t, hub).Run)

	require.NoError(t, g.Reload())
	_, err = g.Tick(input.Snapshot{})
	require.NoError(t, err)
	require.NoError(t, hub.Publish(FrameOf(g)))
	f := latestFrame(t, hub)
	assert.Equal(t, 1, f.Tick)
	assert.NotEqual(t, first, f.Run)
}

func TestSpectatorLeaves(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}
