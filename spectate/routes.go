package spectate

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/matryer/way"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	URIWebSocket = "/ws"
	URIState     = "/state"

	// ContentTypeMsgpack asks /state for a binary frame instead of JSON.
	ContentTypeMsgpack = "application/msgpack"
)

// Routes serves the websocket stream and the latest frame.
func (h *Hub) Routes() *way.Router {
	router := way.NewRouter()
	router.HandleFunc("GET", URIWebSocket, h.ServeWS)
	router.HandleFunc("GET", URIState, h.serveState)
	return router
}

func (h *Hub) serveState(w http.ResponseWriter, r *http.Request) {
	f, ok := h.LatestFrame()
	if !ok {
		http.Error(w, "no stage running", http.StatusNotFound)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack) {
		data, err := MarshalMsgpack(f)
		if err != nil {
			h.log.WithError(err).Warn("spectate: msgpack frame")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.Write(data)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(h.Latest())
}

// MarshalMsgpack encodes f with the same field names as its JSON form.
func MarshalMsgpack(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack decodes a frame written by MarshalMsgpack.
func UnmarshalMsgpack(data []byte) (Frame, error) {
	var f Frame
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&f)
	return f, err
}
