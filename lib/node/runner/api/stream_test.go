package api

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/common/observer"
)

func TestGetEventsHandler(t *testing.T) {
	ts, l, _ := prepareAPIServer()
	defer ts.Close()
	defer l.Storage().Close()

	req, err := http.NewRequest("GET", ts.URL+GetEventsHandlerPattern+"?topic="+observer.VoterRegistered, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	address := keypair.Random().Address()
	_, err = l.Register(l.Owner(), address)
	require.NoError(t, err)

	// the registration of the owner may still be on its way
	reader := bufio.NewReader(resp.Body)
	var found bool
	for i := 0; i < 8 && !found; i++ {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if len(strings.TrimSpace(line)) < 1 {
			continue
		}
		require.True(t, strings.HasPrefix(line, "data: "))

		var e observer.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &e))
		require.Equal(t, observer.VoterRegistered, e.Topic)
		found = e.Data["voter"] == address
	}
	require.True(t, found)
}

func TestGetEventsHandlerNotEventStream(t *testing.T) {
	ts, l, _ := prepareAPIServer()
	defer ts.Close()
	defer l.Storage().Close()

	status, m := getJSON(t, ts.URL+GetEventsHandlerPattern)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "encoding", m["kind"])
}
