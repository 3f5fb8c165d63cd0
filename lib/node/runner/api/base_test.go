package api

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/ledger"
)

func prepareAPIServer() (*httptest.Server, *ledger.TestLedger, *NetworkHandlerAPI) {
	l := ledger.NewTestLedger()
	apiHandler, err := NewNetworkHandlerAPI(l.Ledger, "", 100)
	if err != nil {
		panic(err)
	}

	router := mux.NewRouter()
	router.HandleFunc(GetNodeInfoPattern, apiHandler.NodeInfoHandler).Methods("GET")
	router.HandleFunc(GetVotersHandlerPattern, apiHandler.GetVotersHandler).Methods("GET")
	router.HandleFunc(GetVoterHandlerPattern, apiHandler.GetVoterHandler).Methods("GET")
	router.HandleFunc(GetProposalsHandlerPattern, apiHandler.GetProposalsHandler).Methods("GET")
	router.HandleFunc(GetProposalHandlerPattern, apiHandler.GetProposalHandler).Methods("GET")
	router.HandleFunc(GetProposalVotesHandlerPattern, apiHandler.GetProposalVotesHandler).Methods("GET")
	router.HandleFunc(GetProposalReceiptsHandlerPattern, apiHandler.GetProposalReceiptsHandler).Methods("GET")
	router.HandleFunc(GetProposalVoterHandlerPattern, apiHandler.GetProposalVoterHandler).Methods("GET")
	router.HandleFunc(GetProposalDecryptionHandlerPattern, apiHandler.GetProposalDecryptionHandler).Methods("GET")
	router.HandleFunc(GetAccountSequenceHandlerPattern, apiHandler.GetAccountSequenceHandler).Methods("GET")
	router.HandleFunc(PostTransactionPattern, apiHandler.PostTransactionsHandler).Methods("POST")
	router.HandleFunc(GetTransactionByHashHandlerPattern, apiHandler.GetTransactionByHashHandler).Methods("GET")
	router.HandleFunc(GetEventsHandlerPattern, apiHandler.GetEventsHandler).Methods("GET")

	ts := httptest.NewServer(router)
	return ts, l, apiHandler
}

func expandPattern(pattern string, kv ...string) string {
	for i := 0; i+1 < len(kv); i += 2 {
		pattern = strings.Replace(pattern, "{"+kv[i]+"}", kv[i+1], -1)
	}
	return pattern
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	return readJSON(t, resp)
}

func postJSON(t *testing.T, url string, body []byte) (int, map[string]interface{}) {
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	return readJSON(t, resp)
}

func readJSON(t *testing.T, resp *http.Response) (int, map[string]interface{}) {
	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m), string(b))

	return resp.StatusCode, m
}

func records(m map[string]interface{}) []interface{} {
	embedded, ok := m["_embedded"].(map[string]interface{})
	if !ok {
		return nil
	}
	rs, _ := embedded["records"].([]interface{})
	return rs
}
