package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethgrid/pester"

	"boscoin.io/obscura/lib/common/observer"
	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/node"
	"boscoin.io/obscura/lib/transaction"
)

const (
	UrlPrefixForAPIV1 = "/api/v1"

	UrlVoter              = "/voters/{address}"
	UrlProposals          = "/proposals"
	UrlProposal           = "/proposals/{id}"
	UrlProposalVotes      = "/proposals/{id}/votes"
	UrlProposalVoter      = "/proposals/{id}/voters/{address}"
	UrlProposalDecryption = "/proposals/{id}/decryption"
	UrlAccountSequence    = "/accounts/{address}/sequence"
	UrlTransactions       = "/transactions"
	UrlTransactionByHash  = "/transactions/{hash}"
	UrlEvents             = "/events"
)

type QueryKey string

func (qk QueryKey) String() string {
	return string(qk)
}

const (
	QueryLimit   QueryKey = "limit"
	QueryReverse QueryKey = "reverse"
	QueryCursor  QueryKey = "cursor"
	QueryTopic   QueryKey = "topic"
)

type Q struct {
	Key   QueryKey
	Value string
}

type Queries []Q

func (qs Queries) toQueryString() string {
	if len(qs) == 0 {
		return ""
	}

	urlValues := neturl.Values{}
	for _, q := range qs {
		switch q.Key {
		case QueryLimit, QueryReverse, QueryCursor, QueryTopic:
			urlValues.Add(q.Key.String(), q.Value)
		}
	}
	return "?" + urlValues.Encode()
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type RetrySetting struct {
	MaxRetries  int
	Concurrency int
	Backoff     pester.BackoffStrategy
}

var DefaultRetrySetting = RetrySetting{
	MaxRetries:  3,
	Concurrency: 1,
	Backoff:     pester.ExponentialBackoff,
}

type Client struct {
	URL string

	HTTP HTTPDoer
}

// NewClient makes a client for the node at url. With retrySetting, failed
// requests and 5xx responses are retried by pester.
func NewClient(url string, timeout time.Duration, retrySetting *RetrySetting) *Client {
	httpClient := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // NOTE prevent redirect
		},
	}

	var doer HTTPDoer = httpClient
	if retrySetting != nil {
		ec := pester.NewExtendedClient(httpClient)
		{
			ec.MaxRetries = retrySetting.MaxRetries
			ec.Concurrency = retrySetting.Concurrency
			ec.Backoff = retrySetting.Backoff
		}
		doer = ec
	}

	return &Client{
		URL:  strings.TrimRight(url, "/"),
		HTTP: doer,
	}
}

func expand(pattern string, kv ...string) string {
	for i := 0; i+1 < len(kv); i += 2 {
		pattern = strings.Replace(pattern, "{"+kv[i]+"}", neturl.PathEscape(kv[i+1]), -1)
	}
	return pattern
}

func (c *Client) toResponse(resp *http.Response, response interface{}) (err error) {
	defer resp.Body.Close()
	decoder := json.NewDecoder(resp.Body)

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p httputils.Problem
		if err = decoder.Decode(&p); err != nil {
			return fmt.Errorf("unexpected response: status=%d: %v", resp.StatusCode, err)
		}
		return &Error{Problem: p}
	}

	return decoder.Decode(response)
}

func (c *Client) do(method, path string, body []byte, headers http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequest(method, c.URL+UrlPrefixForAPIV1+path, reader)
	if err != nil {
		return nil, err
	}
	if headers != nil {
		request.Header = headers
	}

	return c.HTTP.Do(request)
}

func (c *Client) Get(path string, headers http.Header) (*http.Response, error) {
	return c.do("GET", path, nil, headers)
}

func (c *Client) Post(path string, body []byte, headers http.Header) (*http.Response, error) {
	return c.do("POST", path, body, headers)
}

func (c *Client) getJSON(path string, response interface{}) error {
	resp, err := c.Get(path, http.Header{"Accept": []string{"application/json"}})
	if err != nil {
		return err
	}
	return c.toResponse(resp, response)
}

func (c *Client) GetNodeInfo() (info node.NodeInfo, err error) {
	err = c.getJSON("/", &info)
	return
}

func (c *Client) GetVoter(address string) (v Voter, err error) {
	err = c.getJSON(expand(UrlVoter, "address", address), &v)
	return
}

func (c *Client) GetSequence(address string) (s Sequence, err error) {
	err = c.getJSON(expand(UrlAccountSequence, "address", address), &s)
	return
}

func (c *Client) GetProposals(queries ...Q) (page ProposalsPage, err error) {
	err = c.getJSON(UrlProposals+Queries(queries).toQueryString(), &page)
	return
}

func (c *Client) GetProposal(id uint64) (p Proposal, err error) {
	err = c.getJSON(expand(UrlProposal, "id", strconv.FormatUint(id, 10)), &p)
	return
}

func (c *Client) GetEncryptedVotes(id uint64) (ev EncryptedVotes, err error) {
	err = c.getJSON(expand(UrlProposalVotes, "id", strconv.FormatUint(id, 10)), &ev)
	return
}

func (c *Client) HasVoted(id uint64, address string) (voted bool, err error) {
	var h HasVoted
	err = c.getJSON(expand(UrlProposalVoter, "id", strconv.FormatUint(id, 10), "address", address), &h)
	return h.Voted, err
}

func (c *Client) GetDecryption(id uint64) (d DecryptionRequest, err error) {
	err = c.getJSON(expand(UrlProposalDecryption, "id", strconv.FormatUint(id, 10)), &d)
	return
}

func (c *Client) GetTransaction(hash string) (t TransactionStatus, err error) {
	err = c.getJSON(expand(UrlTransactionByHash, "hash", hash), &t)
	return
}

// SubmitTransaction posts a signed transaction. A transaction the ledger
// rejected comes back as `*Error`.
func (c *Client) SubmitTransaction(tx transaction.Transaction) (t TransactionStatus, err error) {
	body, err := tx.Serialize()
	if err != nil {
		return
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	resp, err := c.Post(UrlTransactions, body, headers)
	if err != nil {
		return
	}
	err = c.toResponse(resp, &t)
	return
}

// StreamEvents calls handler for each ledger event until ctx is done or the
// connection is closed. Without topics every event is streamed.
func (c *Client) StreamEvents(ctx context.Context, topics []string, handler func(observer.Event)) error {
	path := UrlEvents
	if len(topics) > 0 {
		path += Queries{{Key: QueryTopic, Value: strings.Join(topics, ",")}}.toQueryString()
	}

	request, err := http.NewRequest("GET", c.URL+UrlPrefixForAPIV1+path, nil)
	if err != nil {
		return err
	}
	request = request.WithContext(ctx)
	request.Header.Set("Accept", "text/event-stream")

	// the stream never ends by itself, so it does not go through the
	// retrying client.
	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return c.toResponse(resp, nil)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = bytes.TrimSpace(line)
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}

		var e observer.Event
		if err := json.Unmarshal(bytes.TrimSpace(line[len("data:"):]), &e); err != nil {
			return err
		}
		handler(e)
	}
}
