package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/obscura/lib/common/observer"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/httputils"
)

const DefaultContentType = "text/event-stream"

// GetEventsHandler streams the ledger events. `topic` selects the topics,
// separated by comma; every event is sent without it.
func (api NetworkHandlerAPI) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.IsEventStream(r) {
		httputils.WriteJSONError(w, errors.NotEventStream)
		return
	}

	topics := []string{observer.All}
	if t := r.URL.Query().Get("topic"); len(t) > 0 {
		topics = strings.Split(t, ",")
	}

	es := NewDefaultEventStream(w, r)
	es.Run(observer.LedgerObserver, topics...)
}

// EventStream writes the payloads triggered on an observable as chunks.
type EventStream struct {
	contentType string
	renderFunc  RenderFunc
	request     *http.Request
	writer      http.ResponseWriter
	flusher     http.Flusher
	err         error
	stop        chan struct{}
}

type RenderFunc func(args ...interface{}) ([]byte, error)

var RenderJSONFunc = func(args ...interface{}) ([]byte, error) {
	if len(args) < 1 || args[0] == nil {
		return nil, fmt.Errorf("render: value is empty")
	}
	return json.Marshal(args[0])
}

func NewDefaultEventStream(w http.ResponseWriter, r *http.Request) *EventStream {
	return NewEventStream(w, r, RenderJSONFunc, DefaultContentType)
}

// NewEventStream makes *EventStream and checks http.Flusher by type assertion.
func NewEventStream(w http.ResponseWriter, r *http.Request, renderFunc RenderFunc, ct string) *EventStream {
	es := &EventStream{
		request:     r,
		writer:      w,
		renderFunc:  renderFunc,
		contentType: ct,
		stop:        make(chan struct{}),
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		es.err = fmt.Errorf("http: can't do chunked response")
	} else {
		es.flusher = flusher
	}

	return es
}

// Run observes events until the request is canceled.
func (s *EventStream) Run(ob *observable.Observable, events ...string) {
	s.Start(ob, events...)()
}

// Start subscribes to events and returns the function that writes them.
func (s *EventStream) Start(ob *observable.Observable, events ...string) func() {
	if s.err != nil {
		http.Error(s.writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return func() {}
	}

	event := strings.Join(events, " ")
	msg := make(chan []byte)

	onFunc := func(args ...interface{}) {
		payload, err := s.renderFunc(args...)
		if err != nil {
			payload = s.errMessage(err)
		}

		select {
		case msg <- payload:
		case <-s.stop:
		}
	}
	ob.On(event, onFunc)

	s.writer.Header().Set("Content-Type", s.contentType)
	s.writer.WriteHeader(http.StatusOK)
	s.flusher.Flush()

	return func() {
		defer ob.Off(event, onFunc)

		for {
			select {
			case payload := <-msg:
				fmt.Fprintf(s.writer, "data: %s\n\n", payload)
				s.flusher.Flush()
			case <-s.request.Context().Done():
				close(s.stop)
				return
			}
		}
	}
}

func (s *EventStream) errMessage(err error) []byte {
	p := httputils.NewErrorProblem(err, httputils.StatusCode(err))
	b, err := json.Marshal(p)
	if err != nil {
		b = []byte{}
	}
	return b
}
