package httputils

import (
	"fmt"
	"net/http"

	"boscoin.io/obscura/lib/errors"
)

const ProblemTypeBase = "https://boscoin.io/obscura/problems/"

// Problem follows RFC 7807.
type Problem struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Kind     errors.Kind            `json:"kind,omitempty"`
	Code     uint                   `json:"code,omitempty"`
	Extras   map[string]interface{} `json:"extras,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
	}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

func NewErrorProblem(err error, status int) Problem {
	e, ok := err.(*errors.Error)
	if !ok {
		return NewDetailedStatusProblem(status, err.Error())
	}

	p := Problem{
		Type:   fmt.Sprintf("%s%d", ProblemTypeBase, e.Code),
		Title:  e.Message,
		Status: status,
		Kind:   e.Kind,
		Code:   e.Code,
	}
	if len(e.Data) > 0 {
		p.Extras = e.Data
	}

	return p
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}

func (p Problem) Error() string {
	if len(p.Detail) > 0 {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}
