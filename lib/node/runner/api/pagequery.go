package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/node/runner/api/resource"
	"boscoin.io/obscura/lib/storage"
)

const (
	DefaultLimit uint64 = 20
	MaxLimit     uint64 = 100
)

// PageQuery reads `cursor`, `limit` and `reverse` from the request. Cursors
// are storage keys, base64 encoded in links.
type PageQuery struct {
	request *http.Request
	cursor  []byte
	reverse bool
	limit   uint64
}

type PageQueryOption func(*PageQuery)

func WithDefaultReverse(ok bool) PageQueryOption {
	return func(p *PageQuery) {
		p.reverse = ok
	}
}

func NewPageQuery(r *http.Request, opts ...PageQueryOption) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   DefaultLimit,
	}
	for _, o := range opts {
		o(p)
	}
	err := p.parseRequest()
	return p, err
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) Cursor() []byte {
	return p.cursor
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) PrevLink(cursor []byte) string {
	return fmt.Sprintf("%s?%s", p.request.URL.Path, p.urlValues(cursor, !p.reverse).Encode())
}

func (p *PageQuery) NextLink(cursor []byte) string {
	return fmt.Sprintf("%s?%s", p.request.URL.Path, p.urlValues(cursor, p.reverse).Encode())
}

func (p *PageQuery) ListOptions() storage.ListOptions {
	return storage.NewDefaultListOptions(p.Reverse(), p.Cursor(), p.Limit())
}

// ResourceList links `next` after the last record and `prev` before the
// first one.
func (p *PageQuery) ResourceList(rs []resource.Resource, firstCursor, lastCursor []byte) *resource.ResourceList {
	return resource.NewResourceList(rs, p.SelfLink(), p.NextLink(lastCursor), p.PrevLink(firstCursor))
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()
	if r := q.Get("reverse"); r != "" {
		reverse, err := common.ParseBoolQueryString(r)
		if err != nil {
			return err
		}
		p.reverse = reverse
	}

	if c := q.Get("cursor"); c != "" {
		bs, err := base64.URLEncoding.DecodeString(c)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("cursor", c)
		}
		p.cursor = bs
	}

	if l := q.Get("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("limit", l)
		}
		if limit > MaxLimit {
			return errors.PageQueryLimitMaxExceed.Clone().SetData("max", MaxLimit)
		}
		p.limit = limit
	}

	return nil
}

func (p PageQuery) urlValues(cursor []byte, reverse bool) url.Values {
	v := url.Values{
		"reverse": []string{strconv.FormatBool(reverse)},
	}

	if len(cursor) > 0 {
		v.Set("cursor", base64.URLEncoding.EncodeToString(cursor))
	}
	if p.limit > 0 {
		v.Set("limit", strconv.FormatUint(p.limit, 10))
	}

	return v
}
