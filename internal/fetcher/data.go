package fetcher

import (
	"net/url"
	"time"
)

// HTTP boundary

const (
	DefaultMaxRetries = 3
	DefaultTimeout    = 15 * time.Second
)

type FetchParam struct {
	fetchUrl   url.URL
	params     map[string]string
	headers    map[string]string
	maxRetries int
	timeout    time.Duration
}

// NewFetchParam leaves the attempt budget and timeout unset; the fetcher
// fills them from its configured defaults unless WithMaxRetries or
// WithTimeout override them for this call.
func NewFetchParam(fetchUrl url.URL, params map[string]string, headers map[string]string) FetchParam {
	return FetchParam{
		fetchUrl: fetchUrl,
		params:   params,
		headers:  headers,
	}
}

func (p FetchParam) WithMaxRetries(maxRetries int) FetchParam {
	p.maxRetries = maxRetries
	return p
}

func (p FetchParam) WithTimeout(timeout time.Duration) FetchParam {
	p.timeout = timeout
	return p
}

func (p FetchParam) URL() url.URL {
	return p.fetchUrl
}

func (p FetchParam) Params() map[string]string {
	return p.params
}

func (p FetchParam) MaxRetries() int {
	return p.maxRetries
}

func (p FetchParam) Timeout() time.Duration {
	return p.timeout
}

type FetchResult struct {
	url  url.URL
	body []byte
	meta ResponseMeta
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) SizeByte() uint64 {
	return f.meta.transferredSizeByte
}

func (f *FetchResult) Headers() map[string]string {
	return f.meta.responseHeaders
}

type ResponseMeta struct {
	statusCode          int
	transferredSizeByte uint64
	responseHeaders     map[string]string
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	statusCode int,
	responseHeaders map[string]string,
) FetchResult {
	return FetchResult{
		url:  url,
		body: body,
		meta: ResponseMeta{
			statusCode:          statusCode,
			transferredSizeByte: uint64(len(body)),
			responseHeaders:     responseHeaders,
		},
	}
}
