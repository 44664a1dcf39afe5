// Package ddgSearch scrapes result pages from the DuckDuckGo lite endpoint.
//
// The lite HTML changes without notice; parsing only relies on the
// result-link and result-snippet classes and on the next-page form living in
// the first table of the page.
package ddgSearch

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

const (
	DEFAULT_BASE_URL   = "https://lite.duckduckgo.com/lite/"
	DEFAULT_USER_AGENT = "Joe's Giant Toolbox"
	maxBodyBytes       = 2 << 20
)

// Client is not safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	region     string
	waitMin    time.Duration
	waitMax    time.Duration
	rng        *rand.Rand
	sleep      func(context.Context, time.Duration) error
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }
func WithBaseURL(u string) Option           { return func(c *Client) { c.baseURL = u } }
func WithUserAgent(ua string) Option        { return func(c *Client) { c.userAgent = ua } }
func WithRegion(region string) Option       { return func(c *Client) { c.region = region } }
func WithRand(rng *rand.Rand) Option        { return func(c *Client) { c.rng = rng } }

// WithWait 翻页之间随机等待 [min, max]
func WithWait(lo, hi time.Duration) Option {
	return func(c *Client) { c.waitMin, c.waitMax = lo, hi }
}

// WithSleeper replaces the wait between pages, mainly for tests.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DEFAULT_BASE_URL,
		userAgent:  DEFAULT_USER_AGENT,
		waitMin:    2 * time.Second,
		waitMax:    4 * time.Second,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.waitMax < c.waitMin {
		c.waitMax = c.waitMin
	}
	return c
}

type Query struct {
	Text  string
	Site  string // 例如 https://www.linkedin.com/in，只搜该站点
	Pages int
}

type Hit struct {
	Page  int    `json:"page"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Link  string `json:"link"`
}

// PageLog 每次请求的记录
type PageLog struct {
	Page    int    `json:"page"`
	Query   string `json:"query"`
	Status  int    `json:"status"`
	Results int    `json:"results"`
}

type Result struct {
	Pages []PageLog `json:"pages"`
	Hits  []Hit     `json:"hits"`
}

// Search fetches up to q.Pages result pages. Paging stops early when a page
// is not 200 or carries no next-page form.
func (c *Client) Search(ctx context.Context, q Query, tr *trace.Log) (*Result, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, errorx.New(errCode.INVALID_VALUE, "query is empty")
	}
	if q.Pages < 1 {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "pages must be >= 1, got %d", q.Pages)
	}

	queryStr := q.Text
	if q.Site != "" {
		queryStr = q.Text + " site:" + q.Site
	}
	params := url.Values{"q": {queryStr}}
	if c.region != "" {
		params.Set("region", c.region)
	}

	res := &Result{}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errorx.Wrap(errorx.Newf(errCode.INVALID_VALUE, "%v", err), "build request")
	}
	pg, status, err := c.fetch(req)
	if err != nil {
		return nil, err
	}
	c.record(res, tr, 1, queryStr, status, pg)
	if status != http.StatusOK {
		return nil, errorx.Newf(errCode.UPSTREAM_FAILURE, "search page 1 returned status %d", status)
	}

	for page := 2; page <= q.Pages; page++ {
		if len(pg.nextForm) == 0 {
			tr.Add("no_next_page", "page", page)
			break
		}
		wait := c.waitFor()
		tr.Add("wait", "page", page, "seconds", wait.Seconds())
		if err := c.sleep(ctx, wait); err != nil {
			return res, err
		}

		form := url.Values{}
		for k, v := range params {
			form[k] = v
		}
		for k, v := range pg.nextForm {
			form.Set(k, v)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return res, errorx.Wrap(errorx.Newf(errCode.INVALID_VALUE, "%v", err), "build request")
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		pg, status, err = c.fetch(req)
		if err != nil {
			return res, err
		}
		c.record(res, tr, page, form.Get("q"), status, pg)
		if status != http.StatusOK {
			break
		}
	}
	return res, nil
}

func (c *Client) record(res *Result, tr *trace.Log, page int, query string, status int, pg *parsedPage) {
	n := 0
	if pg != nil {
		n = len(pg.hits)
		for _, h := range pg.hits {
			h.Page = page
			res.Hits = append(res.Hits, h)
		}
	}
	res.Pages = append(res.Pages, PageLog{Page: page, Query: query, Status: status, Results: n})
	tr.Add("request", "page", page, "status", status, "results", n)
}

// fetch 非 200 时不解析正文
func (c *Client) fetch(req *http.Request) (*parsedPage, int, error) {
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, resp.StatusCode, nil
	}
	pg, err := parsePage(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return pg, resp.StatusCode, nil
}

func (c *Client) waitFor() time.Duration {
	span := c.waitMax - c.waitMin
	if span <= 0 {
		return c.waitMin
	}
	return c.waitMin + time.Duration(c.rng.Int63n(int64(span)+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
