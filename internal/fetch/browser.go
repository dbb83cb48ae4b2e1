package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Lifecycle event names reported by Chrome.
const (
	// domContentLoadedEvent fires once the initial document has been parsed.
	domContentLoadedEvent = "DOMContentLoaded"

	// networkIdleEvent fires once the frame has had no network activity for
	// a short while.
	networkIdleEvent = "networkIdle"
)

// BrowserFetcher renders pages in headless Chrome.
// One browser tab is created up front and reused for every fetch, so fetches
// must not run concurrently.
type BrowserFetcher struct {
	// tabCtx is the chromedp context of the shared tab.
	tabCtx context.Context

	// cancel releases the tab, the browser and its allocator.
	cancel context.CancelFunc

	// pageTimeout bounds navigation until DOMContentLoaded.
	pageTimeout time.Duration

	// settleTimeout bounds the best-effort wait for network idle.
	settleTimeout time.Duration

	// userAgent overrides the browser's User-Agent.
	userAgent string

	// execPath is the Chrome binary; empty means auto-detect.
	execPath string

	// headers are sent with every request made by the tab.
	headers map[string]string

	// proxy is a SOCKS5 "host:port"; empty means a direct connection.
	proxy string

	// logger for structured logging.
	logger *slog.Logger

	// mu serializes use of the shared tab.
	mu sync.Mutex
}

// BrowserOption configures a BrowserFetcher.
type BrowserOption func(*BrowserFetcher)

// WithPageTimeout sets the navigation timeout.
func WithPageTimeout(d time.Duration) BrowserOption {
	return func(f *BrowserFetcher) {
		f.pageTimeout = d
	}
}

// WithSettleTimeout sets the upper bound of the wait for dynamic content.
func WithSettleTimeout(d time.Duration) BrowserOption {
	return func(f *BrowserFetcher) {
		f.settleTimeout = d
	}
}

// WithBrowserUserAgent sets the browser User-Agent.
func WithBrowserUserAgent(ua string) BrowserOption {
	return func(f *BrowserFetcher) {
		f.userAgent = ua
	}
}

// WithExecPath sets the Chrome executable to launch.
func WithExecPath(path string) BrowserOption {
	return func(f *BrowserFetcher) {
		f.execPath = path
	}
}

// WithBrowserHeaders adds HTTP headers to every request the tab makes,
// including sub-resources.
func WithBrowserHeaders(headers map[string]string) BrowserOption {
	return func(f *BrowserFetcher) {
		if f.headers == nil {
			f.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithBrowserCookie sends cookie as the Cookie header.
func WithBrowserCookie(cookie string) BrowserOption {
	return func(f *BrowserFetcher) {
		if cookie == "" {
			return
		}
		if f.headers == nil {
			f.headers = make(map[string]string, 1)
		}
		f.headers["Cookie"] = cookie
	}
}

// WithProxy routes the browser's traffic through the SOCKS5 proxy at
// address ("host:port").
func WithProxy(address string) BrowserOption {
	return func(f *BrowserFetcher) {
		f.proxy = address
	}
}

// WithBrowserLogger sets the logger.
func WithBrowserLogger(logger *slog.Logger) BrowserOption {
	return func(f *BrowserFetcher) {
		f.logger = logger
	}
}

// NewBrowserFetcher launches headless Chrome and opens the tab used for all
// fetches. Close must be called to stop the browser.
func NewBrowserFetcher(opts ...BrowserOption) (*BrowserFetcher, error) {
	f := &BrowserFetcher{
		pageTimeout:   DefaultPageTimeout,
		settleTimeout: DefaultSettleTimeout,
		userAgent:     DefaultUserAgent,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(f.userAgent),
	)
	if f.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(f.execPath))
	}
	if f.proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer("socks5://"+f.proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	f.tabCtx = tabCtx
	f.cancel = func() {
		tabCancel()
		allocCancel()
	}

	// Start the browser now so a missing Chrome is reported before crawling.
	if err := chromedp.Run(tabCtx); err != nil {
		f.cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if len(f.headers) > 0 {
		if err := chromedp.Run(tabCtx, network.SetExtraHTTPHeaders(networkHeaders(f.headers))); err != nil {
			f.cancel()
			return nil, fmt.Errorf("failed to set request headers: %w", err)
		}
	}

	return f, nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() {
	f.cancel()
}

// Fetch implements Fetcher.
// Navigation completes once the document fires DOMContentLoaded within the
// page timeout; images, fonts and third-party scripts are not waited for. It
// then waits up to the settle timeout for the network to go idle. A settle
// timeout is not an error: whatever has rendered by then is returned.
func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()

	w := newLoadWatcher()
	listenCtx, stopListening := context.WithCancel(f.tabCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, w.handle)

	navCtx, cancelNav := context.WithTimeout(f.tabCtx, f.pageTimeout)
	defer cancelNav()
	stop := context.AfterFunc(ctx, cancelNav)
	defer stop()

	var (
		loaderID   cdp.LoaderID
		errorText  string
		isDownload bool
	)
	err := chromedp.Run(navCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		_, loaderID, errorText, isDownload, err = page.Navigate(pageURL).Do(ctx)
		return err
	}))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(navCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, pageURL)
		}
		return nil, fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	switch {
	case errorText != "":
		return nil, fmt.Errorf("failed to navigate to %s: %s", pageURL, errorText)
	case isDownload:
		return nil, fmt.Errorf("%w: %s is a download", ErrNotHTML, pageURL)
	case loaderID == "":
		return nil, fmt.Errorf("%w: %s", ErrNoResponse, pageURL)
	}

	w.expect(loaderID)
	resp, err := w.waitReady(navCtx)
	if err != nil {
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, pageURL)
		}
		return nil, fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResponse, pageURL)
	}

	if settled := w.waitIdle(ctx, f.settleTimeout); !settled {
		f.logger.Debug("page did not settle, using current content",
			"url", pageURL,
			"settle_timeout", f.settleTimeout,
		)
	}

	readCtx, cancelRead := context.WithTimeout(f.tabCtx, f.pageTimeout)
	defer cancelRead()
	stopRead := context.AfterFunc(ctx, cancelRead)
	defer stopRead()

	var html string
	if err := chromedp.Run(readCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("failed to read document of %s: %w", pageURL, err)
	}

	contentType := headerValue(resp.Headers, "Content-Type")
	if contentType == "" {
		contentType = resp.MimeType
	}

	f.logger.Debug("rendered page",
		"url", pageURL,
		"status", resp.Status,
		"content_type", contentType,
		"bytes", len(html),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return &Response{
		URL:         pageURL,
		StatusCode:  int(resp.Status),
		ContentType: contentType,
		HTML:        html,
	}, nil
}

// networkHeaders converts plain headers to the protocol's header map.
func networkHeaders(headers map[string]string) network.Headers {
	h := make(network.Headers, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return h
}

// headerValue looks a header up case-insensitively.
func headerValue(headers network.Headers, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprint(v)
		}
	}
	return ""
}

// loaderState is what has been observed for one document loader.
type loaderState struct {
	response *network.Response
	ready    bool
	idle     bool
}

// loadWatcher follows a single navigation through target events: the
// document response, DOMContentLoaded and network idle.
//
// Events can arrive before Navigate returns the loader id, so state is
// recorded for every loader and matched once expect is called. Sub-frames
// and leftovers of the previous page carry other loader ids and are ignored.
type loadWatcher struct {
	mu       sync.Mutex
	loaderID cdp.LoaderID
	loaders  map[cdp.LoaderID]*loaderState

	ready     chan struct{}
	idle      chan struct{}
	readyOnce sync.Once
	idleOnce  sync.Once
}

func newLoadWatcher() *loadWatcher {
	return &loadWatcher{
		loaders: make(map[cdp.LoaderID]*loaderState),
		ready:   make(chan struct{}),
		idle:    make(chan struct{}),
	}
}

// handle is the chromedp target listener. It must not block.
func (w *loadWatcher) handle(ev any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventResponseReceived:
		if e.Type != network.ResourceTypeDocument || e.LoaderID == "" {
			return
		}
		w.state(e.LoaderID).response = e.Response
	case *page.EventLifecycleEvent:
		if e.LoaderID == "" {
			return
		}
		switch e.Name {
		case domContentLoadedEvent:
			w.state(e.LoaderID).ready = true
		case networkIdleEvent:
			w.state(e.LoaderID).idle = true
		default:
			return
		}
	default:
		return
	}
	w.signal()
}

// expect selects the navigation to follow.
func (w *loadWatcher) expect(loaderID cdp.LoaderID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loaderID = loaderID
	w.signal()
}

// state returns the entry for id, creating it. w.mu must be held.
func (w *loadWatcher) state(id cdp.LoaderID) *loaderState {
	st, ok := w.loaders[id]
	if !ok {
		st = &loaderState{}
		w.loaders[id] = st
	}
	return st
}

// signal closes the channels reached by the expected loader. w.mu must be held.
func (w *loadWatcher) signal() {
	if w.loaderID == "" {
		return
	}
	st, ok := w.loaders[w.loaderID]
	if !ok {
		return
	}
	if st.ready {
		w.readyOnce.Do(func() { close(w.ready) })
	}
	if st.idle {
		w.idleOnce.Do(func() { close(w.idle) })
	}
}

// waitReady blocks until the expected document fires DOMContentLoaded and
// returns its response, which is nil when none was observed.
func (w *loadWatcher) waitReady(ctx context.Context) (*network.Response, error) {
	select {
	case <-w.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaders[w.loaderID].response, nil
}

// waitIdle blocks until network idle, the timeout, or ctx is done.
// It reports whether the page settled.
func (w *loadWatcher) waitIdle(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-w.idle:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
