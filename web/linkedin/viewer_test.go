package linkedin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

type fakePage struct {
	htmls    []string
	calls    int
	hovered  string
	clicked  bool
	hoverErr error
	clickErr error
	closed   bool

	// 模拟页面上没有关闭按钮：一直等到 ctx 结束
	blockHover bool
}

func (f *fakePage) HTML() (string, error) {
	h := f.htmls[min(f.calls, len(f.htmls)-1)]
	f.calls++
	return h, nil
}

func (f *fakePage) HoverPopup(ctx context.Context, xpath string) error {
	f.hovered = xpath
	if f.blockHover {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.hoverErr
}

func (f *fakePage) ClickPopup() error {
	f.clicked = true
	return f.clickErr
}

func (f *fakePage) Close() error {
	f.closed = true
	return nil
}

func newFakeViewer(p *fakePage, verify bool, pauses *[]time.Duration) *Viewer {
	v := NewViewer(true, 5*time.Second, verify)
	v.open = func(context.Context, string, bool) (pageSession, error) { return p, nil }
	v.sleep = func(_ context.Context, d time.Duration) error {
		*pauses = append(*pauses, d)
		return nil
	}
	return v
}

func TestViewReturnsHTMLAfterPopup(t *testing.T) {
	p := &fakePage{htmls: []string{"<modal>", "<modal><full page>", "<modal><full page>"}}
	var pauses []time.Duration
	tr := trace.New()

	html, err := newFakeViewer(p, true, &pauses).View(context.Background(), "https://www.linkedin.com/company/microsoft/", tr)
	require.NoError(t, err)
	assert.Equal(t, "<modal><full page>", html)
	assert.Equal(t, DISMISS_XPATH, p.hovered)
	assert.True(t, p.clicked)
	assert.True(t, p.closed)
	// 打开后、悬停后、关闭弹窗后各等一次
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, pauses)
	assert.Equal(t, []string{
		"open_browser", "pause", "hover_popup", "pause", "click_popup", "verify_popup", "pause", "extract_html",
	}, tr.Stages())
}

func TestViewPopupNotClosed(t *testing.T) {
	p := &fakePage{htmls: []string{"<same>"}}
	var pauses []time.Duration

	_, err := newFakeViewer(p, true, &pauses).View(context.Background(), "https://www.linkedin.com/in/someone/", nil)
	assert.ErrorIs(t, err, ErrPopupNotClosed)
	assert.True(t, p.closed)

	// 不校验时照常返回
	p = &fakePage{htmls: []string{"<same>"}}
	html, err := newFakeViewer(p, false, &pauses).View(context.Background(), "https://www.linkedin.com/in/someone/", nil)
	require.NoError(t, err)
	assert.Equal(t, "<same>", html)
}

func TestViewDismissFails(t *testing.T) {
	p := &fakePage{htmls: []string{"a"}, hoverErr: errors.New("no such element")}
	var pauses []time.Duration
	_, err := newFakeViewer(p, true, &pauses).View(context.Background(), "https://www.linkedin.com/in/x/", nil)
	assert.Equal(t, errCode.UPSTREAM_FAILURE, errorx.Code(err))
	assert.False(t, p.clicked)

	p = &fakePage{htmls: []string{"a"}, clickErr: errors.New("not clickable")}
	_, err = newFakeViewer(p, true, &pauses).View(context.Background(), "https://www.linkedin.com/in/x/", nil)
	assert.Equal(t, errCode.UPSTREAM_FAILURE, errorx.Code(err))
	assert.True(t, p.closed)
}

func TestViewPopupMissingTimesOut(t *testing.T) {
	p := &fakePage{htmls: []string{"<no modal>"}, blockHover: true}
	var pauses []time.Duration
	v := newFakeViewer(p, true, &pauses)
	v.FindTimeout = 20 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := v.View(context.Background(), "https://www.linkedin.com/in/x/", nil)
		done <- err
	}()

	select {
	case err := <-done:
		assert.Equal(t, errCode.UPSTREAM_FAILURE, errorx.Code(err))
		assert.Contains(t, err.Error(), "not found within")
		assert.False(t, p.clicked)
		assert.True(t, p.closed)
	case <-time.After(5 * time.Second):
		t.Fatal("View did not give up on the missing dismiss button")
	}
}

func TestViewPopupLookupCancelled(t *testing.T) {
	p := &fakePage{htmls: []string{"<no modal>"}, blockHover: true}
	var pauses []time.Duration
	v := newFakeViewer(p, true, &pauses)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := v.View(ctx, "https://www.linkedin.com/in/x/", nil)
	assert.Equal(t, errCode.UPSTREAM_FAILURE, errorx.Code(err))
	assert.NotContains(t, err.Error(), "not found within")
}

func TestViewRejectsBadURL(t *testing.T) {
	v := NewViewer(true, 0, true)
	for _, u := range []string{"", "linkedin.com/in/x", "ftp://linkedin.com", "https://"} {
		_, err := v.View(context.Background(), u, nil)
		assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err), u)
	}
}

func TestViewOpenFails(t *testing.T) {
	v := NewViewer(true, 0, true)
	v.open = func(context.Context, string, bool) (pageSession, error) { return nil, errors.New("no chrome") }
	_, err := v.View(context.Background(), "https://www.linkedin.com/in/x/", nil)
	assert.Equal(t, errCode.IO_FAILURE, errorx.Code(err))
}
