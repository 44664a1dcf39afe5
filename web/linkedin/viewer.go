// Package linkedin opens a public LinkedIn page in a headless browser,
// dismisses the sign-in modal and returns the rendered HTML.
//
// This depends on LinkedIn's exact markup and will break when it changes.
package linkedin

import (
	"context"
	"errors"
	"net/url"
	"time"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

const (
	DISMISS_XPATH = "//icon[contains(@class,'contextual-sign-in-modal__modal-dismiss-icon')]"

	// DEFAULT_FIND_TIMEOUT 查找关闭按钮的最长时间，rod 默认会一直重试
	DEFAULT_FIND_TIMEOUT = 30 * time.Second
)

// ErrPopupNotClosed 点击关闭后页面 HTML 长度未变化
var ErrPopupNotClosed = errorx.New(errCode.UPSTREAM_FAILURE, "sign-in popup was not closed")

// pageSession is the slice of browser behaviour the viewer needs.
type pageSession interface {
	HTML() (string, error)
	// HoverPopup finds the dismiss button and moves the mouse onto it.
	HoverPopup(ctx context.Context, xpath string) error
	// ClickPopup clicks the button found by the last HoverPopup.
	ClickPopup() error
	Close() error
}

type opener func(ctx context.Context, target string, headless bool) (pageSession, error)

type Viewer struct {
	Headless          bool
	Pause             time.Duration // 每个动作之间的等待，悬停到点击之间也等这么久
	VerifyPopupClosed bool
	FindTimeout       time.Duration

	open  opener
	sleep func(context.Context, time.Duration) error
}

func NewViewer(headless bool, pause time.Duration, verifyPopupClosed bool) *Viewer {
	return &Viewer{
		Headless:          headless,
		Pause:             pause,
		VerifyPopupClosed: verifyPopupClosed,
		FindTimeout:       DEFAULT_FIND_TIMEOUT,
		open:              openRod,
		sleep:             sleepCtx,
	}
}

// View returns the page HTML after the sign-in modal has been dismissed.
func (v *Viewer) View(ctx context.Context, target string, tr *trace.Log) (string, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errorx.Newf(errCode.INVALID_VALUE, "not an absolute http(s) url: %q", target)
	}

	tr.Add("open_browser", "url", target, "headless", v.Headless)
	page, err := v.open(ctx, target, v.Headless)
	if err != nil {
		return "", errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "open page")
	}
	defer page.Close()

	if err := v.pause(ctx, tr); err != nil {
		return "", err
	}
	before, err := page.HTML()
	if err != nil {
		return "", errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read html")
	}

	tr.Add("hover_popup", "xpath", DISMISS_XPATH, "timeout", v.FindTimeout.String())
	if err := v.hover(ctx, page); err != nil {
		return "", err
	}
	if err := v.pause(ctx, tr); err != nil {
		return "", err
	}
	tr.Add("click_popup")
	if err := page.ClickPopup(); err != nil {
		return "", errorx.Wrap(errorx.Newf(errCode.UPSTREAM_FAILURE, "%v", err), "click popup")
	}

	if v.VerifyPopupClosed {
		after, err := page.HTML()
		if err != nil {
			return "", errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read html")
		}
		tr.Add("verify_popup", "before", len(before), "after", len(after))
		if len(after) == len(before) {
			return "", ErrPopupNotClosed
		}
	}

	if err := v.pause(ctx, tr); err != nil {
		return "", err
	}
	html, err := page.HTML()
	if err != nil {
		return "", errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read html")
	}
	tr.Add("extract_html", "bytes", len(html))
	return html, nil
}

// hover 在 FindTimeout 内找不到按钮时返回 UPSTREAM_FAILURE
func (v *Viewer) hover(ctx context.Context, page pageSession) error {
	findCtx := ctx
	if v.FindTimeout > 0 {
		var cancel context.CancelFunc
		findCtx, cancel = context.WithTimeout(ctx, v.FindTimeout)
		defer cancel()
	}
	err := page.HoverPopup(findCtx, DISMISS_XPATH)
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && errors.Is(findCtx.Err(), context.DeadlineExceeded) {
		return errorx.Newf(errCode.UPSTREAM_FAILURE, "dismiss button not found within %v", v.FindTimeout)
	}
	return errorx.Wrap(errorx.Newf(errCode.UPSTREAM_FAILURE, "%v", err), "hover popup")
}

func (v *Viewer) pause(ctx context.Context, tr *trace.Log) error {
	tr.Add("pause", "seconds", v.Pause.Seconds())
	return v.sleep(ctx, v.Pause)
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
