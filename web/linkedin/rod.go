package linkedin

import (
	"context"
	"errors"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type rodPage struct {
	ctx      context.Context
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	popup    *rod.Element
}

func openRod(ctx context.Context, target string, headless bool) (pageSession, error) {
	l := launcher.New().Headless(headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, err
	}
	return &rodPage{ctx: ctx, launcher: l, browser: browser, page: page}, nil
}

func (r *rodPage) HTML() (string, error) {
	return r.page.HTML()
}

// HoverPopup ElementX 会一直重试，由 ctx 限定查找时间
func (r *rodPage) HoverPopup(ctx context.Context, xpath string) error {
	el, err := r.page.Context(ctx).ElementX(xpath)
	if err != nil {
		return err
	}
	// 查找用的 ctx 结束后元素仍要能点击
	r.popup = el.Context(r.ctx)
	return r.popup.Hover()
}

func (r *rodPage) ClickPopup() error {
	if r.popup == nil {
		return errors.New("no popup element, call HoverPopup first")
	}
	return r.popup.Click(proto.InputMouseButtonLeft, 1)
}

func (r *rodPage) Close() error {
	err := r.browser.Close()
	r.launcher.Kill()
	return err
}
