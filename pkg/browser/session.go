package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Session wraps an isolated browser context and its page. It implements
// Page; everything above this package talks to the Page interface only.
type Session struct {
	context playwright.BrowserContext
	page    playwright.Page
	timeout float64
}

var _ Page = (*Session)(nil)

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	playwrightOpts := playwright.PageGotoOptions{}

	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// WaitFor waits for an element matching the selector.
func (s *Session) WaitFor(selector string, opts WaitOptions) error {
	playwrightOpts := playwright.PageWaitForSelectorOptions{}

	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.page.WaitForSelector(selector, playwrightOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// Fill fills an input element with the specified value.
func (s *Session) Fill(selector, value string, timeout float64) error {
	playwrightOpts := playwright.PageFillOptions{}
	if timeout > 0 {
		playwrightOpts.Timeout = &timeout
	}

	if err := s.page.Fill(selector, value, playwrightOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Click clicks an element matching the selector.
func (s *Session) Click(selector string, timeout float64) error {
	playwrightOpts := playwright.PageClickOptions{}
	if timeout > 0 {
		playwrightOpts.Timeout = &timeout
	}

	if err := s.page.Click(selector, playwrightOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Evaluate runs a script in the page.
func (s *Session) Evaluate(script string) (interface{}, error) {
	result, err := s.page.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

// Content returns the full page HTML.
func (s *Session) Content() (string, error) {
	content, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}
	return content, nil
}

// Title returns the current document title.
func (s *Session) Title() (string, error) {
	return s.page.Title()
}

// URL returns the current page URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// Reload reloads the current page.
func (s *Session) Reload(timeout float64) error {
	playwrightOpts := playwright.PageReloadOptions{}
	if timeout > 0 {
		playwrightOpts.Timeout = &timeout
	}

	if _, err := s.page.Reload(playwrightOpts); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

// WaitSettled waits for the page to reach a quiet network state, falling
// back to the load event when the network never goes idle.
func (s *Session) WaitSettled(timeout float64) error {
	if timeout <= 0 {
		timeout = s.timeout
	}

	state := playwright.LoadState("networkidle")
	err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   &state,
		Timeout: &timeout,
	})
	if err == nil {
		return nil
	}

	state = playwright.LoadState("load")
	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   &state,
		Timeout: &timeout,
	}); err != nil {
		return fmt.Errorf("page did not settle: %w", err)
	}
	return nil
}

// Cookies returns all cookies from the session's context.
func (s *Session) Cookies() ([]Cookie, error) {
	raw, err := s.context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("cookie read failed: %w", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookie := Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		cookies = append(cookies, cookie)
	}
	return cookies, nil
}

// SetCookies installs cookies into the session's context.
func (s *Session) SetCookies(cookies []Cookie) error {
	params := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		cookie := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.Expires != 0 {
			cookie.Expires = playwright.Float(c.Expires)
		}
		if c.SameSite != "" {
			sameSite := playwright.SameSiteAttribute(c.SameSite)
			cookie.SameSite = &sameSite
		}
		params = append(params, cookie)
	}

	if len(params) == 0 {
		return nil
	}
	if err := s.context.AddCookies(params); err != nil {
		return fmt.Errorf("cookie write failed: %w", err)
	}
	return nil
}

// ClearCookies removes all cookies from the session's context.
func (s *Session) ClearCookies() error {
	return s.context.ClearCookies()
}

const storageSnapshotScript = `() => {
	const dump = (store) => {
		const out = {};
		try {
			for (let i = 0; i < store.length; i++) {
				const key = store.key(i);
				out[key] = store.getItem(key);
			}
		} catch (e) {}
		return out;
	};
	return { local: dump(window.localStorage), session: dump(window.sessionStorage) };
}`

// StorageSnapshot captures localStorage and sessionStorage key/value pairs.
func (s *Session) StorageSnapshot() (StorageState, error) {
	result, err := s.Evaluate(storageSnapshotScript)
	if err != nil {
		return StorageState{}, err
	}

	state := StorageState{
		Local:   map[string]string{},
		Session: map[string]string{},
	}
	root, ok := result.(map[string]interface{})
	if !ok {
		return state, nil
	}
	for name, dest := range map[string]map[string]string{
		"local":   state.Local,
		"session": state.Session,
	} {
		entries, ok := root[name].(map[string]interface{})
		if !ok {
			continue
		}
		for k, v := range entries {
			if str, ok := v.(string); ok {
				dest[k] = str
			}
		}
	}
	return state, nil
}

// RestoreStorage replays a storage snapshot into the page. Entries that the
// page refuses (storage disabled, quota) are silently dropped.
func (s *Session) RestoreStorage(state StorageState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("storage state encode failed: %w", err)
	}

	script := fmt.Sprintf(`() => {
		const state = %s;
		try {
			Object.entries(state.local || {}).forEach(([k, v]) => localStorage.setItem(k, v));
		} catch (e) {}
		try {
			Object.entries(state.session || {}).forEach(([k, v]) => sessionStorage.setItem(k, v));
		} catch (e) {}
		return true;
	}`, payload)

	_, err = s.Evaluate(script)
	return err
}

// FrameByURL returns the first non-main frame whose URL contains the
// given substring.
func (s *Session) FrameByURL(substr string) (Frame, bool) {
	main := s.page.MainFrame()
	for _, f := range s.page.Frames() {
		if f == main {
			continue
		}
		if strings.Contains(f.URL(), substr) {
			return &frameHandle{frame: f, timeout: s.timeout}, true
		}
	}
	return nil, false
}

// Close closes the page and its context. The shared browser process stays
// up for later sessions.
func (s *Session) Close() error {
	_ = s.page.Close() // Ignore errors, continue cleanup
	if err := s.context.Close(); err != nil {
		return fmt.Errorf("context close failed: %w", err)
	}
	return nil
}
