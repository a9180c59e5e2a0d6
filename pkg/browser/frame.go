package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// frameHandle adapts a playwright iframe to the Frame interface.
type frameHandle struct {
	frame   playwright.Frame
	timeout float64
}

var _ Frame = (*frameHandle)(nil)

func (f *frameHandle) WaitFor(selector string, opts WaitOptions) error {
	playwrightOpts := playwright.FrameWaitForSelectorOptions{}

	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := f.frame.WaitForSelector(selector, playwrightOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

func (f *frameHandle) Fill(selector, value string, timeout float64) error {
	playwrightOpts := playwright.FrameFillOptions{}
	if timeout > 0 {
		playwrightOpts.Timeout = &timeout
	}

	if err := f.frame.Fill(selector, value, playwrightOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (f *frameHandle) Click(selector string, timeout float64) error {
	playwrightOpts := playwright.FrameClickOptions{}
	if timeout > 0 {
		playwrightOpts.Timeout = &timeout
	}

	if err := f.frame.Click(selector, playwrightOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (f *frameHandle) Evaluate(script string) (interface{}, error) {
	result, err := f.frame.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

func (f *frameHandle) Content() (string, error) {
	content, err := f.frame.Content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}
	return content, nil
}

func (f *frameHandle) URL() string {
	return f.frame.URL()
}
