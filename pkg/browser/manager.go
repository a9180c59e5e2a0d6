package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/danicanod/banker-venezuela-sub000/pkg/logging"
)

// Manager owns the Playwright runtime and the single long-lived browser
// process. It is constructed explicitly and injected into callers; the
// browser is launched once and reused across sequential sessions to
// amortize startup cost. Concurrent use of one session must be serialized
// by the caller.
type Manager struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	browser     playwright.Browser
	log         *logging.Logger
	initialized bool
}

// NewManager creates a new browser manager.
func NewManager() *Manager {
	log, _ := logging.NewLogger("browser")
	return &Manager{log: log}
}

// Initialize installs and starts the Playwright runtime and launches the
// shared browser process. Safe to call more than once.
func (m *Manager) Initialize(headless bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Discard driver output so it cannot interleave with caller output
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	m.playwright = pw
	m.browser = browser
	m.initialized = true
	m.log.Infof("browser runtime started (headless=%v)", headless)
	return nil
}

// OpenSession creates a fresh isolated browser context and page on the
// shared browser process.
func (m *Manager) OpenSession(opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	context, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(opts.Timeout)

	return &Session{
		context: context,
		page:    page,
		timeout: opts.Timeout,
	}, nil
}

// IsInitialized reports whether the runtime has been started.
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Shutdown closes the shared browser and stops the Playwright runtime.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	if m.browser != nil {
		_ = m.browser.Close() // Ignore errors, continue cleanup
		m.browser = nil
	}

	var err error
	if m.playwright != nil {
		if stopErr := m.playwright.Stop(); stopErr != nil {
			err = fmt.Errorf("failed to stop playwright: %w", stopErr)
		}
		m.playwright = nil
	}

	m.initialized = false
	m.log.Infof("browser runtime stopped")
	m.log.Close()
	return err
}
