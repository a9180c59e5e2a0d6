// Package client is the public orchestration surface: it owns the
// browser runtime, the session store and the login machine, and hands
// authenticated pages to the extraction engine. One Client drives one
// account; calls are serialized over the single browsing context.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
	"github.com/danicanod/banker-venezuela-sub000/pkg/config"
	"github.com/danicanod/banker-venezuela-sub000/pkg/login"
	"github.com/danicanod/banker-venezuela-sub000/pkg/logging"
	"github.com/danicanod/banker-venezuela-sub000/pkg/questions"
	"github.com/danicanod/banker-venezuela-sub000/pkg/scrape"
	"github.com/danicanod/banker-venezuela-sub000/pkg/session"
)

// Client bundles everything needed to log in and extract transactions
// for one account.
type Client struct {
	mu sync.Mutex

	cfg     config.Config
	creds   config.Credentials
	manager *browser.Manager
	store   *session.Store
	log     *logging.Logger

	page    browser.Page
	machine *login.Machine

	// ownPage is false when the page was injected and must not be closed
	// or replaced by the client
	ownPage bool
}

// New builds a client that launches and owns its browser runtime.
func New(creds config.Credentials, cfg config.Config) (*Client, error) {
	store, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("client setup: %w", err)
	}

	log, _ := logging.NewLogger("client")
	return &Client{
		cfg:     cfg,
		creds:   creds,
		manager: browser.NewManager(),
		store:   store,
		log:     log,
		ownPage: true,
	}, nil
}

// NewWithPage builds a client over an externally provided automation
// surface. The caller keeps ownership of the page; Close will not touch
// it. The store may be nil to disable session persistence.
func NewWithPage(page browser.Page, creds config.Credentials, cfg config.Config, store *session.Store) *Client {
	log, _ := logging.NewLogger("client")
	return &Client{
		cfg:   cfg,
		creds: creds,
		store: store,
		log:   log,
		page:  page,
	}
}

// Login authenticates the account, preferring the session-restore fast
// path. Repeated calls after a success return the cached result.
func (c *Client) Login(ctx context.Context) (login.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensurePage(); err != nil {
		return login.Result{Status: login.Failed, Message: err.Error()}, err
	}

	if c.machine == nil {
		resolver := questions.NewResolver(c.creds.SecurityAnswers())
		c.machine = login.NewMachine(c.page, c.creds, c.cfg.Auth, c.store, resolver)
	}

	result, err := c.machine.Login(ctx)
	c.log.Infof("login finished: status=%s session_valid=%v", result.Status, result.SessionValid)
	return result, err
}

// AuthenticatedPage returns the page carrying the authenticated context,
// or nil when no login has succeeded yet.
func (c *Client) AuthenticatedPage() browser.Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine == nil || !c.machine.Authenticated() {
		return nil
	}
	return c.page
}

// ScrapeTransactions runs the extraction engine on the authenticated
// page. Login must have succeeded first.
func (c *Client) ScrapeTransactions(ctx context.Context) (*scrape.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine == nil || !c.machine.Authenticated() {
		return nil, fmt.Errorf("not authenticated, call Login first")
	}

	engine := scrape.NewEngine(c.page, scrape.Options{
		ScoreThreshold: c.cfg.Scrape.ScoreThreshold,
		MaxPages:       c.cfg.Scrape.MaxPages,
		FallbackCap:    c.cfg.Scrape.FallbackCap,
	})
	return engine.Scrape(ctx)
}

// ClearStoredSession discards any persisted session for the account,
// forcing the next Login onto the fresh flow.
func (c *Client) ClearStoredSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Clear(c.creds.Identity())
}

// Close releases the page and the browser runtime. Safe to call when
// Login was never reached.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.page != nil && c.ownPage {
		if err := c.page.Close(); err != nil {
			firstErr = err
		}
		c.page = nil
	}
	if c.manager != nil {
		if err := c.manager.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.log.Close()
	return firstErr
}

// ensurePage lazily starts the browser runtime and opens the single
// session the client drives.
func (c *Client) ensurePage() error {
	if c.page != nil {
		return nil
	}

	if err := c.manager.Initialize(c.cfg.Auth.Headless); err != nil {
		return fmt.Errorf("browser startup: %w", err)
	}
	sess, err := c.manager.OpenSession(browser.SessionOptions{
		Headless: c.cfg.Auth.Headless,
		Timeout:  float64(c.cfg.Auth.Timeout.Milliseconds()),
	})
	if err != nil {
		return fmt.Errorf("browser session: %w", err)
	}
	c.page = sess
	return nil
}
