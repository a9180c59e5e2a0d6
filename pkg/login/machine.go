// Package login drives the portal's multi-page authentication flow as a
// state machine: restore a persisted session when possible, otherwise
// enter the username, survive interrupt modals, answer security
// questions or the password challenge, and verify the resulting page.
package login

import (
	"context"
	"fmt"
	"strings"

	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
	"github.com/danicanod/banker-venezuela-sub000/pkg/config"
	"github.com/danicanod/banker-venezuela-sub000/pkg/logging"
	"github.com/danicanod/banker-venezuela-sub000/pkg/questions"
	"github.com/danicanod/banker-venezuela-sub000/pkg/session"
	"github.com/danicanod/banker-venezuela-sub000/pkg/textutil"
)

// State is the machine's position in the flow. It exists for logging
// and diagnostics; transitions are driven by the page, not by callers.
type State int

const (
	StateInit State = iota
	StateNavigated
	StateIframeReady
	StateUsernameSubmitted
	StateModalInterrupt
	StateSecurityQuestions
	StatePasswordEntry
	StateSubmitted
	StateVerified
)

var stateNames = map[State]string{
	StateInit:              "init",
	StateNavigated:         "navigated",
	StateIframeReady:       "iframe_ready",
	StateUsernameSubmitted: "username_submitted",
	StateModalInterrupt:    "modal_interrupt",
	StateSecurityQuestions: "security_questions",
	StatePasswordEntry:     "password_entry",
	StateSubmitted:         "submitted",
	StateVerified:          "verified",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Status is the terminal outcome of a login attempt.
type Status int

const (
	Success Status = iota
	Failed
	SystemUnavailable
	MaxRetriesExceeded
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failed:
		return "failed"
	case SystemUnavailable:
		return "system_unavailable"
	case MaxRetriesExceeded:
		return "max_retries_exceeded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is what a login attempt produced. SessionValid reports whether
// an authenticated browsing context is now available.
type Result struct {
	Status       Status `json:"status"`
	Message      string `json:"message"`
	SessionValid bool   `json:"session_valid"`
}

// Machine drives one account's login flow over a single page. It is
// single-writer: one flow at a time, no concurrent use.
type Machine struct {
	page     browser.Page
	creds    config.Credentials
	cfg      config.AuthConfig
	store    *session.Store
	resolver *questions.Resolver
	profile  Profile
	log      *logging.Logger

	state         State
	authenticated bool
	cached        Result
}

// NewMachine builds a login machine with the default portal profile. The
// store may be nil to disable session restore and persistence.
func NewMachine(page browser.Page, creds config.Credentials, cfg config.AuthConfig, store *session.Store, resolver *questions.Resolver) *Machine {
	return NewMachineWithProfile(page, creds, cfg, store, resolver, DefaultProfile())
}

// NewMachineWithProfile builds a login machine for a custom portal
// profile.
func NewMachineWithProfile(page browser.Page, creds config.Credentials, cfg config.AuthConfig, store *session.Store, resolver *questions.Resolver, profile Profile) *Machine {
	log, _ := logging.NewLogger("login")
	return &Machine{
		page:     page,
		creds:    creds,
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		profile:  profile,
		log:      log,
	}
}

// State returns the machine's current flow position.
func (m *Machine) State() State { return m.state }

// Authenticated reports whether a prior Login succeeded in-process.
func (m *Machine) Authenticated() bool { return m.authenticated }

// Login runs the flow and returns its outcome. An in-process prior
// success returns immediately; a restorable persisted session that
// validates as authenticated is the next fastest path; otherwise the
// machine drives a fresh flow, restarting on active-session modals up to
// the configured bound. The returned error is non-nil only for context
// cancellation; portal-level failures are carried in the Result.
func (m *Machine) Login(ctx context.Context) (Result, error) {
	if m.authenticated {
		m.log.Debugf("already authenticated in-process, returning cached result")
		return m.cached, nil
	}

	if restored := m.tryRestore(ctx); restored != nil {
		return *restored, nil
	}

	for attempt := 0; attempt <= m.cfg.MaxModalRetries; attempt++ {
		if attempt > 0 {
			m.log.Warnf("active-session modal interrupted the flow, restarting (retry %d of %d)",
				attempt, m.cfg.MaxModalRetries)
		}

		result, restart, err := m.runFlow(ctx)
		if err != nil {
			return result, err
		}
		if restart {
			continue
		}
		if result.Status == Success {
			m.finishSuccess(&result)
		}
		return result, nil
	}

	return Result{
		Status:  MaxRetriesExceeded,
		Message: fmt.Sprintf("active-session modal persisted through %d restarts", m.cfg.MaxModalRetries),
	}, nil
}

// tryRestore attempts the session-restore fast path. A non-nil return is
// the final login result; nil means fall through to a fresh flow.
func (m *Machine) tryRestore(ctx context.Context) *Result {
	if m.store == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return nil
	}

	restored, err := m.store.Restore(m.page, m.creds.Identity())
	if err != nil {
		m.log.Warnf("session restore failed, falling back to fresh login: %v", err)
		return nil
	}
	if !restored {
		return nil
	}

	if session.IsValidWith(m.page, m.profile.Markers) {
		m.log.Infof("restored session validated, skipping fresh login")
		m.authenticated = true
		m.cached = Result{Status: Success, Message: "session restored", SessionValid: true}
		return &m.cached
	}

	m.log.Infof("restored session did not validate, clearing it")
	if err := m.store.Clear(m.creds.Identity()); err != nil {
		m.log.Warnf("could not clear stale session: %v", err)
	}
	return nil
}

// runFlow executes one pass of the fresh login flow. restart is true
// when an active-session modal forced a full restart.
func (m *Machine) runFlow(ctx context.Context) (result Result, restart bool, err error) {
	m.state = StateInit

	if err := ctx.Err(); err != nil {
		return Result{Status: Failed, Message: "login canceled"}, false, err
	}

	if err := m.page.Navigate(m.profile.LoginURL, browser.NavigateOptions{
		WaitUntil: "domcontentloaded",
		Timeout:   m.timeoutMS(),
	}); err != nil {
		return Result{Status: Failed, Message: fmt.Sprintf("login page unreachable: %v", err)}, false, nil
	}
	m.state = StateNavigated

	if m.contentHasAny(m.profile.UnavailableMarkers) {
		m.log.Warnf("portal reports system unavailable")
		return Result{Status: SystemUnavailable, Message: "portal reports system unavailable"}, false, nil
	}

	target, ok := m.loginTarget()
	if !ok {
		return Result{Status: Failed, Message: "login frame unreachable"}, false, nil
	}
	m.state = StateIframeReady

	if err := m.fillStep(target, m.profile.UsernameInput, m.creds.Identity()); err != nil {
		return Result{Status: Failed, Message: fmt.Sprintf("username entry failed: %v", err)}, false, nil
	}

	if m.dismissModal(target) {
		return Result{}, true, nil
	}

	if err := m.clickStep(target, m.profile.UsernameSubmit); err != nil {
		return Result{Status: Failed, Message: fmt.Sprintf("username submit failed: %v", err)}, false, nil
	}
	m.state = StateUsernameSubmitted
	m.settle()

	if err := ctx.Err(); err != nil {
		return Result{Status: Failed, Message: "login canceled"}, false, err
	}

	if m.dismissModal(target) {
		return Result{}, true, nil
	}

	// The next page is either the security-question challenge or the
	// password form; a short bounded probe decides which.
	if _, present := probePresent(target, m.profile.QuestionIndicator); present {
		m.state = StateSecurityQuestions
		if result, ok := m.answerQuestions(target); !ok {
			return result, false, nil
		}
	}

	m.state = StatePasswordEntry
	if err := m.fillStep(target, m.profile.PasswordInput, m.creds.Secret()); err != nil {
		return Result{Status: Failed, Message: fmt.Sprintf("password entry failed: %v", err)}, false, nil
	}
	if err := m.clickStep(target, m.profile.PasswordSubmit); err != nil {
		return Result{Status: Failed, Message: fmt.Sprintf("password submit failed: %v", err)}, false, nil
	}
	m.state = StateSubmitted
	m.settle()

	return m.verify(), false, nil
}

// answerQuestions delegates the challenge to the resolver. Zero answered
// slots is terminal; a partial answer set proceeds, matching what the
// portal itself accepts.
func (m *Machine) answerQuestions(target browser.Frame) (Result, bool) {
	handled := m.resolver.Handle(target, m.profile.Slots)
	if !handled.Success() {
		for _, slot := range handled.Slots {
			m.log.Warnf("question slot %s unanswered: %s", slot.Slot.Label, slot.Reason)
		}
		return Result{Status: Failed, Message: "no security question could be answered"}, false
	}

	if handled.Answered < len(handled.Slots) {
		m.log.Infof("answered %d of %d question slots, submitting partial set",
			handled.Answered, len(handled.Slots))
	}

	if err := m.clickStep(target, m.profile.QuestionSubmit); err != nil {
		return Result{Status: Failed, Message: fmt.Sprintf("question submit failed: %v", err)}, false
	}
	m.settle()
	return Result{}, true
}

// verify inspects the post-submit page against the profile's failure and
// authenticated-area markers.
func (m *Machine) verify() Result {
	m.state = StateVerified

	if m.contentHasAny(m.profile.FailureMarkers) {
		return Result{Status: Failed, Message: "portal rejected the credentials"}
	}
	if session.IsValidWith(m.page, m.profile.Markers) {
		return Result{Status: Success, Message: "login verified", SessionValid: true}
	}
	return Result{Status: Failed, Message: "could not verify authenticated state after submit"}
}

// finishSuccess records the in-process fast path and persists the
// session when enabled. Persistence failures degrade to a fresh login
// next run, they never fail a verified login.
func (m *Machine) finishSuccess(result *Result) {
	m.authenticated = true
	m.cached = *result

	if !m.cfg.PersistSession || m.store == nil {
		return
	}
	if err := m.store.Save(m.page, m.creds.Identity()); err != nil {
		m.log.Warnf("could not persist session: %v", err)
	}
}

// loginTarget resolves the frame hosting the login form, retrying once
// after a settle wait. Frame inaccessibility is fatal for the flow.
func (m *Machine) loginTarget() (browser.Frame, bool) {
	if m.profile.IframeURLFragment == "" {
		return m.page, true
	}

	if frame, ok := m.page.FrameByURL(m.profile.IframeURLFragment); ok {
		return frame, true
	}
	m.settle()
	if frame, ok := m.page.FrameByURL(m.profile.IframeURLFragment); ok {
		return frame, true
	}

	m.log.Errorf("no frame matching %q found", m.profile.IframeURLFragment)
	return nil, false
}

// dismissModal checks for the active-session modal and, when present,
// clicks it away. Returns true when the flow must restart.
func (m *Machine) dismissModal(target browser.Frame) bool {
	selector, present := probePresent(target, m.profile.ModalIndicator)
	if !present {
		return false
	}

	m.state = StateModalInterrupt
	m.log.Warnf("active-session modal detected via %s", selector)
	if err := m.clickStep(target, m.profile.ModalDismiss); err != nil {
		m.log.Warnf("could not dismiss modal: %v", err)
	}
	return true
}

// locate finds the first matching probe for a required element, with a
// single retry pass over the whole list before giving up.
func (m *Machine) locate(target browser.Frame, probes []Probe) (string, error) {
	for pass := 0; pass < 2; pass++ {
		for _, probe := range probes {
			if err := target.WaitFor(probe.Selector, probe.withDefaults()); err == nil {
				return probe.Selector, nil
			}
		}
	}
	return "", fmt.Errorf("no selector matched out of %d probes", len(probes))
}

// probePresent checks for an optional element with a single pass and no
// retry.
func probePresent(target browser.Frame, probes []Probe) (string, bool) {
	for _, probe := range probes {
		if err := target.WaitFor(probe.Selector, probe.withDefaults()); err == nil {
			return probe.Selector, true
		}
	}
	return "", false
}

func (m *Machine) fillStep(target browser.Frame, probes []Probe, value string) error {
	selector, err := m.locate(target, probes)
	if err != nil {
		return err
	}
	return target.Fill(selector, value, m.timeoutMS())
}

func (m *Machine) clickStep(target browser.Frame, probes []Probe) error {
	selector, err := m.locate(target, probes)
	if err != nil {
		return err
	}
	return target.Click(selector, m.timeoutMS())
}

func (m *Machine) contentHasAny(markers []string) bool {
	if len(markers) == 0 {
		return false
	}
	content, err := m.page.Content()
	if err != nil {
		return false
	}
	folded := textutil.Fold(content)
	for _, marker := range markers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

func (m *Machine) settle() {
	if err := m.page.WaitSettled(m.timeoutMS()); err != nil {
		m.log.Debugf("page did not settle: %v", err)
	}
}

func (m *Machine) timeoutMS() float64 {
	if m.cfg.Timeout <= 0 {
		return browser.DefaultTimeout
	}
	return float64(m.cfg.Timeout.Milliseconds())
}
