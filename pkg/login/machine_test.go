package login

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
	"github.com/danicanod/banker-venezuela-sub000/pkg/config"
	"github.com/danicanod/banker-venezuela-sub000/pkg/questions"
	"github.com/danicanod/banker-venezuela-sub000/pkg/session"
)

const (
	fakeLoginURL = "https://www.banesconline.com/mantis/Website/Login.aspx"
	fakeHomeURL  = "https://www.banesconline.com/mantis/Website/Default.aspx"
)

// fakePortal models the portal as a sequence of screens advanced by
// clicks: login → (modal) → (questions) → password → home or rejected.
type fakePortal struct {
	screen  string
	url     string
	outcome string // screen after the final submit

	unavailable    bool
	modalRemaining int
	questionLabels map[string]string // label selector → question text

	filled      map[string]string
	navigations int
	cookies     []browser.Cookie
	storage     browser.StorageState
	frameable   bool // FrameByURL succeeds
}

func newFakePortal() *fakePortal {
	return &fakePortal{
		screen:    "blank",
		outcome:   "home",
		filled:    map[string]string{},
		frameable: true,
	}
}

func (p *fakePortal) present(selector string) bool {
	switch p.screen {
	case "login":
		return selector == "#txtUsuario" || selector == "#bAceptar"
	case "modal":
		return selector == "#lblMensajeSesion" || selector == "#bProcesar"
	case "questions":
		if _, ok := p.questionLabels[selector]; ok {
			return true
		}
		return strings.HasPrefix(selector, "#txt") && strings.HasSuffix(selector, "R") ||
			selector == "#bAceptar"
	case "password":
		return selector == "#txtClave" || selector == "#bAceptar"
	}
	return false
}

func (p *fakePortal) WaitFor(selector string, opts browser.WaitOptions) error {
	if !p.present(selector) {
		return fmt.Errorf("timeout waiting for %q", selector)
	}
	return nil
}

func (p *fakePortal) Fill(selector, value string, timeout float64) error {
	if !p.present(selector) {
		return fmt.Errorf("fill failed: no element matches %q", selector)
	}
	p.filled[selector] = value
	return nil
}

func (p *fakePortal) Click(selector string, timeout float64) error {
	if !p.present(selector) {
		return fmt.Errorf("click failed: no element matches %q", selector)
	}
	switch {
	case p.screen == "modal" && selector == "#bProcesar":
		p.modalRemaining--
		p.screen = "login"
	case p.screen == "login" && selector == "#bAceptar":
		if p.modalRemaining > 0 {
			p.screen = "modal"
		} else if len(p.questionLabels) > 0 {
			p.screen = "questions"
		} else {
			p.screen = "password"
		}
	case p.screen == "questions" && selector == "#bAceptar":
		p.screen = "password"
	case p.screen == "password" && selector == "#bAceptar":
		p.screen = p.outcome
		if p.outcome == "home" {
			p.url = fakeHomeURL
		}
	}
	return nil
}

func (p *fakePortal) Evaluate(script string) (interface{}, error) {
	for selector, text := range p.questionLabels {
		if strings.Contains(script, fmt.Sprintf("%q", selector)) && strings.Contains(script, "textContent") {
			return text, nil
		}
	}
	for selector, value := range p.filled {
		if strings.Contains(script, fmt.Sprintf("%q", selector)) && strings.Contains(script, ".value") {
			return value, nil
		}
	}
	return "", nil
}

func (p *fakePortal) Content() (string, error) {
	if p.unavailable {
		return "<html><body>Sistema no disponible por mantenimiento</body></html>", nil
	}
	switch p.screen {
	case "login", "modal", "questions", "password":
		return `<html><body><input id="txtUsuario"> Iniciar Sesión</body></html>`, nil
	case "home":
		return "<html><body>Posición Consolidada | Cerrar Sesión</body></html>", nil
	case "rejected":
		return "<html><body>Datos incorrectos. Verifique su usuario.</body></html>", nil
	}
	return "<html><body></body></html>", nil
}

func (p *fakePortal) URL() string { return p.url }

func (p *fakePortal) Navigate(url string, opts browser.NavigateOptions) error {
	p.navigations++
	p.url = url
	if strings.Contains(strings.ToLower(url), "default.aspx") {
		p.screen = "home"
	} else {
		p.screen = "login"
	}
	return nil
}

func (p *fakePortal) Reload(timeout float64) error { return nil }
func (p *fakePortal) Title() (string, error)       { return "BancaOnline", nil }

func (p *fakePortal) Cookies() ([]browser.Cookie, error)        { return p.cookies, nil }
func (p *fakePortal) SetCookies(cookies []browser.Cookie) error { p.cookies = cookies; return nil }
func (p *fakePortal) ClearCookies() error                       { p.cookies = nil; return nil }

func (p *fakePortal) StorageSnapshot() (browser.StorageState, error) { return p.storage, nil }
func (p *fakePortal) RestoreStorage(state browser.StorageState) error {
	p.storage = state
	return nil
}

func (p *fakePortal) WaitSettled(timeout float64) error { return nil }

func (p *fakePortal) FrameByURL(substr string) (browser.Frame, bool) {
	if !p.frameable {
		return nil, false
	}
	return p, true
}

func (p *fakePortal) Close() error { return nil }

func testProfile() Profile {
	profile := DefaultProfile()
	profile.LoginURL = fakeLoginURL
	profile.IframeURLFragment = ""
	return profile
}

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		Headless:        true,
		Timeout:         5 * time.Second,
		MaxModalRetries: 2,
		PersistSession:  false,
	}
}

func testCredentials(t *testing.T, answers string) config.Credentials {
	t.Helper()
	creds, err := config.NewCredentials("V12345678", "s3cret", answers)
	require.NoError(t, err)
	return creds
}

func newTestMachine(t *testing.T, portal *fakePortal, answers string, store *session.Store) *Machine {
	t.Helper()
	creds := testCredentials(t, answers)
	resolver := questions.NewResolver(answers)
	return NewMachineWithProfile(portal, creds, testConfig(), store, resolver, testProfile())
}

func TestLoginPasswordPath(t *testing.T) {
	portal := newFakePortal()
	machine := newTestMachine(t, portal, "", nil)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Success, result.Status)
	assert.True(t, result.SessionValid)
	assert.Equal(t, "V12345678", portal.filled["#txtUsuario"])
	assert.Equal(t, "s3cret", portal.filled["#txtClave"])
	assert.Equal(t, StateVerified, machine.State())
	assert.True(t, machine.Authenticated())
}

func TestLoginCachedFastPath(t *testing.T) {
	portal := newFakePortal()
	machine := newTestMachine(t, portal, "", nil)

	first, err := machine.Login(context.Background())
	require.NoError(t, err)
	require.Equal(t, Success, first.Status)

	navigations := portal.navigations
	second, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Success, second.Status)
	assert.Equal(t, navigations, portal.navigations, "cached path must not re-drive the flow")
}

func TestLoginSystemUnavailable(t *testing.T) {
	portal := newFakePortal()
	portal.unavailable = true
	machine := newTestMachine(t, portal, "", nil)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SystemUnavailable, result.Status)
	assert.False(t, result.SessionValid)
	assert.Empty(t, portal.filled, "no entry must be attempted on an unavailable portal")
}

func TestLoginSecurityQuestionsPartial(t *testing.T) {
	portal := newFakePortal()
	portal.questionLabels = map[string]string{
		"#lblPrimeraP": "¿Cuál es el nombre de su madre?",
		"#lblSegundaP": "¿Nombre de su primera mascota?",
		"#lblTerceraP": "¿Ciudad donde nació?",
		"#lblCuartaP":  "¿Marca de su primer carro?",
	}
	machine := newTestMachine(t, portal, "madre:Maria,mascota:Firulais", nil)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Success, result.Status)
	assert.Equal(t, "Maria", portal.filled["#txtPrimeraR"])
	assert.Equal(t, "Firulais", portal.filled["#txtSegundaR"])
	assert.NotContains(t, portal.filled, "#txtTerceraR")
	assert.Equal(t, "s3cret", portal.filled["#txtClave"], "partial answers must still reach password entry")
}

func TestLoginQuestionsNoneAnswered(t *testing.T) {
	portal := newFakePortal()
	portal.questionLabels = map[string]string{
		"#lblPrimeraP": "¿Cuál es el nombre de su madre?",
	}
	machine := newTestMachine(t, portal, "colegio:San Jose", nil)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Failed, result.Status)
	assert.Contains(t, result.Message, "security question")
	assert.NotContains(t, portal.filled, "#txtClave")
}

func TestLoginModalRecovery(t *testing.T) {
	portal := newFakePortal()
	portal.modalRemaining = 1
	machine := newTestMachine(t, portal, "", nil)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Success, result.Status)
	assert.Equal(t, 2, portal.navigations, "one restart after the modal")
}

func TestLoginModalRetryExhaustion(t *testing.T) {
	portal := newFakePortal()
	portal.modalRemaining = 100
	machine := newTestMachine(t, portal, "", nil)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MaxRetriesExceeded, result.Status)
	assert.Equal(t, 3, portal.navigations, "initial attempt plus two bounded restarts")
}

func TestLoginRejectedCredentials(t *testing.T) {
	portal := newFakePortal()
	portal.outcome = "rejected"
	machine := newTestMachine(t, portal, "", nil)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Failed, result.Status)
	assert.Contains(t, result.Message, "rejected")
	assert.False(t, machine.Authenticated())
}

func TestLoginIframePath(t *testing.T) {
	portal := newFakePortal()
	profile := testProfile()
	profile.IframeURLFragment = "login.aspx"
	creds := testCredentials(t, "")
	machine := NewMachineWithProfile(portal, creds, testConfig(), nil, questions.NewResolver(""), profile)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Success, result.Status)
}

func TestLoginIframeUnreachable(t *testing.T) {
	portal := newFakePortal()
	portal.frameable = false
	profile := testProfile()
	profile.IframeURLFragment = "login.aspx"
	creds := testCredentials(t, "")
	machine := NewMachineWithProfile(portal, creds, testConfig(), nil, questions.NewResolver(""), profile)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Failed, result.Status)
	assert.Contains(t, result.Message, "frame")
}

func TestLoginRestoreFastPath(t *testing.T) {
	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)

	// Persist an authenticated session from a prior run
	prior := newFakePortal()
	prior.screen = "home"
	prior.url = fakeHomeURL
	prior.cookies = []browser.Cookie{{Name: "ASP.NET_SessionId", Value: "abc", Domain: "banesconline.com", Path: "/"}}
	require.NoError(t, store.Save(prior, "V12345678"))

	portal := newFakePortal()
	machine := newTestMachine(t, portal, "", store)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Success, result.Status)
	assert.True(t, result.SessionValid)
	assert.Contains(t, result.Message, "restored")
	assert.Empty(t, portal.filled, "restore path must not drive the login form")
	require.Len(t, portal.cookies, 1)
	assert.Equal(t, "ASP.NET_SessionId", portal.cookies[0].Name)
}

func TestLoginRestoreInvalidFallsBack(t *testing.T) {
	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)

	// A stale record pointing back at the login form must be discarded
	prior := newFakePortal()
	prior.screen = "login"
	prior.url = fakeLoginURL
	require.NoError(t, store.Save(prior, "V12345678"))

	portal := newFakePortal()
	machine := newTestMachine(t, portal, "", store)

	result, err := machine.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Success, result.Status)
	assert.Equal(t, "s3cret", portal.filled["#txtClave"], "fresh flow must run after a failed restore")

	// The stale record must be gone
	fresh := newFakePortal()
	restored, err := store.Restore(fresh, "V12345678")
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestLoginCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	portal := newFakePortal()
	machine := newTestMachine(t, portal, "", nil)

	_, err := machine.Login(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, portal.navigations)
}
