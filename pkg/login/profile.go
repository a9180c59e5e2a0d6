package login

import (
	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
	"github.com/danicanod/banker-venezuela-sub000/pkg/questions"
	"github.com/danicanod/banker-venezuela-sub000/pkg/session"
)

// Probe is one prioritized selector attempt for a logical page element.
// Zero values fall back to a visible-state wait with the short probe
// timeout.
type Probe struct {
	Selector  string
	WaitState string
	Timeout   float64
}

// Profile declares everything portal-specific about the login flow:
// where it starts, which selectors locate each logical element (as
// prioritized probe lists, tried in order), and the textual markers that
// identify outages, rejections and the authenticated area. The machine
// body stays generic; changing portals means changing the profile.
type Profile struct {
	// LoginURL is the flow entry point.
	LoginURL string

	// IframeURLFragment selects the child frame hosting the login form.
	// Empty means the form lives on the main page.
	IframeURLFragment string

	UsernameInput  []Probe
	UsernameSubmit []Probe

	// ModalIndicator detects the active-session interrupt modal;
	// ModalDismiss is the control that closes it.
	ModalIndicator []Probe
	ModalDismiss   []Probe

	// QuestionIndicator decides the security-question branch: if any
	// probe matches after the username step, questions are present.
	QuestionIndicator []Probe
	QuestionSubmit    []Probe

	PasswordInput  []Probe
	PasswordSubmit []Probe

	// Slots are the fixed question positions handed to the resolver.
	Slots []questions.Slot

	// UnavailableMarkers in the page content right after navigation mean
	// the portal is down.
	UnavailableMarkers []string

	// FailureMarkers in the page content after the final submit mean the
	// portal rejected the credentials.
	FailureMarkers []string

	// Markers drive the authenticated-page heuristic after submit and
	// after a session restore.
	Markers session.Markers
}

// DefaultProfile targets the portal's current structure.
func DefaultProfile() Profile {
	return Profile{
		LoginURL:          "https://www.banesconline.com/mantis/Website/Login.aspx",
		IframeURLFragment: "login.aspx",

		UsernameInput: []Probe{
			{Selector: "#txtUsuario"},
			{Selector: "input[name='txtUsuario']"},
			{Selector: "input[id*='Usuario']"},
		},
		UsernameSubmit: []Probe{
			{Selector: "#bAceptar"},
			{Selector: "input[type='submit']"},
		},

		ModalIndicator: []Probe{
			{Selector: "#lblMensajeSesion", Timeout: 2000},
			{Selector: "#pnlSesionActiva", Timeout: 1000},
		},
		ModalDismiss: []Probe{
			{Selector: "#bProcesar"},
			{Selector: "#btnContinuar"},
		},

		QuestionIndicator: []Probe{
			{Selector: "#lblPrimeraP"},
			{Selector: "#lblSegundaP", Timeout: 1000},
		},
		QuestionSubmit: []Probe{
			{Selector: "#bAceptar"},
			{Selector: "input[type='submit']"},
		},

		PasswordInput: []Probe{
			{Selector: "#txtClave"},
			{Selector: "input[type='password']"},
		},
		PasswordSubmit: []Probe{
			{Selector: "#bAceptar"},
			{Selector: "input[type='submit']"},
		},

		Slots: questions.DefaultSlots,

		UnavailableMarkers: []string{
			"sistema no disponible",
			"servicio no disponible",
			"fuera de servicio",
			"en mantenimiento",
		},
		FailureMarkers: []string{
			"datos incorrectos",
			"usuario o clave",
			"clave errada",
			"usuario bloqueado",
			"intentos fallidos",
		},

		Markers: session.DefaultMarkers,
	}
}

func (p Probe) withDefaults() browser.WaitOptions {
	opts := browser.WaitOptions{State: p.WaitState, Timeout: p.Timeout}
	if opts.State == "" {
		opts.State = "visible"
	}
	if opts.Timeout == 0 {
		opts.Timeout = browser.DefaultProbeTimeout
	}
	return opts
}
