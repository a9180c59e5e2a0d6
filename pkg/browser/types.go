package browser

// Frame is the minimal automation capability the core components depend on.
// Both a full page and an embedded iframe satisfy it; test fakes implement
// it without a real browser.
type Frame interface {
	// WaitFor waits until an element matching the selector reaches the
	// requested state.
	WaitFor(selector string, opts WaitOptions) error

	// Fill replaces the value of the input matching the selector.
	Fill(selector, value string, timeout float64) error

	// Click clicks the element matching the selector.
	Click(selector string, timeout float64) error

	// Evaluate runs a script in the frame and returns its JSON-ish result.
	Evaluate(script string) (interface{}, error)

	// Content returns the full HTML of the frame.
	Content() (string, error)

	// URL returns the current frame URL.
	URL() string
}

// Page extends Frame with navigation, cookie and storage access. It is the
// complete Browser Automation Surface consumed by the login machine, the
// session store and the extraction engine.
type Page interface {
	Frame

	// Navigate drives the page to the given URL.
	Navigate(url string, opts NavigateOptions) error

	// Reload reloads the current page.
	Reload(timeout float64) error

	// Title returns the current document title.
	Title() (string, error)

	// Cookies returns all cookies visible to the page's context.
	Cookies() ([]Cookie, error)

	// SetCookies installs cookies into the page's context.
	SetCookies(cookies []Cookie) error

	// ClearCookies removes all cookies from the page's context.
	ClearCookies() error

	// StorageSnapshot captures localStorage and sessionStorage.
	StorageSnapshot() (StorageState, error)

	// RestoreStorage replays a storage snapshot into the page.
	RestoreStorage(state StorageState) error

	// WaitSettled waits for the page to reach a quiet load state after an
	// action that may trigger navigation or an async refresh.
	WaitSettled(timeout float64) error

	// FrameByURL returns the first child frame whose URL contains the
	// given substring.
	FrameByURL(substr string) (Frame, bool)

	// Close closes the page and its browser context.
	Close() error
}

// Cookie is a browser cookie in transport-neutral form.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"http_only"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"same_site"`
}

// StorageState holds the key/value pairs of both page-scoped storages.
type StorageState struct {
	Local   map[string]string `json:"local"`
	Session map[string]string `json:"session"`
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// WaitOptions configures element waiting behavior.
type WaitOptions struct {
	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout in milliseconds
	Timeout float64
}

// Default values for various operations
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultProbeTimeout   = 5000.0  // short bounded wait for optional elements
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)
