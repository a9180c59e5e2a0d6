package session

import "strings"

// Markers describe what an authenticated page looks like versus a login
// form. Matching is case-insensitive substring search over the current
// URL and page content.
type Markers struct {
	// AuthURLFragments appear in URLs inside the banking area
	AuthURLFragments []string
	// AuthContent appears only on authenticated pages
	AuthContent []string
	// LoginContent appears on the login form; its presence invalidates
	LoginContent []string
}

// DefaultMarkers match the portal's banking area and login form.
var DefaultMarkers = Markers{
	AuthURLFragments: []string{"default.aspx", "principal", "cuentas"},
	AuthContent:      []string{"cerrar sesión", "cerrar sesion", "últimos movimientos", "ultimos movimientos", "posición consolidada", "posicion consolidada"},
	LoginContent:     []string{"txtusuario", "iniciar sesión", "iniciar sesion", "clave de acceso"},
}

// contentReader is the slice of the page surface validation needs.
type contentReader interface {
	Content() (string, error)
	URL() string
}

// IsValid reports whether the page currently looks authenticated: its URL
// or content carries banking-area markers and the content carries no
// login-form markers. Used right after a restore to decide whether to
// trust it.
func (s *Store) IsValid(page contentReader) bool {
	return IsValidWith(page, DefaultMarkers)
}

// IsValidWith runs the authenticated-page heuristic with custom markers.
func IsValidWith(page contentReader, markers Markers) bool {
	content, err := page.Content()
	if err != nil {
		return false
	}
	content = strings.ToLower(content)
	url := strings.ToLower(page.URL())

	for _, marker := range markers.LoginContent {
		if strings.Contains(content, marker) {
			return false
		}
	}

	for _, fragment := range markers.AuthURLFragments {
		if strings.Contains(url, fragment) {
			return true
		}
	}
	for _, marker := range markers.AuthContent {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
