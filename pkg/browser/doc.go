// Package browser provides the automation surface the rest of the system
// drives the bank portal through, built on Playwright.
//
// # Architecture
//
// The package is built around three core concepts:
//
//  1. Manager: owns the Playwright runtime and the single long-lived
//     browser process, with explicit Initialize/Shutdown lifecycle
//  2. Session: an isolated browser context plus page, implementing the
//     Page interface
//  3. Page/Frame: the minimal capability set (navigate, wait, fill, click,
//     evaluate, cookies, storage, content) that the login machine, session
//     store and extraction engine depend on
//
// Nothing above this package imports Playwright directly. Components accept
// the Page or Frame interfaces, which lets tests drive the core against
// scripted fakes without a browser process.
//
// The browser process is a pooled singleton: one launch is reused across
// sequential sessions. It is single-writer; callers must serialize use of
// a session, and the core issues one browser operation at a time.
package browser
