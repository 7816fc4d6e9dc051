// Package restclient talks to the menu and application REST API: a thin
// JSON client that carries the active locale and bearer token on every
// request, a re-entry guard for submit buttons, and typed helpers for the
// menu, category, item, ad, and application resources.
package restclient
