// Package template defines the template engine seam used by HTML renderers
// for page chrome. Control markup is produced in Go; only the outer layout
// goes through an engine.
package template
