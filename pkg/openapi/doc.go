// Package openapi describes step submissions as OpenAPI 3 documents and
// validates submitted values against the generated schemas. It is built on
// kin-openapi.
package openapi
