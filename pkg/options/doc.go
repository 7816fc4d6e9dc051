// Package options loads label/value pairs for select controls, either from a
// static list or from a remote paginated listing endpoint.
//
// HTTPFetcher translates a Query into a GET request and normalises the
// listing envelope. Loader models one open select: it accumulates pages,
// appends the "See more" sentinel while more pages exist, and discards
// responses that arrive after the search changed or the loader was closed.
package options
