// Package cli implements the interactive jobtrack client: a REPL over the
// application services, with an interactive list view driven by the query
// pipeline (search, filters, sorting, pagination).
package cli
