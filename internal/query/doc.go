// Package query reads entries back out of a log store: predicate filters,
// CEL expression filters, pagination and the clear-all operation, each
// reported as a status-tagged result rather than a bare error.
package query
