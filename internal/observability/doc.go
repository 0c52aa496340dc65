// Package observability builds the structured logger shared by the gate,
// the request logger and the server lifecycle.
package observability
