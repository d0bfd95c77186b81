// Package connection is the HTTP client tokauth-cli uses to reach
// tokauth-server. It unwraps the server's response envelope and turns
// error envelopes into *APIError.
package connection
