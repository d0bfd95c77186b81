// Package httpserver provides the HTTP server for tokauth.
//
// It is built on net/http: a ServeMux with method patterns routes the
// API in package handler, and a small middleware chain adds panic
// recovery, request IDs, CORS, audit logging and Prometheus metrics.
package httpserver
