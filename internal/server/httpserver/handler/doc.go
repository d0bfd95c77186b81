// Package handler implements the tokauth HTTP API.
//
// Every JSON response uses the Response envelope. Failures carry a
// TA-<AREA>-<NNNN> code both in the body and in the X-Error-Code header.
//
//	POST /v1/register      {"username","password"}  201 | 409
//	POST /v1/login         {"username","password"}  200 {"token"} | 401
//	POST /v1/authenticate  {"token"}                200 {"username"} | 401
//	GET  /v1/whoami        Authorization: Bearer    200 {"username"} | 401
//	GET  /health, /ready
package handler
