// Package http implements the read-only HTTP API over the generated dataset.
//
// Handlers stay thin: they parse and validate the request, call the data
// service and render the result with go-chi/render. Every error goes through
// errors.ErrorHandler and leaves as RFC 7807 problem details.
//
// Routes, all under /api unless noted:
//
//	GET /health, /health/ready, /health/live, /version
//	GET /metadata
//	GET /statistics
//	GET /records?state=&level=&year=&limit=&offset=
//	GET /records/{geoID}
//	GET /states
//	GET /states/{state}
//	GET /data/*    (output directory, outside /api)
package http
