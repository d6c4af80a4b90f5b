// Package http implements the HTTP handlers of the age-heaping service. It
// is a thin layer over the services package: handlers parse requests, call a
// service and render the result or an RFC 7807 problem.
//
// # Endpoints
//
//	POST /upload               multipart workbook (field "file") → indices
//	POST /api/upload           same as /upload
//	POST /api/indices          JSON {"rows":[{"age","homme","femme"}]} → indices
//	POST /api/export?format=   workbook or JSON rows → xlsx, csv or json download
//	GET  /api/health           health
//	GET  /api/health/ready     readiness, 503 when uploads cannot be stored
//	GET  /api/health/live      liveness
//	GET  /api/version          build information
//
// # Responses
//
// A successful analysis renders domain.AnalysisResponse:
//
//	{"success": true, "resultats": {...}, "data": [...], "assessment": {...}, "warnings": []}
//
// Errors render a problem document that also carries the message under
// "error", the key browser clients of the upload form read:
//
//	{"type": "...", "title": "Bad Request", "status": 400,
//	 "detail": "Aucun fichier fourni", "error": "Aucun fichier fourni"}
package http
