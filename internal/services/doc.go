// Package services implements the business logic layer of the age-heaping
// service. It sits between the HTTP handlers and CLI on one side and the
// spreadsheet reader and index engine on the other.
//
// # Services
//
//	HeapingService  validates and stores uploads, reads workbooks or JSON
//	                rows, computes the indices and grades them
//	HealthService   health, readiness, liveness and version reporting
//
// # Errors
//
// HeapingService returns *errors.APIError values whose status code and
// user-facing message are ready to be rendered:
//
//	invalid upload (name, extension)   400
//	missing Age/Homme/Femme columns    400
//	upload larger than the limit       413
//	unreadable workbook or sheet       422
//	anything else                      500 "Erreur lors du traitement: ..."
//
// # Observability
//
// Every analysis runs in its own span and is counted by outcome and source
// in the metrics of infrastructure.Metrics.
package services
