// Package app wires the age-heaping service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, config.yaml, AGEHEAP_* variables)
//	2. Initialize the JSON logger and OpenTelemetry providers
//	3. Create the metrics instruments and the services
//	4. Build the chi router and its middleware chain
//	5. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Tests build the application with New, passing an explicit configuration
// and logger, and drive Router with httptest.
//
// # Graceful Shutdown
//
// Run returns after SIGINT or SIGTERM once in-flight requests completed, the
// telemetry providers flushed and the log file closed. Errors are returned to
// the caller; the package never calls os.Exit.
package app
