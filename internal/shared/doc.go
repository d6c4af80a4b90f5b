// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the workbook fixtures and log
// capture used by the tests of the services, transport, app and CLI
// packages.
package shared
