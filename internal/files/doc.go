// Package files discovers the workbooks of a directory for batch analysis.
//
// Example usage:
//
//	discovery := files.NewDiscovery([]string{"xlsx"})
//	workbooks, err := discovery.FindWorkbooks("recensements", true)
package files
