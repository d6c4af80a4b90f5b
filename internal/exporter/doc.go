// Package exporter writes analysis results as JSON, CSV or an Excel workbook.
//
// The CSV export is flat, one line per index value:
//
//	index,category,value
//	whipple,homme,1.2162
//	myers,ensemble,
//	icnu,indice_a,12.5
//
// Absent values are empty cells. The workbook export holds the indices and
// their grades on sheet "Indices" and the normalized age table on sheet
// "Donnees".
package exporter
