// Package api contains the request contracts of the age-heaping HTTP API.
// Version v1 represents the current stable API version.
package api

// AgeRowRequest is one row of an age table sent as JSON. Age is a pointer so
// that a missing age is told apart from age 0; validation rejects the request
// when any row lacks one.
type AgeRowRequest struct {
	Age   *float64 `json:"age" validate:"required,gte=0,lte=150"`
	Homme float64  `json:"homme" validate:"gte=0"`
	Femme float64  `json:"femme" validate:"gte=0"`
}

// IndicesRequest is the body of POST /api/indices. Rows are analysed in the
// order given.
type IndicesRequest struct {
	Rows []AgeRowRequest `json:"rows" validate:"required,min=1,max=10000,dive"`
}

// ExportRequest carries the query parameters of POST /api/export.
type ExportRequest struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=json csv xlsx"`
	Sheet  string `json:"sheet,omitempty" query:"sheet" validate:"omitempty,max=31"`
}
