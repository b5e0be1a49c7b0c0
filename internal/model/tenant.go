package model

// Tenant represents an active business entity whose records are synchronized.
// Rows come from the contratos table and are read-only for the engine.
type Tenant struct {
	ID     int64
	Name   string
	TaxID  string
	Active bool
}
