package models

// Vehicle is a catalog entry used for display enrichment (make/model
// stamping on work orders). The reminder core never requires a catalog
// hit: a missing vehicle simply leaves the enriched fields empty.
type Vehicle struct {
	ID     string `bson:"_id" json:"id"`
	Make   string `bson:"make" json:"make"`
	Model  string `bson:"model" json:"model"`
	Year   int    `bson:"year" json:"year"`
	Status string `bson:"status" json:"status"` // "active" or "inactive"
}
