package catalog

// Service is keyed by its uuid in the "id" field; Mongo's own _id is left to
// the driver and never read.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Description     string  `bson:"description" json:"description"`
	Price           float64 `bson:"price" json:"price"`
	DurationMinutes int     `bson:"duration_minutes" json:"duration_minutes"`
}

// UpsertRequest is the body of create and replace calls. Pointers let the
// validator tell a missing field from a zero value.
type UpsertRequest struct {
	Name            *string  `json:"name" validate:"required,notblank"`
	Description     *string  `json:"description" validate:"required"`
	Price           *float64 `json:"price" validate:"required,gte=0"`
	DurationMinutes *int     `json:"duration_minutes" validate:"required,gt=0"`
}
