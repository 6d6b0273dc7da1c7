package booking

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID          string    `bson:"id" json:"id"`
	ServiceID   string    `bson:"service_id" json:"service_id"`
	ServiceName string    `bson:"service_name" json:"service_name"`
	ClientName  string    `bson:"client_name" json:"client_name"`
	ClientPhone string    `bson:"client_phone" json:"client_phone"`
	ClientEmail string    `bson:"client_email" json:"client_email"`
	Date        string    `bson:"date" json:"date"`
	Time        string    `bson:"time" json:"time"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Active reports whether the appointment still holds its slot.
func (a Appointment) Active() bool {
	return a.Status != StatusCancelled
}

type CreateRequest struct {
	ServiceID   string `json:"service_id" validate:"required,notblank"`
	ClientName  string `json:"client_name" validate:"required,notblank"`
	ClientPhone string `json:"client_phone" validate:"required,notblank"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date" validate:"required,date"`
	Time        string `json:"time" validate:"required,clock,slot"`
}

type ListFilter struct {
	Date   string `validate:"omitempty,date"`
	Status string `validate:"omitempty,oneof=confirmed cancelled"`
}
