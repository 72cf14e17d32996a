package domain

import "time"

// OrderStatus is the lifecycle state of a cart item.
type OrderStatus string

const (
	StatusReserved  OrderStatus = "reserved"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known states.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusReserved, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Respondent types accepted on a review. Empty means not given.
const (
	RespondentChild  = "child"
	RespondentParent = "parent"
)

// UserReview is attached to a delivered cart item.
type UserReview struct {
	Rating         int       `json:"rating"`
	RespondentType string    `json:"respondentType"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CartItem embeds a snapshot of the toy taken when it was first added.
type CartItem struct {
	Toy        Toy         `json:"toy"`
	Quantity   int         `json:"quantity"`
	Status     OrderStatus `json:"status"`
	UserReview *UserReview `json:"userReview,omitempty"`
	AddedAt    time.Time   `json:"addedAt"`
}
