package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuoteStatus string

// The status set is flat: an administrator may move a request between any two
// states, and "closed" can be reopened.
const (
	QuoteStatusNew       QuoteStatus = "new"
	QuoteStatusReviewing QuoteStatus = "reviewing"
	QuoteStatusQuoted    QuoteStatus = "quoted"
	QuoteStatusClosed    QuoteStatus = "closed"
)

var ErrInvalidQuoteStatus = errors.New("invalid quote status")

func ParseQuoteStatus(s string) (QuoteStatus, error) {
	switch QuoteStatus(s) {
	case QuoteStatusNew, QuoteStatusReviewing, QuoteStatusQuoted, QuoteStatusClosed:
		return QuoteStatus(s), nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidQuoteStatus, s)
}

// QuoteDraftItem is one prospective line item. A draft holds at most one entry
// per product id.
type QuoteDraftItem struct {
	ProductID          string   `bson:"productId" json:"productId"`
	Quantity           int      `bson:"quantity" json:"quantity"`
	Sizes              []string `bson:"sizes" json:"sizes"`
	CustomizationNotes string   `bson:"customizationNotes,omitempty" json:"customizationNotes,omitempty"`
}

// ActivityLogEntry records one administrative action. Entries are append-only
// and never edited once written.
type ActivityLogEntry struct {
	Action    string    `bson:"action" json:"action"`
	AdminUID  string    `bson:"adminUid" json:"adminUid"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type QuoteRequest struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	CompanyName        string `bson:"companyName" json:"companyName"`
	ContactName        string `bson:"contactName" json:"contactName"`
	Email              string `bson:"email" json:"email"`
	Phone              string `bson:"phone" json:"phone"`
	Industry           string `bson:"industry" json:"industry"`
	DeliveryCountry    string `bson:"deliveryCountry" json:"deliveryCountry"`
	TargetDeliveryDate string `bson:"targetDeliveryDate" json:"targetDeliveryDate"`
	BudgetRange        string `bson:"budgetRange" json:"budgetRange"`

	Items       []QuoteDraftItem `bson:"items" json:"items"`
	Attachments []string         `bson:"attachments" json:"attachments"`

	Status     QuoteStatus `bson:"status" json:"status"`
	AdminNotes string      `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`

	AssignedSupplierID string `bson:"assignedSupplierId,omitempty" json:"assignedSupplierId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	ActivityLog []ActivityLogEntry `bson:"activityLog" json:"activityLog"`
}
