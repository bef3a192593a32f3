package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// QuoteResponse is a supplier's pricing against an assigned quote request.
type QuoteResponse struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	QuoteRequestID bson.ObjectID `bson:"quoteRequestId" json:"quoteRequestId"`
	SupplierID     string        `bson:"supplierId" json:"supplierId"`
	UnitPrice      float64       `bson:"unitPrice" json:"unitPrice"`
	SetupCost      float64       `bson:"setupCost" json:"setupCost"`
	SampleCost     float64       `bson:"sampleCost" json:"sampleCost"`
	LeadTime       int           `bson:"leadTime" json:"leadTime"`
	PaymentTerms   string        `bson:"paymentTerms" json:"paymentTerms"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
}
