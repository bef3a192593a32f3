package dto

type CreateQuoteResponseDTO struct {
	UnitPrice    float64 `json:"unitPrice" binding:"required,gt=0"`
	SetupCost    float64 `json:"setupCost" binding:"gte=0"`
	SampleCost   float64 `json:"sampleCost" binding:"gte=0"`
	LeadTime     int     `json:"leadTime" binding:"required,gt=0"`
	PaymentTerms string  `json:"paymentTerms" binding:"required"`
}
