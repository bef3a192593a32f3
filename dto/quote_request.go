package dto

// SubmitQuoteRequestDTO carries the form fields of an RFQ submission. All of
// them are required; the line items come from the buyer's quote draft and the
// attachments from the multipart files.
type SubmitQuoteRequestDTO struct {
	CompanyName        string `json:"companyName" binding:"required"`
	ContactName        string `json:"contactName" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone" binding:"required"`
	Industry           string `json:"industry" binding:"required"`
	DeliveryCountry    string `json:"deliveryCountry" binding:"required"`
	TargetDeliveryDate string `json:"targetDeliveryDate" binding:"required"`
	BudgetRange        string `json:"budgetRange" binding:"required"`
}

type UpdateQuoteStatusDTO struct {
	Status string `json:"status" binding:"required"`
}

// Notes is a pointer so an explicit empty string clears the saved notes.
type SaveAdminNotesDTO struct {
	Notes *string `json:"notes" binding:"required"`
}

type AssignSupplierDTO struct {
	SupplierID string `json:"supplierId" binding:"required"`
}
