package dto

type AddDraftItemDTO struct {
	ProductID          string   `json:"productId" binding:"required"`
	Quantity           int      `json:"quantity" binding:"required,min=1"`
	Sizes              []string `json:"sizes"`
	CustomizationNotes string   `json:"customizationNotes"`
}

type UpdateDraftQuantityDTO struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
