package dto

type CreateProductDTO struct {
	Name           string            `json:"name" binding:"required,min=3"`
	Category       string            `json:"category" binding:"required,oneof=school corporate hospitality sports"`
	Description    string            `json:"description"`
	Fabric         string            `json:"fabric" binding:"required"`
	GSM            int               `json:"gsm" binding:"required,gt=0"`
	MOQ            int               `json:"moq" binding:"required,gt=0"`
	BasePriceUSD   float64           `json:"basePriceUSD" binding:"required,gt=0"`
	LeadTimeDays   int               `json:"leadTimeDays" binding:"required,gt=0"`
	Certifications []string          `json:"certifications"`
	Specs          map[string]string `json:"specs"`
	Active         bool              `json:"active"`
}

type UpdateProductDTO struct {
	Name              *string            `json:"name,omitempty"`
	Category          *string            `json:"category,omitempty"`
	Description       *string            `json:"description,omitempty"`
	Fabric            *string            `json:"fabric,omitempty"`
	GSM               *int               `json:"gsm,omitempty"`
	MOQ               *int               `json:"moq,omitempty"`
	BasePriceUSD      *float64           `json:"basePriceUSD,omitempty"`
	LeadTimeDays      *int               `json:"leadTimeDays,omitempty"`
	Certifications    *[]string          `json:"certifications,omitempty"`
	Specs             *map[string]string `json:"specs,omitempty"`
	Active            *bool              `json:"active,omitempty"`
	RemovedImagesUrls []string           `json:"removedImagesUrls,omitempty"`
}
