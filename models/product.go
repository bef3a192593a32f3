package models

import "go.mongodb.org/mongo-driver/v2/bson"

type ProductCategory string

const (
	CategorySchool      ProductCategory = "school"
	CategoryCorporate   ProductCategory = "corporate"
	CategoryHospitality ProductCategory = "hospitality"
	CategorySports      ProductCategory = "sports"
)

func ValidProductCategory(s string) bool {
	switch ProductCategory(s) {
	case CategorySchool, CategoryCorporate, CategoryHospitality, CategorySports:
		return true
	}
	return false
}

type Product struct {
	Id             bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name           string            `bson:"name" json:"name"`
	Slug           string            `bson:"slug" json:"slug"`
	Category       ProductCategory   `bson:"category" json:"category"`
	Description    string            `bson:"description" json:"description"`
	Fabric         string            `bson:"fabric" json:"fabric"`
	GSM            int               `bson:"gsm" json:"gsm"`
	MOQ            int               `bson:"moq" json:"moq"`
	BasePriceUSD   float64           `bson:"basePriceUSD" json:"basePriceUSD"`
	LeadTimeDays   int               `bson:"leadTimeDays" json:"leadTimeDays"`
	ImageUrls      []string          `bson:"imageUrls" json:"imageUrls"`
	Certifications []string          `bson:"certifications" json:"certifications"`
	Specs          map[string]string `bson:"specs,omitempty" json:"specs,omitempty"`
	Active         bool              `bson:"active" json:"active"`
}
