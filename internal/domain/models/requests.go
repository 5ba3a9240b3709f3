package models

// Requests for the portal HTTP endpoints. Query DTOs bind from the URL,
// body DTOs from JSON or form data.

type ForecastRequest struct {
	Sample   bool   `json:"sample" form:"sample"`
	Source   string `json:"source" form:"source" validate:"omitempty,oneof=sample upload warehouse"`
	Product  string `json:"product" form:"product" validate:"max=128"`
	Freq     string `json:"freq" form:"freq" default:"M" validate:"oneof=D W M d w m"`
	NPeriods int    `json:"n_periods" form:"n_periods" validate:"gte=0,lte=1000"`
}

type SaleRecordInput struct {
	Date    string  `json:"date" validate:"required"`
	Product string  `json:"product" validate:"max=128"`
	Sales   float64 `json:"sales" validate:"gte=0"`
}

type IngestSalesRequest struct {
	Records []SaleRecordInput `json:"records" validate:"required,min=1,dive"`
}

type PhoneQuery struct {
	Q          string `query:"q"`
	Brand      string `query:"brand"`
	ModelID    string `query:"model_id"`
	MinPrice   int    `query:"min_price" validate:"gte=0"`
	MaxPrice   int    `query:"max_price" validate:"gte=0"`
	RAMMin     int    `query:"ram_min" validate:"gte=0"`
	StorageMin int    `query:"storage_min" validate:"gte=0"`
	Sort       string `query:"sort" validate:"omitempty,oneof=price_asc price_desc rating_desc"`
}

type ShopQuery struct {
	City    string `query:"city"`
	State   string `query:"state"`
	ModelID string `query:"model_id"`
	Brand   string `query:"brand"`
}

type CompareRequest struct {
	ID1 string `json:"id1" form:"id1"`
	ID2 string `json:"id2" form:"id2"`
}

type ListingQuery struct {
	Q      string `query:"q"`
	City   string `query:"city"`
	State  string `query:"state"`
	Type   string `query:"type"`
	Status string `query:"status" default:"available"`
}

type CreateListingRequest struct {
	Type         string   `json:"type" form:"type" default:"sell"`
	Brand        string   `json:"brand" form:"brand"`
	Model        string   `json:"model" form:"model"`
	Condition    string   `json:"condition" form:"condition"`
	Price        float64  `json:"price" form:"price" validate:"gte=0"`
	Description  string   `json:"description" form:"description"`
	City         string   `json:"city" form:"city"`
	State        string   `json:"state" form:"state"`
	SellerName   string   `json:"seller_name" form:"seller_name"`
	ContactPhone string   `json:"contact_phone" form:"contact_phone"`
	Images       []string `json:"images" form:"images"`
}

type MarkSoldRequest struct {
	ID string `json:"id" form:"id"`
}

type ReviewQuery struct {
	Q         string `query:"q"`
	Model     string `query:"model"`
	City      string `query:"city"`
	MinRating int    `query:"min_rating" validate:"gte=0,lte=5"`
	Sort      string `query:"sort" default:"newest"`
}

type CreateReviewRequest struct {
	ReviewerName string `json:"reviewer_name" form:"reviewer_name"`
	Rating       int    `json:"rating" form:"rating"`
	Title        string `json:"title" form:"title"`
	Body         string `json:"body" form:"body"`
	Model        string `json:"model" form:"model"`
	City         string `json:"city" form:"city"`
}

type UpcomingQuery struct {
	Q     string `query:"q"`
	Brand string `query:"brand"`
	Days  int    `query:"days" validate:"gte=0"`
	All   string `query:"all"`
	Sort  string `query:"sort" default:"soon"`
}

type NotifyRequest struct {
	PhoneID string `json:"phone_id" form:"phone_id"`
	Name    string `json:"name" form:"name"`
	Contact string `json:"contact" form:"contact"`
	Notes   string `json:"notes" form:"notes"`
}
