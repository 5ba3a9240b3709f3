package models

// Listing is a used-phone marketplace post.
type Listing struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"` // sell | buy
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	Condition    string   `json:"condition"`
	Price        float64  `json:"price"`
	Description  string   `json:"description"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	SellerName   string   `json:"seller_name"`
	ContactPhone string   `json:"contact_phone"`
	Images       []string `json:"images"`
	Status       string   `json:"status"` // available | sold
	PostedAt     string   `json:"posted_at"`
}

const (
	ListingAvailable = "available"
	ListingSold      = "sold"
)

// Review is a user review of a phone model.
type Review struct {
	ID           string `json:"id"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Model        string `json:"model"`
	City         string `json:"city"`
	CreatedAt    string `json:"created_at"`
	Visible      bool   `json:"visible"`
}

// UpcomingPhone is an announced but not yet released phone.
type UpcomingPhone struct {
	ID            string  `json:"id"`
	Brand         string  `json:"brand"`
	Model         string  `json:"model"`
	ReleaseDate   string  `json:"release_date"`
	ExpectedPrice float64 `json:"expected_price,omitempty"`
	Description   string  `json:"description,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	Image         string  `json:"image,omitempty"`
}

// UpcomingItem decorates an upcoming phone with the days left to release.
type UpcomingItem struct {
	UpcomingPhone
	DaysUntil *int `json:"_days_until"`
}

// Notification is a request to be told when a phone is released.
type Notification struct {
	ID        string `json:"id"`
	PhoneID   string `json:"phone_id"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

// PortalEvent is published to the event topic when portal records change.
type PortalEvent struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Key       string      `json:"key"`
	CreatedAt string      `json:"created_at"`
	Payload   interface{} `json:"payload"`
}

const (
	EventListingCreated        = "listing.created"
	EventListingSold           = "listing.sold"
	EventReviewCreated         = "review.created"
	EventNotificationRequested = "notification.requested"
)
