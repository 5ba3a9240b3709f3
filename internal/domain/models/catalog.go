package models

// Phone is a catalog entry used by the finder and the comparison tool.
type Phone struct {
	ID         string  `json:"id"`
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	Price      float64 `json:"price"`
	Rating     float64 `json:"rating"`
	RAMGB      float64 `json:"ram_gb"`
	StorageGB  float64 `json:"storage_gb"`
	BatteryMAh float64 `json:"battery_mah"`
	CameraMP   float64 `json:"camera_mp"`
	Display    string  `json:"display,omitempty"`
	Processor  string  `json:"processor,omitempty"`
	Image      string  `json:"image,omitempty"`
}

// Shop is a physical store that stocks phones.
type Shop struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Phone       string   `json:"phone,omitempty"`
	PhoneBrands []string `json:"phone_brands"`
	Inventory   []string `json:"inventory"`
}

// SpecComparison is the per-spec outcome of a two-phone comparison.
type SpecComparison struct {
	Spec       string  `json:"spec"`
	Label      string  `json:"label"`
	LeftValue  float64 `json:"left_value"`
	RightValue float64 `json:"right_value"`
	LeftScore  float64 `json:"left_score"`
	RightScore float64 `json:"right_score"`
	Winner     string  `json:"winner"` // left | right | tie
}

// Recommendation names the phone that won a comparison.
type Recommendation struct {
	ID    string  `json:"id"`
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Score float64 `json:"score"`
}

// Comparison is the full result of comparing two phones.
type Comparison struct {
	Left         Phone            `json:"left"`
	Right        Phone            `json:"right"`
	PerSpec      []SpecComparison `json:"per_spec"`
	ScoreLeft    float64          `json:"score_left"`
	ScoreRight   float64          `json:"score_right"`
	Recommended  *Recommendation  `json:"recommended"`
	Summary      string           `json:"summary"`
	Explanations []string         `json:"explanations"`
}
