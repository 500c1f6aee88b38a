package carapi

// Car is a listing as returned by GET /cars/{id}.
type Car struct {
	ID              int      `json:"id"`
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	Price           float64  `json:"price"`
	Mileage         int      `json:"mileage"`
	FuelType        string   `json:"fuel_type"`
	Transmission    string   `json:"transmission"`
	Condition       string   `json:"condition"`
	EngineCondition string   `json:"engine_condition,omitempty"`
	Color           string   `json:"color,omitempty"`
	Location        string   `json:"location,omitempty"`
	Description     string   `json:"description,omitempty"`
	ImageURLs       []string `json:"image_urls,omitempty"`
	VIN             string   `json:"vin,omitempty"`
	IsAvailable     bool     `json:"is_available"`
	Specs           *Specs   `json:"specs,omitempty"`
	Scores          *Scores  `json:"scores,omitempty"`
}

type Specs struct {
	EngineSize      *float64 `json:"engine_size,omitempty"`
	Cylinders       *int     `json:"cylinders,omitempty"`
	Horsepower      *int     `json:"horsepower,omitempty"`
	Torque          *int     `json:"torque,omitempty"`
	Acceleration    *float64 `json:"acceleration_0_60,omitempty"`
	TopSpeed        *int     `json:"top_speed,omitempty"`
	MPGCity         *float64 `json:"mpg_city,omitempty"`
	MPGHighway      *float64 `json:"mpg_highway,omitempty"`
	SeatingCapacity *int     `json:"seating_capacity,omitempty"`
	Doors           *int     `json:"doors,omitempty"`
	Drivetrain      *string  `json:"drivetrain,omitempty"`
}

type Scores struct {
	ReliabilityScore *float64 `json:"reliability_score,omitempty"`
	SafetyScore      *float64 `json:"safety_score,omitempty"`
	OverallScore     *float64 `json:"overall_score,omitempty"`
	CrashTestRating  *string  `json:"crash_test_rating,omitempty"`
}

// Favorite is a server-side bookmark of a car by the logged in user.
// CreatedAt is kept verbatim, the API emits timestamps without a zone.
type Favorite struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	CarID     int    `json:"car_id"`
	CreatedAt string `json:"created_at"`
	Car       Car    `json:"car"`
}
