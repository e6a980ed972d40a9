package domain

// User is the subset of customer data the booking flow reads
type User struct {
	ID          int64
	Name        string
	Phone       *string
	CountryCode *string
}

// Vehicle is a customer's car
type Vehicle struct {
	ID           int64
	UserID       int64
	Name         string
	LicensePlate *string
	IsActive     bool
	IsDefault    bool
}

// Service is a wash package from the catalog
type Service struct {
	ID              int64
	Name            string
	Price           float64
	DurationMinutes int
	IsActive        bool
}
