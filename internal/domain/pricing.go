package domain

import "math"

// Price is the monetary snapshot stored on a booking
type Price struct {
	Subtotal   float64
	ServiceFee float64
	Tax        float64
	Total      float64
}

// CalculatePrice computes subtotal, flat fee, tax on the subtotal and total
func CalculatePrice(servicePrice, serviceFee, taxRate float64) Price {
	tax := roundCents(servicePrice * taxRate)
	return Price{
		Subtotal:   servicePrice,
		ServiceFee: serviceFee,
		Tax:        tax,
		Total:      roundCents(servicePrice + serviceFee + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
