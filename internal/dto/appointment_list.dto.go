package dto

import "time"

type AppointmentListDTO struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	BarberID      string    `json:"barber_id"`
	BarberName    string    `json:"barber_name"`
	Service       string    `json:"service"`
	Date          string    `json:"date"`
	DateDisplay   string    `json:"date_display"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

type DashboardStats struct {
	Pending        int64 `json:"pending"`
	Confirmed      int64 `json:"confirmed"`
	Total          int64 `json:"total"`
	PendingReviews int64 `json:"pending_reviews"`
}
