package dto

import "github.com/yigit/coursestore/internal/app/models"

// AdminStatsResponse are the dashboard counters. TotalRevenue includes
// refunded orders; NetRevenue does not.
type AdminStatsResponse struct {
	TotalRevenue  string `json:"totalRevenue" example:"8997.00"`
	NetRevenue    string `json:"netRevenue" example:"5998.00"`
	TotalSales    int64  `json:"totalSales" example:"3"`
	TotalStudents int64  `json:"totalStudents" example:"2"`
}

// NewAdminStatsResponse converts the aggregates
func NewAdminStatsResponse(s *models.AdminStats) AdminStatsResponse {
	return AdminStatsResponse{
		TotalRevenue:  s.TotalRevenue.StringFixed(2),
		NetRevenue:    s.NetRevenue.StringFixed(2),
		TotalSales:    s.TotalSales,
		TotalStudents: s.TotalStudents,
	}
}

// RefundResponse is returned after a refund
type RefundResponse struct {
	Order OrderResponse `json:"order"`
}
