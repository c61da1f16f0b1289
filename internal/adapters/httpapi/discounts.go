package httpapi

import (
	"net/http"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/discount"
	"menu-highlights/internal/usecase/validation"
)

type previewRequest struct {
	BasePrice float64         `json:"basePrice"`
	Discount  domain.Discount `json:"discount"`
}

type previewResponse struct {
	discount.Breakdown
	EquivalentPercentage float64           `json:"equivalentPercentage"`
	IsValid              bool              `json:"isValid"`
	Errors               map[string]string `json:"errors,omitempty"`
}

func (s *Server) handlePreviewDiscount(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	check := validation.ValidateDiscount(req.Discount, req.BasePrice)
	writeOK(w, http.StatusOK, previewResponse{
		Breakdown:            discount.Preview(req.BasePrice, req.Discount),
		EquivalentPercentage: discount.EquivalentPercentage(req.BasePrice, req.Discount),
		IsValid:              check.IsValid,
		Errors:               check.Errors,
	})
}
