package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/schedule"
)

type addItemRequest struct {
	ProductID int64           `json:"productId"`
	Discount  domain.Discount `json:"discount"`
}

type copyDayRequest struct {
	ToDay     *int `json:"toDay"`
	Overwrite bool `json:"overwrite"`
}

type scheduleResponse struct {
	Schedule   domain.WeeklySchedule `json:"schedule"`
	Statistics domain.Statistics     `json:"statistics"`
}

type dayResponse struct {
	Day        domain.WeekDayInfo    `json:"day"`
	Items      []domain.ScheduleItem `json:"items"`
	Statistics domain.DayStatistics  `json:"statistics"`
}

type itemResult struct {
	Found bool                 `json:"found"`
	Item  *domain.ScheduleItem `json:"item,omitempty"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, scheduleResponse{
		Schedule:   s.session.Schedule(),
		Statistics: s.session.Statistics(),
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, s.session.Statistics())
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	items, err := s.session.Day(day)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	stats, err := s.session.DayStatistics(day)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeOK(w, http.StatusOK, dayResponse{Day: domain.WeekDays[day], Items: items, Statistics: stats})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "productId is required", nil)
		return
	}
	item, err := s.session.AddProductToDay(day, req.ProductID, req.Discount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.persist(r.Context())
	writeOK(w, http.StatusCreated, item)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	removed, err := s.session.RemoveProductFromDay(day, chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if removed {
		s.persist(r.Context())
	}
	writeOK(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) handleUpdateDiscount(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	var d domain.Discount
	if !decodeBody(w, r, &d) {
		return
	}
	item, found, err := s.session.UpdateProductDiscount(day, chi.URLParam(r, "itemID"), d)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeItemResult(w, r, item, found)
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	item, found, err := s.session.ToggleProductStatus(day, chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeItemResult(w, r, item, found)
}

func (s *Server) writeItemResult(w http.ResponseWriter, r *http.Request, item domain.ScheduleItem, found bool) {
	if !found {
		writeOK(w, http.StatusOK, itemResult{Found: false})
		return
	}
	s.persist(r.Context())
	writeOK(w, http.StatusOK, itemResult{Found: true, Item: &item})
}

func (s *Server) handleCopyDay(w http.ResponseWriter, r *http.Request) {
	from, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	var req copyDayRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ToDay == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "toDay is required", nil)
		return
	}
	res, err := s.session.CopyDaySchedule(from, domain.WeekDay(*req.ToDay), schedule.CopyOptions{Overwrite: req.Overwrite})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.persist(r.Context())
	writeOK(w, http.StatusOK, res)
}

func (s *Server) handleClearDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r, "day")
	if !ok {
		return
	}
	n, err := s.session.ClearDay(day)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.persist(r.Context())
	writeOK(w, http.StatusOK, map[string]int{"removed": n})
}
