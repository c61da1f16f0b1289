package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/dialog"
)

// openDialogRequest carries the optional selection; the most specific field wins.
type openDialogRequest struct {
	Day       *int   `json:"day"`
	ItemID    string `json:"itemId"`
	ProductID *int64 `json:"productId"`
}

type confirmDialogRequest struct {
	ProductID   int64            `json:"productId"`
	Discount    *domain.Discount `json:"discount"`
	ToDay       *int             `json:"toDay"`
	Overwrite   bool             `json:"overwrite"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Active      *bool            `json:"active"`
}

func dialogParam(w http.ResponseWriter, r *http.Request) (dialog.Name, bool) {
	name, err := dialog.ParseName(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, domain.ErrorCode(err), err.Error(), nil)
		return "", false
	}
	return name, true
}

func (s *Server) handleDialogs(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, s.session.Dialogs())
}

func (s *Server) handleOpenDialog(w http.ResponseWriter, r *http.Request) {
	name, ok := dialogParam(w, r)
	if !ok {
		return
	}
	var req openDialogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	payload, err := s.selectionFor(req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := s.session.Dispatch(dialog.Intent{Action: dialog.ActionOpen, Dialog: name, Payload: payload}); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeOK(w, http.StatusOK, s.session.Dialogs())
}

func (s *Server) selectionFor(req openDialogRequest) (any, error) {
	switch {
	case req.Day != nil && req.ItemID != "":
		day, err := domain.ParseWeekDay(*req.Day)
		if err != nil {
			return nil, err
		}
		return dialog.ItemTarget{Day: day, ItemID: req.ItemID}, nil
	case req.Day != nil:
		day, err := domain.ParseWeekDay(*req.Day)
		if err != nil {
			return nil, err
		}
		return dialog.DayTarget{Day: day}, nil
	case req.ProductID != nil:
		product, ok := s.session.Product(*req.ProductID)
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		return dialog.ProductTarget{Product: product}, nil
	default:
		return nil, nil
	}
}

func (s *Server) handleCloseDialog(w http.ResponseWriter, r *http.Request) {
	name, ok := dialogParam(w, r)
	if !ok {
		return
	}
	if err := s.session.Dispatch(dialog.Intent{Action: dialog.ActionClose, Dialog: name}); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeOK(w, http.StatusOK, s.session.Dialogs())
}

func (s *Server) handleCloseAllDialogs(w http.ResponseWriter, _ *http.Request) {
	_ = s.session.Dispatch(dialog.Intent{Action: dialog.ActionCloseAll})
	writeOK(w, http.StatusOK, s.session.Dialogs())
}

func (s *Server) handleConfirmDialog(w http.ResponseWriter, r *http.Request) {
	name, ok := dialogParam(w, r)
	if !ok {
		return
	}
	var req confirmDialogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		result  any
		err     error
		mutated = true
	)
	switch name {
	case dialog.Config:
		result, err = s.session.ConfirmConfig(domain.ConfigPatch{Title: req.Title, Description: req.Description, Active: req.Active})
	case dialog.AddProduct:
		if req.Discount == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "discount is required", nil)
			return
		}
		result, err = s.session.ConfirmAddProduct(req.ProductID, *req.Discount)
	case dialog.EditDiscount:
		if req.Discount == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "discount is required", nil)
			return
		}
		var (
			item  domain.ScheduleItem
			found bool
		)
		item, found, err = s.session.ConfirmEditDiscount(*req.Discount)
		mutated = found
		res := itemResult{Found: found}
		if found {
			res.Item = &item
		}
		result = res
	case dialog.Delete:
		var removed bool
		removed, err = s.session.ConfirmDelete()
		mutated = removed
		result = map[string]bool{"removed": removed}
	case dialog.CopyDay:
		if req.ToDay == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "toDay is required", nil)
			return
		}
		result, err = s.session.ConfirmCopyDay(domain.WeekDay(*req.ToDay), req.Overwrite)
	default:
		// preview has nothing to commit.
		mutated = false
		err = s.session.Dispatch(dialog.Intent{Action: dialog.ActionClose, Dialog: name})
		result = s.session.Dialogs()
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if mutated {
		s.persist(r.Context())
	}
	writeOK(w, http.StatusOK, result)
}
