package httpapi

import (
	"net/http"
	"net/url"
	"strconv"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/catalog"
)

type catalogResponse struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
	State      catalog.State    `json:"state"`
}

// catalogState starts from base and overrides the fields present in q.
func catalogState(base catalog.State, q url.Values) (catalog.State, error) {
	state := base
	if v, ok := q["search"]; ok {
		state.SearchTerm = v[0]
	}
	if v, ok := q["category"]; ok {
		state.SelectedCategory = v[0]
	}
	if v := q.Get("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return state, domain.NewValidationError(map[string]string{"minPrice": "must be a number"})
		}
		state.PriceRange[0] = f
	}
	if v := q.Get("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return state, domain.NewValidationError(map[string]string{"maxPrice": "must be a number"})
		}
		state.PriceRange[1] = f
	}
	if v := q.Get("sortBy"); v != "" {
		state.SortBy = catalog.SortBy(v)
	}
	if v := q.Get("sortOrder"); v != "" {
		state.SortOrder = catalog.SortOrder(v)
	}
	if v := q.Get("onlyAvailable"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return state, domain.NewValidationError(map[string]string{"onlyAvailable": "must be a boolean"})
		}
		state.OnlyAvailable = b
	}
	return state, nil
}

// handleCatalog narrows the stored filter state with the query parameters; the result
// becomes the new stored state. reset=true starts from the defaults instead.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := s.session.CatalogState()
	if reset, _ := strconv.ParseBool(q.Get("reset")); reset {
		base = s.session.CatalogDefaults()
	}
	state, err := catalogState(base, q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var day *domain.WeekDay
	if v := q.Get("day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_day", "day must be an integer between 0 and 6", nil)
			return
		}
		d := domain.WeekDay(n)
		day = &d
	}

	products, err := s.session.QueryCatalog(state, day)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeOK(w, http.StatusOK, catalogResponse{
		Products:   products,
		Categories: s.session.Categories(),
		State:      s.session.CatalogState(),
	})
}

func (s *Server) handleClearCatalogFilters(w http.ResponseWriter, _ *http.Request) {
	state := s.session.ClearCatalogFilters()
	products, err := s.session.QueryCatalog(state, nil)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeOK(w, http.StatusOK, catalogResponse{
		Products:   products,
		Categories: s.session.Categories(),
		State:      state,
	})
}
