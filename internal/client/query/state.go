package query

// State holds the list-view inputs between pipeline runs and applies the
// reset rules: any change to search, filters or page size returns the view
// to page 1; selecting a sort key starts ascending and re-selecting it
// toggles the direction; moving between pages resets nothing.
type State struct {
	params Params
}

// NewState returns view state with default inputs.
func NewState() *State {
	return &State{params: Params{
		Status:   StatusAll,
		Applied:  AppliedAll,
		Page:     1,
		PageSize: DefaultPageSize,
	}}
}

// Params returns a copy of the current pipeline inputs.
func (s *State) Params() Params {
	return s.params
}

func (s *State) SetSearch(term string) {
	s.params.Search = term
	s.params.Page = 1
}

func (s *State) SetStatus(status string) {
	s.params.Status = status
	s.params.Page = 1
}

func (s *State) SetApplied(f AppliedFilter) {
	s.params.Applied = f
	s.params.Page = 1
}

func (s *State) SetPageSize(n int) {
	s.params.PageSize = n
	s.params.Page = 1
}

// SortBy activates key ascending, or toggles the direction when key is
// already active. Either way the view returns to page 1.
func (s *State) SortBy(key SortKey) {
	if s.params.SortKey == key {
		if s.params.SortDir == SortAsc {
			s.params.SortDir = SortDesc
		} else {
			s.params.SortDir = SortAsc
		}
	} else {
		s.params.SortKey = key
		s.params.SortDir = SortAsc
	}
	s.params.Page = 1
}

// SetPage moves to page n without resetting any other input.
func (s *State) SetPage(n int) {
	s.params.Page = n
}
