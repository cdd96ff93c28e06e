// Package query implements the pure filter/sort/paginate pipeline that
// derives the visible page of job records from the in-memory collection.
// It has no side effects: the same collection and parameters always yield
// the same result, regardless of whether the collection came from the
// local snapshot or from the network.
package query

import (
	"sort"
	"strings"

	"github.com/ddubrovin/jobtrack/internal/client/models"
)

// SortKey selects the active sort column.
type SortKey string

const (
	SortByCompany   SortKey = "company"
	SortByPosition  SortKey = "position"
	SortByDateFound SortKey = "date_found"
	SortByApplied   SortKey = "applied"
	SortByStatus    SortKey = "status"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortByCompany, SortByPosition, SortByDateFound, SortByApplied, SortByStatus:
		return true
	}
	return false
}

// SortDir is the sort direction, applied as a sign flip on the comparator.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// AppliedFilter narrows the collection by the applied flag.
type AppliedFilter string

const (
	AppliedAll  AppliedFilter = "all"
	AppliedOnly AppliedFilter = "applied"
	NotApplied  AppliedFilter = "not_applied_only"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// PageSizes lists the permitted page sizes.
var PageSizes = []int{10, 20, 50}

// DefaultPageSize is used when Params carries an unsupported page size.
const DefaultPageSize = 10

// Params are the inputs of one pipeline run. Zero values mean: no search,
// no status filter, no applied filter, input order, first page, default
// page size.
type Params struct {
	Search   string
	Status   string
	Applied  AppliedFilter
	SortKey  SortKey
	SortDir  SortDir
	Page     int
	PageSize int
}

// Result is the derived page plus the counters the list view renders.
// Page is the clamped page number actually shown. StartDisplay and
// EndDisplay are 1-based positions within the filtered set, both zero
// when the filtered set is empty.
type Result struct {
	Items        []models.JobRecord
	TotalCount   int
	PageCount    int
	Page         int
	PageSize     int
	StartDisplay int
	EndDisplay   int
}

// Apply runs the filter, sort and paginate stages over records.
// The input slice is not modified.
func Apply(records []models.JobRecord, p Params) Result {
	filtered := filter(records, p)
	sortRecords(filtered, p.SortKey, p.SortDir)
	return paginate(filtered, p.Page, p.PageSize)
}

// filter keeps records passing all three predicates: free-text search
// (OR over company, position, description and source URL), status equality
// and the applied flag. The predicates are independent, so their order
// does not change the result set.
func filter(records []models.JobRecord, p Params) []models.JobRecord {
	term := strings.ToLower(strings.TrimSpace(p.Search))

	out := make([]models.JobRecord, 0, len(records))
	for _, r := range records {
		if !matchesSearch(&r, term) {
			continue
		}
		if !matchesStatus(&r, p.Status) {
			continue
		}
		if !matchesApplied(&r, p.Applied) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r *models.JobRecord, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{r.Company, r.Position, r.Description, r.SourceURL} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesStatus(r *models.JobRecord, status string) bool {
	if status == "" || status == StatusAll {
		return true
	}
	return string(r.EffectiveStatus()) == status
}

func matchesApplied(r *models.JobRecord, f AppliedFilter) bool {
	switch f {
	case AppliedOnly:
		return r.Applied
	case NotApplied:
		return !r.Applied
	default:
		return true
	}
}

// sortRecords orders the filtered set in place by the active key.
// Equal keys keep their pre-sort relative order. An empty or unknown key
// leaves the input order untouched.
func sortRecords(records []models.JobRecord, key SortKey, dir SortDir) {
	if !key.Valid() {
		return
	}

	sign := 1
	if dir == SortDesc {
		sign = -1
	}

	sort.SliceStable(records, func(i, j int) bool {
		return sign*compare(&records[i], &records[j], key) < 0
	})
}

func compare(a, b *models.JobRecord, key SortKey) int {
	switch key {
	case SortByCompany:
		return compareFold(a.Company, b.Company)
	case SortByPosition:
		return compareFold(a.Position, b.Position)
	case SortByDateFound:
		// ISO dates sort lexicographically in chronological order
		return strings.Compare(a.DateFound, b.DateFound)
	case SortByApplied:
		return boolToInt(a.Applied) - boolToInt(b.Applied)
	case SortByStatus:
		return compareFold(string(a.EffectiveStatus()), string(b.EffectiveStatus()))
	}
	return 0
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// paginate slices the filtered set. The page size falls back to
// DefaultPageSize unless it is one of PageSizes; the page number is
// clamped to [1, pageCount].
func paginate(filtered []models.JobRecord, page, pageSize int) Result {
	if !validPageSize(pageSize) {
		pageSize = DefaultPageSize
	}

	total := len(filtered)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}

	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	offset := (page - 1) * pageSize
	end := offset + pageSize
	if end > total {
		end = total
	}

	res := Result{
		Items:      filtered[offset:end],
		TotalCount: total,
		PageCount:  pageCount,
		Page:       page,
		PageSize:   pageSize,
	}
	if len(res.Items) > 0 {
		res.StartDisplay = offset + 1
		res.EndDisplay = offset + len(res.Items)
	}
	return res
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}
