package domain

// Metadata describes the page window of a paginated listing.
type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

// NewMetadata derives the page window from a total row count. An empty
// result set yields zero-valued metadata.
func NewMetadata(totalRecords, page, pageSize int) *Metadata {
	if totalRecords == 0 {
		return &Metadata{}
	}

	lastPage := (totalRecords + pageSize - 1) / pageSize

	return &Metadata{
		CurrentPage:  page,
		FirstPage:    1,
		LastPage:     lastPage,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}
