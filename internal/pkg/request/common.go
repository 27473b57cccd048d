package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ByDateRequest is a common struct for endpoints keyed by a calendar date.
type ByDateRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}
