package dto

// StaffListFilter describes query string filters for the review queue.
// Status is parsed by the service so that "all" and the empty string both
// mean unfiltered.
type StaffListFilter struct {
	Search     string   `query:"search"`
	Department string   `query:"department"`
	Status     string   `query:"status"`
	MinScore   *float64 `query:"min_score" validate:"omitempty,gte=0,lte=100"`
	MaxScore   *float64 `query:"max_score" validate:"omitempty,gte=0,lte=100"`
}

// RejectRequest carries the mandatory reason accompanying a rejection.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=2000"`
}

// StatsResponse summarizes the review pipeline by lifecycle state.
type StatsResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// DepartmentAnalytics aggregates analyzed submissions for one department.
// AverageScore is null when the department has submissions but none carry an
// analysis yet.
type DepartmentAnalytics struct {
	Count        int      `json:"count"`
	AverageScore *float64 `json:"average_score"`
}

// AnalyticsResponse reports score aggregates across all submissions. The
// top-level aggregates cover analyzed submissions only and are zero when
// nothing has been analyzed.
type AnalyticsResponse struct {
	AverageScore  float64                        `json:"average_score"`
	MaxScore      int                            `json:"max_score"`
	MinScore      int                            `json:"min_score"`
	AnalyzedCount int                            `json:"analyzed_count"`
	ByDepartment  map[string]DepartmentAnalytics `json:"by_department"`
	CacheHit      bool                           `json:"cache_hit"`
}
