package handler

// RunReportRequest represents a request to schedule a settlement report run
type RunReportRequest struct {
	ProcessingDate string `json:"processing_date" binding:"required,datetime=2006-01-02"`
	Program        string `json:"program" binding:"required,oneof=standard sameday"`
}

// RunResponse represents a run audit record in API responses
type RunResponse struct {
	RunID          string `json:"run_id"`
	ProcessingDate string `json:"processing_date"`
	Program        string `json:"program"`
	ProgramID      string `json:"program_id"`
	Outcome        string `json:"outcome"`
	Stage          string `json:"stage,omitempty"`
	Detail         string `json:"detail,omitempty"`
	FileName       string `json:"file_name,omitempty"`
	StartedAt      string `json:"started_at"`
	FinishedAt     string `json:"finished_at"`
}

// OnboardMerchantRequest represents a flat key-value onboarding submission.
// The accepted keys are defined by the onboarding mapping table.
type OnboardMerchantRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// MerchantResponse represents an onboarded merchant in API responses
type MerchantResponse struct {
	UID        string `json:"uid"`
	MerchantID string `json:"merchant_id"`
	Name       string `json:"name"`
}

// ListRunsParams represents the query parameters for the run list endpoint
type ListRunsParams struct {
	Date    string `form:"date" binding:"required,datetime=2006-01-02"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=20" binding:"min=1,max=100"`
}
