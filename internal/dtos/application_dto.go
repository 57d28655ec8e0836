package dtos

// ApplicationCreateForm is the multipart body of POST /applications. The
// optional résumé travels as the "resume" file part.
type ApplicationCreateForm struct {
	Company     string `form:"company" binding:"required"`
	Position    string `form:"position" binding:"required"`
	Status      string `form:"status" binding:"required"`
	AppliedDate string `form:"appliedDate" binding:"required"` // YYYY-MM-DD

	// Optional Fields
	Notes        string `form:"notes"`
	FollowUpDate string `form:"followUpDate"`
}

// ApplicationUpdateForm is the multipart body of PUT /applications/:id.
// Empty fields leave the stored value unchanged.
type ApplicationUpdateForm struct {
	Company      string `form:"company"`
	Position     string `form:"position"`
	Status       string `form:"status"`
	AppliedDate  string `form:"appliedDate"`
	Notes        string `form:"notes"`
	FollowUpDate string `form:"followUpDate"`
}

type ApplicationListQuery struct {
	Status  string `form:"status"`
	Company string `form:"company"`
}

type JobExtractionRequest struct {
	RawHTML string `json:"rawHtml" binding:"required"`
	URL     string `json:"url"`
}

// ApplicationDraft prefills the create form from a job posting.
type ApplicationDraft struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
	URL      string `json:"url,omitempty"`
}
