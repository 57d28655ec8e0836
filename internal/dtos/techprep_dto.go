package dtos

// ProgressRequest toggles flags on one problem. Absent flags are left alone.
type ProgressRequest struct {
	ProblemID  string `json:"problemId"`
	Solved     *bool  `json:"solved"`
	Bookmarked *bool  `json:"bookmarked"`
}
