package attendance

import "github.com/Tiliavir/trivial-attendance/internal/model"

// Institute identity and location sent with every submission.
const (
	InstituteName      = "apteknow"
	InstituteLatitude  = 12.9165
	InstituteLongitude = 77.6014
)

// BuildSubmission constructs the add-attendance payload. It does not
// validate; callers run Validate first.
func BuildSubmission(e model.EventType, userID string) model.Submission {
	return model.Submission{
		LoginOption:        e,
		User:               model.SubmissionUser{ID: userID},
		InstituteName:      InstituteName,
		InstituteLatitude:  InstituteLatitude,
		InstituteLongitude: InstituteLongitude,
	}
}
