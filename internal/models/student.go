package models

// Student is one roster entry. StudentNumber is the identifier stamped on
// the bubble sheet's ID block; Username is the display name shown on
// reports.
type Student struct {
	StudentNumber string `json:"student_number"`
	Username      string `json:"username"`
}
