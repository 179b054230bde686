package models

// Student defines the student profile model based on the 'students' table.
// UserID is nullable: a profile may exist without a login identity. When
// linked, the identity's role is always student.
type Student struct {
	ID         int64  `json:"id" db:"id"`
	UserID     *int64 `json:"user_id,omitempty" db:"user_id"`
	Name       string `json:"name" db:"name"`
	RollNumber string `json:"roll_number" db:"roll_number"`
	ClassName  string `json:"class_name" db:"class_name"`
	User       *User  `json:"user,omitempty"` // Relation, no db tag
}

// OwnedBy reports whether the profile is linked to the given user id.
func (s *Student) OwnedBy(userID int64) bool {
	return s.UserID != nil && *s.UserID == userID
}
