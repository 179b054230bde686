package services

import (
	"context"
	"time"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
)

// fakeStore is a shared in-memory backing store for the fake repositories.
// Sharing it lets the fakes mirror the foreign key relationships the real
// schema enforces.
type fakeStore struct {
	users    map[int64]*models.User
	students map[int64]*models.Student
	library  map[int64]*models.LibraryRecord
	fees     map[int64]*models.FeeRecord
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*models.User),
		students: make(map[int64]*models.Student),
		library:  make(map[int64]*models.LibraryRecord),
		fees:     make(map[int64]*models.FeeRecord),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

// addUser seeds an identity and returns it
func (s *fakeStore) addUser(username string, role models.Role) *models.User {
	user := &models.User{
		ID:         s.id(),
		Username:   username,
		Email:      username + "@school.example",
		Password:   "hashed",
		UserType:   role,
		DateJoined: time.Now(),
	}
	s.users[user.ID] = user
	return user
}

// addStudent seeds a student profile, optionally linked to an identity
func (s *fakeStore) addStudent(name string, userID *int64) *models.Student {
	student := &models.Student{
		ID:         s.id(),
		UserID:     userID,
		Name:       name,
		RollNumber: "R-1",
		ClassName:  "10A",
	}
	s.students[student.ID] = student
	return student
}

// ownerOf resolves the owning identity of a student profile
func (s *fakeStore) ownerOf(studentID int64) *int64 {
	if student, ok := s.students[studentID]; ok {
		return student.UserID
	}
	return nil
}

// --- user repository fake ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range r.store.users {
		if existing.Username == user.Username {
			return 0, apperrors.ErrUsernameTaken
		}
	}
	user.ID = r.store.id()
	user.DateJoined = time.Now()
	r.store.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Student) (int64, error) {
	id, err := r.Create(ctx, user)
	if err != nil {
		return 0, err
	}
	profile.ID = r.store.id()
	profile.UserID = &user.ID
	r.store.students[profile.ID] = profile
	return id, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

// Delete mimics the FK cascade: the linked profile and its records go too.
func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.store.users, id)
	for sid, student := range r.store.students {
		if student.UserID != nil && *student.UserID == id {
			delete(r.store.students, sid)
			for rid, rec := range r.store.library {
				if rec.StudentID == sid {
					delete(r.store.library, rid)
				}
			}
			for rid, rec := range r.store.fees {
				if rec.StudentID == sid {
					delete(r.store.fees, rid)
				}
			}
		}
	}
	return nil
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// --- student repository fake ---

type fakeStudentRepo struct {
	store *fakeStore
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) (int64, error) {
	student.ID = r.store.id()
	copied := *student
	r.store.students[student.ID] = &copied
	return student.ID, nil
}

func (r *fakeStudentRepo) CreateWithUser(_ context.Context, student *models.Student, user *models.User) (int64, error) {
	for _, existing := range r.store.users {
		if existing.Username == user.Username {
			return 0, apperrors.ErrUsernameTaken
		}
	}
	user.ID = r.store.id()
	user.UserType = models.RoleStudent
	user.DateJoined = time.Now()
	r.store.users[user.ID] = user

	student.ID = r.store.id()
	student.UserID = &user.ID
	copied := *student
	r.store.students[student.ID] = &copied
	return student.ID, nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := r.store.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *student
	return &copied, nil
}

func (r *fakeStudentRepo) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	for _, student := range r.store.students {
		if student.UserID != nil && *student.UserID == userID {
			copied := *student
			return &copied, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) List(_ context.Context) ([]*models.Student, error) {
	out := make([]*models.Student, 0, len(r.store.students))
	for _, student := range r.store.students {
		copied := *student
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	if _, ok := r.store.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	copied := *student
	r.store.students[student.ID] = &copied
	return nil
}

func (r *fakeStudentRepo) DeleteCascade(_ context.Context, id int64) error {
	student, ok := r.store.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if student.UserID != nil {
		delete(r.store.users, *student.UserID)
	}
	delete(r.store.students, id)
	for rid, rec := range r.store.library {
		if rec.StudentID == id {
			delete(r.store.library, rid)
		}
	}
	for rid, rec := range r.store.fees {
		if rec.StudentID == id {
			delete(r.store.fees, rid)
		}
	}
	return nil
}

// --- library repository fake ---

type fakeLibraryRepo struct {
	store *fakeStore
}

func (r *fakeLibraryRepo) Insert(_ context.Context, record *models.LibraryRecord) (int64, error) {
	record.ID = r.store.id()
	copied := *record
	r.store.library[record.ID] = &copied
	return record.ID, nil
}

func (r *fakeLibraryRepo) GetByID(_ context.Context, id int64) (*models.LibraryRecord, error) {
	record, ok := r.store.library[id]
	if !ok {
		return nil, apperrors.ErrLibraryRecordNotFound
	}
	copied := *record
	copied.OwnerUserID = r.store.ownerOf(record.StudentID)
	return &copied, nil
}

func (r *fakeLibraryRepo) List(_ context.Context) ([]*models.LibraryRecord, error) {
	out := make([]*models.LibraryRecord, 0, len(r.store.library))
	for _, record := range r.store.library {
		copied := *record
		copied.OwnerUserID = r.store.ownerOf(record.StudentID)
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeLibraryRepo) ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.LibraryRecord, error) {
	all, _ := r.List(ctx)
	out := make([]*models.LibraryRecord, 0)
	for _, record := range all {
		if record.OwnerUserID != nil && *record.OwnerUserID == ownerUserID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeLibraryRepo) Update(_ context.Context, record *models.LibraryRecord) error {
	if _, ok := r.store.library[record.ID]; !ok {
		return apperrors.ErrLibraryRecordNotFound
	}
	copied := *record
	r.store.library[record.ID] = &copied
	return nil
}

func (r *fakeLibraryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.library[id]; !ok {
		return apperrors.ErrLibraryRecordNotFound
	}
	delete(r.store.library, id)
	return nil
}

// --- fee repository fake ---

type fakeFeeRepo struct {
	store *fakeStore
}

func (r *fakeFeeRepo) ownerName(studentID int64) string {
	owner := r.store.ownerOf(studentID)
	if owner == nil {
		return ""
	}
	if user, ok := r.store.users[*owner]; ok {
		return user.Username
	}
	return ""
}

func (r *fakeFeeRepo) Insert(_ context.Context, record *models.FeeRecord) (int64, error) {
	record.ID = r.store.id()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	copied := *record
	r.store.fees[record.ID] = &copied
	return record.ID, nil
}

func (r *fakeFeeRepo) GetByID(_ context.Context, id int64) (*models.FeeRecord, error) {
	record, ok := r.store.fees[id]
	if !ok {
		return nil, apperrors.ErrFeeRecordNotFound
	}
	copied := *record
	copied.OwnerUserID = r.store.ownerOf(record.StudentID)
	copied.OwnerName = r.ownerName(record.StudentID)
	return &copied, nil
}

func (r *fakeFeeRepo) List(_ context.Context) ([]*models.FeeRecord, error) {
	out := make([]*models.FeeRecord, 0, len(r.store.fees))
	for _, record := range r.store.fees {
		copied := *record
		copied.OwnerUserID = r.store.ownerOf(record.StudentID)
		copied.OwnerName = r.ownerName(record.StudentID)
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeFeeRepo) ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.FeeRecord, error) {
	all, _ := r.List(ctx)
	out := make([]*models.FeeRecord, 0)
	for _, record := range all {
		if record.OwnerUserID != nil && *record.OwnerUserID == ownerUserID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeFeeRepo) Update(_ context.Context, record *models.FeeRecord) error {
	if _, ok := r.store.fees[record.ID]; !ok {
		return apperrors.ErrFeeRecordNotFound
	}
	record.UpdatedAt = time.Now()
	copied := *record
	r.store.fees[record.ID] = &copied
	return nil
}

func (r *fakeFeeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.fees[id]; !ok {
		return apperrors.ErrFeeRecordNotFound
	}
	delete(r.store.fees, id)
	return nil
}

// --- token repository fake ---

type fakeTokenRow struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

type fakeTokenRepo struct {
	tokens map[string]*fakeTokenRow
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*fakeTokenRow)}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	r.tokens[token] = &fakeTokenRow{userID: userID, expiry: expiryDate}
	return nil
}

func (r *fakeTokenRepo) GetTokenByValue(_ context.Context, token string) (int64, time.Time, bool, error) {
	row, ok := r.tokens[token]
	if !ok {
		return 0, time.Time{}, false, apperrors.ErrTokenNotFound
	}
	if row.revoked {
		return 0, time.Time{}, false, apperrors.ErrTokenRevoked
	}
	if row.expiry.Before(time.Now()) {
		return 0, time.Time{}, false, apperrors.ErrTokenExpired
	}
	return row.userID, row.expiry, row.revoked, nil
}

func (r *fakeTokenRepo) RevokeToken(_ context.Context, token string) error {
	row, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	row.revoked = true
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for _, row := range r.tokens {
		if row.userID == userID {
			row.revoked = true
		}
	}
	return nil
}
