package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
)

type libraryFixture struct {
	store   *fakeStore
	service LibraryService
}

func newLibraryFixture() *libraryFixture {
	store := newFakeStore()
	return &libraryFixture{
		store: store,
		service: NewLibraryService(
			&fakeLibraryRepo{store: store},
			&fakeStudentRepo{store: store},
			zerolog.Nop(),
		),
	}
}

func (f *libraryFixture) addRecord(studentID int64, book string) *models.LibraryRecord {
	record := &models.LibraryRecord{
		StudentID: studentID,
		BookName:  book,
		Status:    models.StatusBorrowed,
	}
	record.ID = f.store.id()
	f.store.library[record.ID] = record
	return record
}

func asCaller(user *models.User) models.Caller {
	return models.Caller{UserID: user.ID, Username: user.Username, Role: user.UserType}
}

func TestLibraryListScopedToOwnRecords(t *testing.T) {
	f := newLibraryFixture()
	alice := f.store.addUser("alice", models.RoleStudent)
	bob := f.store.addUser("bob", models.RoleStudent)
	aliceProfile := f.store.addStudent("Alice", &alice.ID)
	bobProfile := f.store.addStudent("Bob", &bob.ID)
	f.addRecord(aliceProfile.ID, "Kim")
	f.addRecord(bobProfile.ID, "Dune")
	f.addRecord(bobProfile.ID, "Emma")

	records, err := f.service.ListRecords(context.Background(), asCaller(bob))
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, bobProfile.ID, record.Student)
	}
}

func TestLibraryListStaffSeesEverything(t *testing.T) {
	f := newLibraryFixture()
	librarian := f.store.addUser("lib", models.RoleLibrarian)
	student := f.store.addUser("stu", models.RoleStudent)
	profile := f.store.addStudent("Stu", &student.ID)
	f.addRecord(profile.ID, "Kim")
	f.addRecord(profile.ID, "Dune")

	records, err := f.service.ListRecords(context.Background(), asCaller(librarian))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLibraryGetForeignRecordIsForbiddenNotHidden(t *testing.T) {
	f := newLibraryFixture()
	alice := f.store.addUser("alice", models.RoleStudent)
	bob := f.store.addUser("bob", models.RoleStudent)
	f.store.addStudent("Alice", &alice.ID)
	bobProfile := f.store.addStudent("Bob", &bob.ID)
	record := f.addRecord(bobProfile.ID, "Dune")

	_, err := f.service.GetRecord(context.Background(), asCaller(alice), record.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Equal(t, "You can only view your own library records.", err.Error())
}

func TestLibraryGetMissingRecordIsNotFound(t *testing.T) {
	f := newLibraryFixture()
	alice := f.store.addUser("alice", models.RoleStudent)
	f.store.addStudent("Alice", &alice.ID)

	_, err := f.service.GetRecord(context.Background(), asCaller(alice), 9999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLibraryRecordNotFound))
	assert.False(t, errors.Is(err, apperrors.ErrPermissionDenied))
}

func TestLibraryCreateForcesOwnProfileForStudents(t *testing.T) {
	f := newLibraryFixture()
	alice := f.store.addUser("alice", models.RoleStudent)
	bob := f.store.addUser("bob", models.RoleStudent)
	aliceProfile := f.store.addStudent("Alice", &alice.ID)
	bobProfile := f.store.addStudent("Bob", &bob.ID)

	created, err := f.service.CreateRecord(context.Background(), asCaller(alice), &dto.CreateLibraryRecordRequest{
		Student:    bobProfile.ID, // ignored
		BookName:   "Kim",
		BorrowDate: "2024-06-01",
		ReturnDate: "2024-06-15",
	})
	require.NoError(t, err)
	assert.Equal(t, aliceProfile.ID, created.Student)
	assert.Equal(t, models.StatusBorrowed, created.Status)
}

func TestLibraryCreateWithoutProfileIsNotFound(t *testing.T) {
	f := newLibraryFixture()
	orphan := f.store.addUser("orphan", models.RoleStudent)

	_, err := f.service.CreateRecord(context.Background(), asCaller(orphan), &dto.CreateLibraryRecordRequest{
		BookName:   "Kim",
		BorrowDate: "2024-06-01",
		ReturnDate: "2024-06-15",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoStudentProfile))
}

func TestLibraryCreateDeniedForOfficeStaff(t *testing.T) {
	f := newLibraryFixture()
	staff := f.store.addUser("staff", models.RoleOfficeStaff)

	_, err := f.service.CreateRecord(context.Background(), asCaller(staff), &dto.CreateLibraryRecordRequest{
		Student:    1,
		BookName:   "Kim",
		BorrowDate: "2024-06-01",
		ReturnDate: "2024-06-15",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Equal(t, "You do not have permission to add library records.", err.Error())
}

func TestLibraryUpdatePartial(t *testing.T) {
	f := newLibraryFixture()
	admin := f.store.addUser("admin", models.RoleAdmin)
	student := f.store.addUser("stu", models.RoleStudent)
	profile := f.store.addStudent("Stu", &student.ID)
	record := f.addRecord(profile.ID, "Dune")

	status := models.StatusReturned
	updated, err := f.service.UpdateRecord(context.Background(), asCaller(admin), record.ID, &dto.UpdateLibraryRecordRequest{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, updated.Status)
	assert.Equal(t, "Dune", updated.BookName)
	assert.Equal(t, profile.ID, updated.Student)
}

func TestLibraryUpdateForeignRecordForbiddenForStudent(t *testing.T) {
	f := newLibraryFixture()
	alice := f.store.addUser("alice", models.RoleStudent)
	bob := f.store.addUser("bob", models.RoleStudent)
	f.store.addStudent("Alice", &alice.ID)
	bobProfile := f.store.addStudent("Bob", &bob.ID)
	record := f.addRecord(bobProfile.ID, "Dune")

	book := "Emma"
	_, err := f.service.UpdateRecord(context.Background(), asCaller(alice), record.ID, &dto.UpdateLibraryRecordRequest{
		BookName: &book,
	})
	require.Error(t, err)
	assert.Equal(t, "You can only edit your own library records.", err.Error())
}

func TestLibraryDeleteChecksOwnershipBeforePrompt(t *testing.T) {
	f := newLibraryFixture()
	alice := f.store.addUser("alice", models.RoleStudent)
	bob := f.store.addUser("bob", models.RoleStudent)
	f.store.addStudent("Alice", &alice.ID)
	bobProfile := f.store.addStudent("Bob", &bob.ID)
	record := f.addRecord(bobProfile.ID, "Dune")

	_, err := f.service.PrepareDelete(context.Background(), asCaller(alice), record.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	// The record is untouched by the refused prompt stage.
	assert.Contains(t, f.store.library, record.ID)
}

func TestLibraryDeleteOwnRecord(t *testing.T) {
	f := newLibraryFixture()
	alice := f.store.addUser("alice", models.RoleStudent)
	profile := f.store.addStudent("Alice", &alice.ID)
	record := f.addRecord(profile.ID, "Kim")

	name, err := f.service.PrepareDelete(context.Background(), asCaller(alice), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kim", name)

	require.NoError(t, f.service.DeleteRecord(context.Background(), asCaller(alice), record.ID))
	assert.NotContains(t, f.store.library, record.ID)
}

func TestLibraryDeleteDeniedForLibrarian(t *testing.T) {
	f := newLibraryFixture()
	librarian := f.store.addUser("lib", models.RoleLibrarian)
	student := f.store.addUser("stu", models.RoleStudent)
	profile := f.store.addStudent("Stu", &student.ID)
	record := f.addRecord(profile.ID, "Dune")

	err := f.service.DeleteRecord(context.Background(), asCaller(librarian), record.ID)
	require.Error(t, err)
	assert.Equal(t, "You do not have permission to delete library records.", err.Error())
	assert.Contains(t, f.store.library, record.ID)
}
