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

type studentFixture struct {
	store   *fakeStore
	service StudentService
}

func newStudentFixture() *studentFixture {
	store := newFakeStore()
	return &studentFixture{
		store: store,
		service: NewStudentService(
			&fakeStudentRepo{store: store},
			&fakeUserRepo{store: store},
			zerolog.Nop(),
		),
	}
}

func TestStudentsStaffCanViewStudentsCannot(t *testing.T) {
	f := newStudentFixture()
	staff := f.store.addUser("staff", models.RoleOfficeStaff)
	librarian := f.store.addUser("lib", models.RoleLibrarian)
	student := f.store.addUser("stu", models.RoleStudent)
	f.store.addStudent("Stu", &student.ID)

	ctx := context.Background()

	for _, caller := range []models.Caller{asCaller(staff), asCaller(librarian)} {
		students, err := f.service.ListStudents(ctx, caller)
		require.NoError(t, err)
		assert.Len(t, students, 1)
	}

	_, err := f.service.ListStudents(ctx, asCaller(student))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Equal(t, "You do not have permission to view student details.", err.Error())
}

func TestStudentsWritesAreAdminOnly(t *testing.T) {
	f := newStudentFixture()
	staff := f.store.addUser("staff", models.RoleOfficeStaff)
	student := f.store.addUser("stu", models.RoleStudent)
	profile := f.store.addStudent("Stu", &student.ID)

	ctx := context.Background()

	_, err := f.service.CreateStudent(ctx, asCaller(staff), &dto.CreateStudentRequest{
		Name: "New", RollNumber: "R-2", ClassName: "9B",
	})
	require.Error(t, err)
	assert.Equal(t, "Only admins can add student details.", err.Error())

	name := "Changed"
	_, err = f.service.UpdateStudent(ctx, asCaller(staff), profile.ID, &dto.UpdateStudentRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "Only admins can update student details.", err.Error())

	err = f.service.DeleteStudent(ctx, asCaller(staff), profile.ID)
	require.Error(t, err)
	assert.Equal(t, "Only admins can delete student details.", err.Error())
}

func TestCreateStudentWithoutIdentity(t *testing.T) {
	f := newStudentFixture()
	admin := f.store.addUser("admin", models.RoleAdmin)

	created, err := f.service.CreateStudent(context.Background(), asCaller(admin), &dto.CreateStudentRequest{
		Name:       "Ravi",
		RollNumber: "R-9",
		ClassName:  "8C",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", created.Name)
	assert.Nil(t, created.UserID)
}

func TestCreateStudentWithIdentity(t *testing.T) {
	f := newStudentFixture()
	admin := f.store.addUser("admin", models.RoleAdmin)

	created, err := f.service.CreateStudent(context.Background(), asCaller(admin), &dto.CreateStudentRequest{
		Name:       "Asha",
		RollNumber: "R-17",
		ClassName:  "10A",
		User: &dto.NewStudentUser{
			Username: "asha.n",
			Password: "password1",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created.UserID)

	linked := f.store.users[*created.UserID]
	require.NotNil(t, linked)
	assert.Equal(t, "asha.n", linked.Username)
	// The embedded identity always gets the student role.
	assert.Equal(t, models.RoleStudent, linked.UserType)
	assert.NotEqual(t, "password1", linked.Password)
}

func TestGetStudentMissingIsNotFound(t *testing.T) {
	f := newStudentFixture()
	staff := f.store.addUser("staff", models.RoleOfficeStaff)

	_, err := f.service.GetStudent(context.Background(), asCaller(staff), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStudentNotFound))
}

func TestUpdateStudentPartial(t *testing.T) {
	f := newStudentFixture()
	admin := f.store.addUser("admin", models.RoleAdmin)
	profile := f.store.addStudent("Asha", nil)

	className := "11B"
	updated, err := f.service.UpdateStudent(context.Background(), asCaller(admin), profile.ID, &dto.UpdateStudentRequest{
		ClassName: &className,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", updated.Name)
	assert.Equal(t, "11B", updated.ClassName)
}

func TestPrepareDeleteStudentPrefersLinkedUsername(t *testing.T) {
	f := newStudentFixture()
	admin := f.store.addUser("admin", models.RoleAdmin)
	student := f.store.addUser("asha.n", models.RoleStudent)
	linked := f.store.addStudent("Asha N", &student.ID)
	unlinked := f.store.addStudent("Ravi", nil)

	name, err := f.service.PrepareDelete(context.Background(), asCaller(admin), linked.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha.n", name)

	name, err = f.service.PrepareDelete(context.Background(), asCaller(admin), unlinked.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", name)
}

func TestDeleteStudentCascadesToIdentityAndRecords(t *testing.T) {
	f := newStudentFixture()
	admin := f.store.addUser("admin", models.RoleAdmin)
	student := f.store.addUser("stu", models.RoleStudent)
	profile := f.store.addStudent("Stu", &student.ID)
	fee := &models.FeeRecord{StudentID: profile.ID, FeeType: "tuition", Amount: 100}
	fee.ID = f.store.id()
	f.store.fees[fee.ID] = fee

	require.NoError(t, f.service.DeleteStudent(context.Background(), asCaller(admin), profile.ID))
	assert.NotContains(t, f.store.students, profile.ID)
	assert.NotContains(t, f.store.users, student.ID)
	assert.NotContains(t, f.store.fees, fee.ID)
}
