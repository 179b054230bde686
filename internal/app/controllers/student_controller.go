package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/services"
	"github.com/anandps/schooldesk/internal/middleware"
)

// StudentController handles student profile operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// ListStudents lists every student profile
// @Summary List students
// @Description Returns every student profile. Admin, office staff and librarian only.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StudentResponse "Students"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/ [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	students, err := c.studentService.ListStudents(ctx, caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// CreateStudent creates a student profile
// @Summary Create a student
// @Description Creates a student profile, optionally with a new login identity. Admin only.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.StudentResponse "Created student"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/ [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx, caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, student)
}

// GetStudent retrieves a single student profile
// @Summary Get a student
// @Description Returns a single student profile by id. Admin, office staff and librarian only.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentResponse "Student"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/ [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx, caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// UpdateStudent applies a partial update to a student profile
// @Summary Update a student
// @Description Applies a partial update to a student profile. Admin only.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.StudentResponse "Updated student"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/ [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, caller, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student profile with two-step confirmation
// @Summary Delete a student
// @Description Deletes a student profile together with its identity and records. Without confirm=true it returns a confirmation prompt and changes nothing. Admin only.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param confirm query bool false "Set to true to confirm the delete"
// @Success 200 {object} dto.ConfirmPrompt "Confirmation prompt"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/ [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if !deleteConfirmed(ctx) {
		name, err := c.studentService.PrepareDelete(ctx, caller, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		writeConfirmPrompt(ctx, fmt.Sprintf("Are you sure you want to delete the student %q?", name))
		return
	}

	if err := c.studentService.DeleteStudent(ctx, caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
