package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/services"
	"github.com/anandps/schooldesk/internal/middleware"
)

// LibraryController handles library record operations
type LibraryController struct {
	libraryService services.LibraryService
}

// NewLibraryController creates a new LibraryController
func NewLibraryController(libraryService services.LibraryService) *LibraryController {
	return &LibraryController{
		libraryService: libraryService,
	}
}

// ListRecords lists library records visible to the caller
// @Summary List library records
// @Description Returns library records. Students see only their own records.
// @Tags library
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.LibraryRecordResponse "Library records"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /library/ [get]
func (c *LibraryController) ListRecords(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	records, err := c.libraryService.ListRecords(ctx, caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// CreateRecord creates a library record
// @Summary Create a library record
// @Description Creates a library record. Student callers create against their own profile regardless of the supplied student id.
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLibraryRecordRequest true "Record information"
// @Success 201 {object} dto.LibraryRecordResponse "Created record"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "No student profile for the caller"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /library/ [post]
func (c *LibraryController) CreateRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateLibraryRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.libraryService.CreateRecord(ctx, caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

// GetRecord retrieves a single library record
// @Summary Get a library record
// @Description Returns a single library record by id. Students can only view their own records.
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.LibraryRecordResponse "Library record"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /library/{id}/ [get]
func (c *LibraryController) GetRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	record, err := c.libraryService.GetRecord(ctx, caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// UpdateRecord applies a partial update to a library record
// @Summary Update a library record
// @Description Applies a partial update to a library record. Students can only edit their own records.
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param request body dto.UpdateLibraryRecordRequest true "Fields to update"
// @Success 200 {object} dto.LibraryRecordResponse "Updated record"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /library/{id}/ [put]
func (c *LibraryController) UpdateRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateLibraryRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.libraryService.UpdateRecord(ctx, caller, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// DeleteRecord removes a library record with two-step confirmation
// @Summary Delete a library record
// @Description Deletes a library record. Without confirm=true it returns a confirmation prompt and changes nothing. Students can only delete their own records.
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param confirm query bool false "Set to true to confirm the delete"
// @Success 200 {object} dto.ConfirmPrompt "Confirmation prompt"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /library/{id}/ [delete]
func (c *LibraryController) DeleteRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if !deleteConfirmed(ctx) {
		bookName, err := c.libraryService.PrepareDelete(ctx, caller, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		writeConfirmPrompt(ctx, fmt.Sprintf("Are you sure you want to delete the library record for %q?", bookName))
		return
	}

	if err := c.libraryService.DeleteRecord(ctx, caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
