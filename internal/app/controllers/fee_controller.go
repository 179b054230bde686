package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/services"
	"github.com/anandps/schooldesk/internal/middleware"
)

// FeeController handles fee record operations
type FeeController struct {
	feeService services.FeeService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService services.FeeService) *FeeController {
	return &FeeController{
		feeService: feeService,
	}
}

// ListRecords lists fee records visible to the caller
// @Summary List fee records
// @Description Returns fee records. Students see only their own records; librarians have no access.
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.FeeRecordResponse "Fee records"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/ [get]
func (c *FeeController) ListRecords(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	records, err := c.feeService.ListRecords(ctx, caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// CreateRecord creates a fee record
// @Summary Create a fee record
// @Description Creates a fee record. Student callers create against their own profile regardless of the supplied student id.
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFeeRecordRequest true "Record information"
// @Success 201 {object} dto.FeeRecordResponse "Created record"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "No student profile for the caller"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/ [post]
func (c *FeeController) CreateRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateFeeRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.feeService.CreateRecord(ctx, caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

// GetRecord retrieves a single fee record
// @Summary Get a fee record
// @Description Returns a single fee record by id. Students can only view their own records.
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.FeeRecordResponse "Fee record"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/{id}/ [get]
func (c *FeeController) GetRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	record, err := c.feeService.GetRecord(ctx, caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// UpdateRecord applies a partial update to a fee record
// @Summary Update a fee record
// @Description Applies a partial update to a fee record. Students can only edit their own records.
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param request body dto.UpdateFeeRecordRequest true "Fields to update"
// @Success 200 {object} dto.FeeRecordResponse "Updated record"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/{id}/ [put]
func (c *FeeController) UpdateRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateFeeRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.feeService.UpdateRecord(ctx, caller, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// DeleteRecord removes a fee record with two-step confirmation
// @Summary Delete a fee record
// @Description Deletes a fee record. Without confirm=true it returns a confirmation prompt and changes nothing. Students can only delete their own records.
// @Tags fees
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
// @Router /fees/{id}/ [delete]
func (c *FeeController) DeleteRecord(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if !deleteConfirmed(ctx) {
		name, err := c.feeService.PrepareDelete(ctx, caller, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		writeConfirmPrompt(ctx, fmt.Sprintf("Are you sure you want to delete the fee record for student %q?", name))
		return
	}

	if err := c.feeService.DeleteRecord(ctx, caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
