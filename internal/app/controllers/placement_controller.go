package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanmay/placementdesk/internal/app/dataset"
	"github.com/tanmay/placementdesk/internal/app/models/dto"
	"github.com/tanmay/placementdesk/internal/app/services"
	"github.com/tanmay/placementdesk/internal/middleware"
)

// PlacementController handles placement record operations
type PlacementController struct {
	placementService *services.PlacementService
	ingestService    *services.IngestService
}

// NewPlacementController creates a new PlacementController
func NewPlacementController(placementService *services.PlacementService, ingestService *services.IngestService) *PlacementController {
	return &PlacementController{
		placementService: placementService,
		ingestService:    ingestService,
	}
}

// ImportStudents handles bulk CSV import
// @Summary Import placement records from CSV
// @Description Uploads a CSV file and bulk-inserts every valid row, skipping duplicates
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with header name,regNo,batch,company,package,branch,placedDate"
// @Success 201 {object} dto.APIResponse{data=dto.IngestResult} "Data uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unreadable CSV"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/import [post]
func (c *PlacementController) ImportStudents(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A CSV file upload named 'file' is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Uploaded file could not be read")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	defer file.Close()

	result, err := c.ingestService.IngestCSV(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(result, "Data uploaded successfully"))
}

// GetAllStudents retrieves the complete record set
// @Summary Get all placement records
// @Description Retrieves the full current record set, no pagination
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.PlacementRecord} "Fetching student detail successful"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *PlacementController) GetAllStudents(ctx *gin.Context) {
	records, err := c.placementService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(records, "Fetching student detail successful"))
}

// GetStats computes derived statistics over the filtered view
// @Summary Get placement statistics
// @Description Computes branch/batch distributions, top companies, and package buckets for the filtered view
// @Tags students
// @Produce json
// @Param search query string false "Case-insensitive substring matched against every field"
// @Param branch query string false "Exact branch match"
// @Param batch query string false "Exact batch match"
// @Param bucket query string false "Package bucket" Enums(<5LPA, 5-10LPA, 10-20LPA, 20LPA+)
// @Success 200 {object} dto.APIResponse{data=dataset.Statistics} "Statistics computed"
// @Failure 400 {object} dto.ErrorResponse "Unknown bucket value"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/stats [get]
func (c *PlacementController) GetStats(ctx *gin.Context) {
	filter, ok := c.bindFilter(ctx)
	if !ok {
		return
	}

	stats, err := c.placementService.Stats(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats, "Statistics computed"))
}

// ExportStudents downloads the filtered view as CSV
// @Summary Export placement records as CSV
// @Description Serializes the filtered view to CSV, downloadable as students.csv
// @Tags students
// @Produce text/csv
// @Param search query string false "Case-insensitive substring matched against every field"
// @Param branch query string false "Exact branch match"
// @Param batch query string false "Exact batch match"
// @Param bucket query string false "Package bucket" Enums(<5LPA, 5-10LPA, 10-20LPA, 20LPA+)
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} dto.ErrorResponse "Unknown bucket value"
// @Failure 500 {object} dto.ErrorResponse "Export failed"
// @Router /students/export [get]
func (c *PlacementController) ExportStudents(ctx *gin.Context) {
	filter, ok := c.bindFilter(ctx)
	if !ok {
		return
	}

	csvData, err := c.placementService.ExportCSV(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="students.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", csvData)
}

// DeleteStudent deletes one record by id
// @Summary Delete a placement record
// @Description Deletes a record by identifier and returns the deleted record
// @Tags students
// @Produce json
// @Param id path string true "Record identifier"
// @Success 200 {object} dto.APIResponse{data=models.PlacementRecord} "Student info deleted"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *PlacementController) DeleteStudent(ctx *gin.Context) {
	id := ctx.Param("id")

	record, err := c.placementService.Delete(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(record, "Student info deleted"))
}

// bindFilter reads the filter query parameters, rejecting unknown buckets.
func (c *PlacementController) bindFilter(ctx *gin.Context) (dataset.Filter, bool) {
	var query dto.StatsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return dataset.Filter{}, false
	}

	bucket, ok := dataset.ParseBucket(query.Bucket)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown package bucket")
		errorDetail = errorDetail.WithDetails("bucket must be one of <5LPA, 5-10LPA, 10-20LPA, 20LPA+")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return dataset.Filter{}, false
	}

	return dataset.Filter{
		Search: query.Search,
		Branch: query.Branch,
		Batch:  query.Batch,
		Bucket: bucket,
	}, true
}
