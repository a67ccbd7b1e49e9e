package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tanmay/placementdesk/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	placementController *controllers.PlacementController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.GET("", placementController.GetAllStudents)
		students.POST("/import", placementController.ImportStudents)
		students.GET("/stats", placementController.GetStats)
		students.GET("/export", placementController.ExportStudents)
		students.DELETE("/:id", placementController.DeleteStudent)
	}
}
