package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandps/schooldesk/internal/app/controllers"
	"github.com/anandps/schooldesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	studentController *controllers.StudentController,
	libraryController *controllers.LibraryController,
	feeController *controllers.FeeController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Public token routes
	router.POST("/token/", authController.Login)
	router.POST("/token/refresh/", authController.Refresh)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Everything else requires a valid access token. Role checks live in
	// the services, not in the routing table.
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/add-users/", userController.ListUsers)
		authenticated.POST("/add-users/", userController.CreateUser)
		authenticated.GET("/delete-users/:id/", userController.GetUser)
		authenticated.PUT("/delete-users/:id/", userController.UpdateUser)
		authenticated.DELETE("/delete-users/:id/", userController.DeleteUser)

		authenticated.GET("/students/", studentController.ListStudents)
		authenticated.POST("/students/", studentController.CreateStudent)
		authenticated.GET("/students/:id/", studentController.GetStudent)
		authenticated.PUT("/students/:id/", studentController.UpdateStudent)
		authenticated.DELETE("/students/:id/", studentController.DeleteStudent)

		authenticated.GET("/library/", libraryController.ListRecords)
		authenticated.POST("/library/", libraryController.CreateRecord)
		authenticated.GET("/library/:id/", libraryController.GetRecord)
		authenticated.PUT("/library/:id/", libraryController.UpdateRecord)
		authenticated.DELETE("/library/:id/", libraryController.DeleteRecord)

		authenticated.GET("/fees/", feeController.ListRecords)
		authenticated.POST("/fees/", feeController.CreateRecord)
		authenticated.GET("/fees/:id/", feeController.GetRecord)
		authenticated.PUT("/fees/:id/", feeController.UpdateRecord)
		authenticated.DELETE("/fees/:id/", feeController.DeleteRecord)
	}
}
