package routes

import (
	"examdesk_go/controllers"
	"examdesk_go/middleware"
	"examdesk_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	floorController := &controllers.FloorController{}
	roomController := &controllers.RoomController{}
	studentController := &controllers.StudentController{}
	masterDataController := &controllers.MasterDataController{}
	examController := &controllers.ExamController{}
	examQueryController := &controllers.ExamQueryController{}
	exportController := &controllers.ExportController{}
	admitCardController := &controllers.AdmitCardController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController(nil)
	wsController := controllers.NewWebSocketController(wsHub)

	// Health check (no authentication)
	app.Get("/health", healthController.GetHealthStatus)

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/reset-password-token", authController.ResetPasswordWithToken)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Admit card retrieval for students - public, keyed by student UID
	api.Get("/admit-cards/:uid", admitCardController.GetAdmitCards)
	api.Post("/admit-cards/:uid/exams/:id/download", admitCardController.MarkAdmitCardDownloaded)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// Password reset routes (admin only)
	passwordReset := protected.Group("/password-reset", middleware.RequireAdmin())
	passwordReset.Post("/generate-token", authController.GeneratePasswordResetToken)

	// User registration (admin only)
	protected.Post("/users", middleware.RequireAdmin(), authController.Register)

	// Floor management routes
	floors := protected.Group("/floors")
	floors.Get("/", middleware.RequireStaffOrAbove(), floorController.GetFloors)
	floors.Get("/:id", middleware.RequireStaffOrAbove(), floorController.GetFloor)
	floors.Post("/", middleware.RequireControllerOrAdmin(), floorController.CreateFloor)
	floors.Put("/:id", middleware.RequireControllerOrAdmin(), floorController.UpdateFloor)
	floors.Delete("/:id", middleware.RequireAdmin(), floorController.DeleteFloor)

	// Room management routes
	rooms := protected.Group("/rooms")
	rooms.Get("/", middleware.RequireStaffOrAbove(), roomController.GetRooms)
	rooms.Get("/:id", middleware.RequireStaffOrAbove(), roomController.GetRoom)
	rooms.Post("/", middleware.RequireControllerOrAdmin(), roomController.CreateRoom)
	rooms.Put("/:id", middleware.RequireControllerOrAdmin(), roomController.UpdateRoom)
	rooms.Delete("/:id", middleware.RequireAdmin(), roomController.DeleteRoom)
	rooms.Get("/floor/:floor_id", middleware.RequireStaffOrAbove(), roomController.GetRoomsByFloor)

	// Student management routes
	students := protected.Group("/students")
	students.Get("/", middleware.RequireStaffOrAbove(), studentController.GetStudents)
	students.Get("/:id", middleware.RequireStaffOrAbove(), studentController.GetStudent)
	students.Post("/", middleware.RequireControllerOrAdmin(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireControllerOrAdmin(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireAdmin(), studentController.DeleteStudent)

	// Master data lookups for the exam scheduling form
	master := protected.Group("/master-data", middleware.RequireStaffOrAbove())
	master.Get("/academic-years", masterDataController.GetAcademicYears)
	master.Get("/exam-types", masterDataController.GetExamTypes)
	master.Get("/classes", masterDataController.GetClasses)
	master.Get("/program-courses", masterDataController.GetProgramCourses)
	master.Get("/shifts", masterDataController.GetShifts)
	master.Get("/subject-types", masterDataController.GetSubjectTypes)
	master.Get("/subjects", masterDataController.GetSubjects)

	// Exam scheduling and allotment routes
	exams := protected.Group("/exams")
	exams.Get("/", middleware.RequireStaffOrAbove(), examController.GetExams)
	exams.Post("/", middleware.RequireControllerOrAdmin(), examController.CreateExam)

	// Draft-stage queries come before /:id so the router doesn't swallow them
	exams.Post("/eligible-rooms", middleware.RequireControllerOrAdmin(), examQueryController.EligibleRooms)
	exams.Post("/student-count", middleware.RequireControllerOrAdmin(), examQueryController.StudentCount)
	exams.Post("/student-count/breakdown", middleware.RequireControllerOrAdmin(), examQueryController.StudentCountBreakdown)
	exams.Post("/students-for-exam", middleware.RequireControllerOrAdmin(), examQueryController.StudentsForExam)
	exams.Post("/check-duplicate", middleware.RequireControllerOrAdmin(), examQueryController.CheckDuplicate)

	exams.Get("/:id", middleware.RequireStaffOrAbove(), examController.GetExam)
	exams.Delete("/:id", middleware.RequireControllerOrAdmin(), examController.DeleteExam)
	exams.Post("/:id/allot", middleware.RequireControllerOrAdmin(), examController.AllotExam)
	exams.Patch("/:id/admit-card-dates", middleware.RequireControllerOrAdmin(), examController.UpdateAdmitCardDates)

	// Spreadsheet exports
	exams.Get("/:id/candidates/export", middleware.RequireStaffOrAbove(), exportController.ExportCandidates)
	exams.Get("/:id/attendance-sheets", middleware.RequireStaffOrAbove(), exportController.ExportAttendanceSheets)
	exams.Get("/:id/admit-cards/export", middleware.RequireStaffOrAbove(), exportController.ExportAdmitCardTracking)

	// Single admit card lookup; registered after /admit-cards/export so
	// "export" never binds as a student UID
	exams.Get("/:id/admit-cards/:uid", middleware.RequireStaffOrAbove(), admitCardController.GetAdmitCardForExam)

	// Notification management routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Post("/", middleware.RequireAdmin(), notificationController.CreateNotification)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)

	// Log management routes (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Get("/archives", logController.GetArchivedLogs)
	logs.Get("/archives/:id/download", logController.DownloadArchivedLog)
	logs.Post("/archive", logController.TriggerArchive)

	// WebSocket routes
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)

	// WebSocket connection endpoint - use websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		// IsWebSocketUpgrade returns true if the client
		// requested upgrade to the WebSocket protocol.
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
	app.Get("/ws/draft", wsController.DraftSessionHandler())
}
