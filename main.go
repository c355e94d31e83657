package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/clinicore/clinic-backend/controllers"
	"github.com/clinicore/clinic-backend/cron"
	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/gateway"
	"github.com/clinicore/clinic-backend/redis"
	"github.com/clinicore/clinic-backend/routes"
	"github.com/clinicore/clinic-backend/services"
)

func main() {
	godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	db.Init()
	db.Migrate()
	db.SeedRoles()
	redis.InitRedis()

	stripe := gateway.NewClient(gateway.Config{
		SecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		BaseURL:    os.Getenv("STRIPE_BASE_URL"),
		SuccessURL: os.Getenv("FRONTEND_URL") + "/payments/success",
		CancelURL:  os.Getenv("FRONTEND_URL") + "/payments/cancel",
	}, logger)

	scheduleSvc := services.NewScheduleService(db.DB, logger)
	doctorScheduleSvc := services.NewDoctorScheduleService(db.DB, logger)
	appointmentSvc := services.NewAppointmentService(db.DB, stripe, os.Getenv("PAYMENT_CURRENCY"), logger)
	paymentSvc := services.NewPaymentService(db.DB, logger)

	scheduleCtl := controllers.NewScheduleController(scheduleSvc, doctorScheduleSvc)
	appointmentCtl := controllers.NewAppointmentController(appointmentSvc)
	paymentCtl := controllers.NewPaymentController(paymentSvc)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Clinic backend is running")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupDoctorRoutes(app)
	routes.SetupPatientRoutes(app)
	routes.SetupSpecialtyRoutes(app)
	routes.SetupReviewRoutes(app)
	routes.SetupScheduleRoutes(app, scheduleCtl)
	routes.SetupAppointmentRoutes(app, appointmentCtl)
	routes.SetupPaymentRoutes(app, paymentCtl)

	cron.StartCronJobs(appointmentSvc, logger)

	if err := app.Listen(":8000"); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
