package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/config"
	appHTTP "github.com/WellArtDev/absenin-project-sub000/internal/handler/http"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/cron"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/database"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/geocode"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/lock"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/selfie"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/storage"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/wagateway"
	"github.com/WellArtDev/absenin-project-sub000/internal/repository/postgresql"
	attendanceService "github.com/WellArtDev/absenin-project-sub000/internal/service/attendance"
	overtimeService "github.com/WellArtDev/absenin-project-sub000/internal/service/overtime"
	webhookService "github.com/WellArtDev/absenin-project-sub000/internal/service/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	tenantRepo := postgresql.NewTenantSettingsRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	selfieProcessor := selfie.NewProcessor(fileStorage)
	geocoder := geocode.NewNominatimClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent, geocode.DefaultLimiter())
	sender := wagateway.NewClient()

	locks := lock.NewKeyedMutex()
	overtimeSvc := overtimeService.NewOvertimeService(overtimeRepo, attendanceRepo, locks)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, overtimeSvc, geocoder, selfieProcessor, locks)

	processor := webhookService.NewProcessor(tenantRepo, employeeRepo, attendanceSvc, overtimeSvc, sender)
	webhookHandler := appHTTP.NewWebhookHandler(processor, cfg.Webhook.Token)

	router := appHTTP.NewRouter(webhookHandler, cfg.Storage.BasePath, cfg.App.Env)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, employeeRepo)
	scheduler.AddJob("mark-absentees", 1*time.Hour, attendanceJobs.MarkAbsentees)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Println("Server error:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
