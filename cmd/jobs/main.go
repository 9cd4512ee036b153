package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"btploc/internal/config"
	"btploc/internal/database"
	"btploc/internal/jobs"
	"btploc/internal/repository"
)

func main() {
	runNow := flag.Bool("now", false, "run all jobs once and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	locationJobs := jobs.NewLocationJobs(repository.NewLocationRepository(db))
	notificationJobs := jobs.NewNotificationJobs(repository.NewNotificationRepository(db))

	if *runNow {
		locationJobs.CompleteExpired()
		notificationJobs.PurgeRead()
		return
	}

	runner, err := jobs.NewRunner(locationJobs, notificationJobs, jobs.DefaultSchedule())
	if err != nil {
		log.Fatal(err)
	}
	runner.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	runner.Stop()
}
