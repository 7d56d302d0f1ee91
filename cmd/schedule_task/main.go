// Command schedule_task enqueues the recurring reminder jobs the
// worker executes. Run it once against a fresh environment.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"itrportal/internal/config"
	"itrportal/internal/models"
	"itrportal/internal/services"
	"itrportal/internal/tasks"
)

func main() {
	rule := flag.String("rrule", "FREQ=DAILY;BYHOUR=9;BYMINUTE=0", "recurrence rule for the reminder jobs")
	staleDays := flag.Int("stale-days", 3, "days without progress before a client is nudged")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	onboarding := &tasks.OnboardingReminderTaskDef{}
	onboardingTask, err := onboarding.CreateTask(tasks.OnboardingReminderArgs{StaleAfterDays: *staleDays}, *rule)
	if err != nil {
		log.Fatalf("Failed to build onboarding reminder task: %v", err)
	}

	payment := &tasks.PaymentReminderTaskDef{}
	paymentTask, err := payment.CreateTask(*rule)
	if err != nil {
		log.Fatalf("Failed to build payment reminder task: %v", err)
	}

	for _, task := range []*models.ScheduledTask{onboardingTask, paymentTask} {
		if err := db.Create(task).Error; err != nil {
			log.Fatalf("Failed to enqueue %s: %v", task.TaskName, err)
		}
		log.Printf("Enqueued %s (id=%d, due=%s)", task.TaskName, task.ID, task.Due)
	}
}
