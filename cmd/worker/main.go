package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"itrportal/internal/config"
	"itrportal/internal/models"
	"itrportal/internal/services"
	"itrportal/internal/tasks"
)

const pollInterval = 5 * time.Minute

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	notifier := services.NewMsg91Notifier(cfg, services.NewEmailService(cfg), logger)
	tasks.DefineTasks(notifier)

	logger.Info("reminder worker started", zap.Duration("poll_interval", pollInterval))

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down worker")
		cancel()
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Run once at startup, then on every tick
	processScheduledTasks(ctx, db, logger)

	for {
		select {
		case <-ticker.C:
			processScheduledTasks(ctx, db, logger)
		case <-ctx.Done():
			return
		}
	}
}

func processScheduledTasks(ctx context.Context, db *gorm.DB, logger *zap.Logger) {
	var pendingTasks []models.ScheduledTask
	now := time.Now()
	if err := db.Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).Find(&pendingTasks).Error; err != nil {
		logger.Error("failed to fetch pending tasks", zap.Error(err))
		return
	}

	if len(pendingTasks) == 0 {
		return
	}

	logger.Info("processing pending tasks", zap.Int("count", len(pendingTasks)))

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return
		}
		executeTask(ctx, db, logger, task, 1)
	}
}

func executeTask(ctx context.Context, db *gorm.DB, logger *zap.Logger, task models.ScheduledTask, curAttempt int) {
	logger.Info("running task",
		zap.String("task_name", task.TaskName),
		zap.Uint("task_id", task.ID),
		zap.Int("attempt", curAttempt))

	handler, found := tasks.GetHandler(task.TaskName)
	if !found {
		logger.Error("task handler not found", zap.String("task_name", task.TaskName))

		now := time.Now()
		db.Model(&task).Updates(map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		db.Create(&models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          "handler_not_found",
			AttemptNumber:   curAttempt,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "handler not found"},
		})
		return
	}

	startTime := time.Now()
	result, err := handler(ctx, db, task)
	runtimeMs := int(time.Since(startTime).Milliseconds())

	status := "success"
	if err != nil {
		status = "failure"
		result = map[string]interface{}{"error": err.Error()}
		logger.Error("task failed", zap.String("task_name", task.TaskName), zap.Error(err))
	}

	db.Create(&models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           startTime,
		Runtime:         runtimeMs,
		Status:          status,
		AttemptNumber:   curAttempt,
		Arguments:       task.Arguments,
		Result:          result,
	})

	taskUpdates := map[string]interface{}{
		"last_run": &startTime,
	}

	if status != "success" {
		if curAttempt < task.MaxAttempt {
			executeTask(ctx, db, logger, task, curAttempt+1)
			return
		}
		taskUpdates["status"] = models.ScheduledTaskStatusFailure
	} else {
		switch task.TaskType {
		case models.ScheduledTaskTypeOneTime:
			taskUpdates["status"] = models.ScheduledTaskStatusDone
		case models.ScheduledTaskTypeRecurring:
			nextDue := task.NextDue()
			// Only reschedule when the rule yields a future occurrence,
			// otherwise the task would run again immediately forever.
			if nextDue.After(task.Due) {
				taskUpdates["status"] = models.ScheduledTaskStatusActive
				taskUpdates["due"] = nextDue
			} else {
				taskUpdates["status"] = models.ScheduledTaskStatusDone
			}
		}
	}

	db.Model(&task).Updates(taskUpdates)
}
