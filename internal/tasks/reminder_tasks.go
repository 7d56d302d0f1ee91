package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"itrportal/internal/models"
	"itrportal/internal/services"
)

const onboardingReminderEmail = `<h2>Complete your ITR filing</h2>
<p>Dear %s,</p>
<p>Your filing is waiting at step %d of 5. Pick up where you left off to get your return filed on time.</p>`

const paymentReminderEmail = `<h2>Your filing fee is pending</h2>
<p>Dear %s,</p>
<p>Your %s filing is ready; only the payment of Rs. %d is outstanding. Please complete it to let our team start processing.</p>`

// OnboardingReminderArgs configures the stalled-onboarding nudge
type OnboardingReminderArgs struct {
	StaleAfterDays int `json:"stale_after_days"`
}

// OnboardingReminderTaskDef nudges clients whose funnel progress has
// stalled mid-way
type OnboardingReminderTaskDef struct {
	notifier services.Notifier
}

// TaskID returns the unique identifier for this task
func (t *OnboardingReminderTaskDef) TaskID() string {
	return "onboarding_reminder"
}

// CreateTask builds a recurring ScheduledTask record for this task
func (t *OnboardingReminderTaskDef) CreateTask(args OnboardingReminderArgs, rrule string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, time.Now(), &rrule, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution emails every client stuck below step 5 whose record
// hasn't moved for the configured number of days
func (t *OnboardingReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	args, err := parseArgs[OnboardingReminderArgs](task)
	if err != nil {
		return nil, err
	}
	staleAfter := args.StaleAfterDays
	if staleAfter <= 0 {
		staleAfter = 3
	}

	cutoff := time.Now().AddDate(0, 0, -staleAfter)

	var stalled []models.User
	err = db.WithContext(ctx).
		Where("role = ?", models.RoleClient).
		Where("status IN ?", []models.UserStatus{models.StatusPending, models.StatusInProgress}).
		Where("stepper_is_completed = ?", false).
		Where("updated_at < ?", cutoff).
		Find(&stalled).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stalled clients: %w", err)
	}

	sent, failed := 0, 0
	for _, user := range stalled {
		if ctx.Err() != nil {
			break
		}
		body := fmt.Sprintf(onboardingReminderEmail, user.Name, user.StepperStatus.CurrentStep)
		if err := t.notifier.SendEmail(ctx, user.Email, "Your ITR filing is waiting", body); err != nil {
			failed++
			continue
		}
		sent++
	}

	return map[string]interface{}{
		"status":  "success",
		"matched": len(stalled),
		"sent":    sent,
		"failed":  failed,
	}, nil
}

// PaymentReminderTaskDef follows up with clients who finished the
// funnel steps but have not paid
type PaymentReminderTaskDef struct {
	notifier services.Notifier
}

// TaskID returns the unique identifier for this task
func (t *PaymentReminderTaskDef) TaskID() string {
	return "payment_reminder"
}

// CreateTask builds a recurring ScheduledTask record for this task
func (t *PaymentReminderTaskDef) CreateTask(rrule string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, time.Now(), &rrule, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution emails clients at step 5 with a determined fee and no
// completed payment
func (t *PaymentReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var unpaid []models.User
	err := db.WithContext(ctx).
		Where("role = ?", models.RoleClient).
		Where("stepper_current_step = ? AND stepper_is_completed = ?", 5, false).
		Where("itr_price > 0").
		Find(&unpaid).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query unpaid clients: %w", err)
	}

	sent, failed := 0, 0
	for _, user := range unpaid {
		if ctx.Err() != nil {
			break
		}
		body := fmt.Sprintf(paymentReminderEmail, user.Name, user.ItrType, user.ItrPrice)
		if err := t.notifier.SendEmail(ctx, user.Email, "Complete your filing fee payment", body); err != nil {
			failed++
			continue
		}
		sent++
	}

	return map[string]interface{}{
		"status":  "success",
		"matched": len(unpaid),
		"sent":    sent,
		"failed":  failed,
	}, nil
}

func parseArgs[T any](task models.ScheduledTask) (T, error) {
	var parsed T
	argsBytes, err := json.Marshal(task.Arguments)
	if err != nil {
		return parsed, fmt.Errorf("failed to marshal args: %w", err)
	}
	if err := json.Unmarshal(argsBytes, &parsed); err != nil {
		return parsed, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	return parsed, nil
}
