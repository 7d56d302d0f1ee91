package tasks

import "itrportal/internal/services"

// DefineTasks registers all available tasks. The notifier is injected
// here so handlers never build their own delivery clients.
func DefineTasks(notifier services.Notifier) {
	onboarding := &OnboardingReminderTaskDef{notifier: notifier}
	RegisterHandler(onboarding.TaskID(), onboarding.HandleExecution)

	payment := &PaymentReminderTaskDef{notifier: notifier}
	RegisterHandler(payment.TaskID(), payment.HandleExecution)
}
