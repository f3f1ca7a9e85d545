// File: internal/usecase/sweep_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/adapter"
	"billionaireable/internal/domain/ports/repository"
	"billionaireable/internal/infra/metrics"
)

const (
	// Stall thresholds: a user counts as stalled after 3 days without a login
	// or 2 days without touching a curriculum module.
	stallLoginThreshold    = 3 * 24 * time.Hour
	stallProgressThreshold = 2 * 24 * time.Hour

	// Abandoned-application window: only wire applications aged strictly
	// between 24h and 48h match, so consecutive daily runs never pick up the
	// same application twice.
	abandonWindowMin = 24 * time.Hour
	abandonWindowMax = 48 * time.Hour
)

const (
	NotificationKindStallNudge      = "stall_nudge"
	NotificationKindAbandonReminder = "abandon_reminder"
)

// Compile-time check
var _ SweepUseCase = (*sweepUC)(nil)

// SweepReport tells the caller how far a batch got. Emailed can trail
// Checked when individual sends fail; the batch itself never aborts.
type SweepReport struct {
	Checked int
	Emailed int
}

type SweepUseCase interface {
	// SweepStalledUsers nudges every currently stalled user. There is no
	// suppression window: a user who stays stalled is re-nudged on every run.
	SweepStalledUsers(ctx context.Context) (*SweepReport, error)
	// SweepAbandonedApplications reminds payers whose wire application has
	// sat awaiting payment for a day.
	SweepAbandonedApplications(ctx context.Context) (*SweepReport, error)
}

type sweepUC struct {
	users  repository.UserRepository
	apps   repository.ApplicationRepository
	notifs repository.NotificationLogRepository
	mailer adapter.Mailer
	log    *zerolog.Logger
}

func NewSweepUseCase(
	users repository.UserRepository,
	apps repository.ApplicationRepository,
	notifs repository.NotificationLogRepository,
	mailer adapter.Mailer,
	logger *zerolog.Logger,
) *sweepUC {
	l := logger.With().Str("component", "SweepUC").Logger()
	return &sweepUC{users: users, apps: apps, notifs: notifs, mailer: mailer, log: &l}
}

func (u *sweepUC) SweepStalledUsers(ctx context.Context) (*SweepReport, error) {
	now := time.Now()
	stalled, err := u.users.ListStalled(ctx, repository.NoTX, now.Add(-stallLoginThreshold), now.Add(-stallProgressThreshold))
	if err != nil {
		return nil, err
	}

	report := &SweepReport{Checked: len(stalled)}
	for _, user := range stalled {
		subject := "Your Billionaireable momentum is slipping"
		body := renderStallNudge(user)
		if err := u.mailer.Send(ctx, user.Email, subject, body); err != nil {
			// One dead address must not starve the rest of the batch.
			u.log.Error().Err(err).Str("user_id", user.ID).Msg("stall nudge send failed")
			continue
		}
		report.Emailed++
		if err := u.notifs.Save(ctx, repository.NoTX, user.ID, "", NotificationKindStallNudge); err != nil {
			u.log.Error().Err(err).Str("user_id", user.ID).Msg("notification log write failed")
		}
	}

	metrics.AddSweep(NotificationKindStallNudge, report.Checked, report.Emailed)
	u.log.Info().Int("checked", report.Checked).Int("emailed", report.Emailed).Msg("stalled-user sweep done")
	return report, nil
}

func (u *sweepUC) SweepAbandonedApplications(ctx context.Context) (*SweepReport, error) {
	now := time.Now()
	apps, err := u.apps.ListAwaitingCreatedBetween(ctx, repository.NoTX, now.Add(-abandonWindowMax), now.Add(-abandonWindowMin))
	if err != nil {
		return nil, err
	}

	report := &SweepReport{Checked: len(apps)}
	for _, app := range apps {
		subject := "Complete your Billionaireable wire transfer"
		body := renderAbandonReminder(app)
		if err := u.mailer.Send(ctx, app.UserEmail, subject, body); err != nil {
			u.log.Error().Err(err).Str("application_id", app.ID).Msg("abandon reminder send failed")
			continue
		}
		report.Emailed++
		if err := u.notifs.Save(ctx, repository.NoTX, app.UserID, app.ID, NotificationKindAbandonReminder); err != nil {
			u.log.Error().Err(err).Str("application_id", app.ID).Msg("notification log write failed")
		}
	}

	metrics.AddSweep(NotificationKindAbandonReminder, report.Checked, report.Emailed)
	u.log.Info().Int("checked", report.Checked).Int("emailed", report.Emailed).Msg("abandoned-application sweep done")
	return report, nil
}

func renderStallNudge(user *model.User) string {
	name := user.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>You haven't touched your pillars in a few days. The curriculum only works when you do — log back in and pick up where you left off.</p>",
		name,
	)
}

func renderAbandonReminder(app *model.PaymentApplication) string {
	name := app.UserName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>Your %s application is still waiting on a wire transfer of $%.2f. Quote reference <strong>%s</strong> on the memo line so we can match your payment.</p>",
		name, app.Tier, app.Amount, app.WireReference,
	)
}
