package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/repository"
)

const defaultAlertTimeout = 15 * time.Second

// Notifier is what domain services use to raise notifications for a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, typ domain.NotificationType, title, message string, opts domain.EmitOptions) (*domain.Notification, error)
}

// AlertSender delivers critical notifications outside the app.
type AlertSender interface {
	SendCriticalAlert(ctx context.Context, n domain.Notification) error
}

type userCenter struct {
	center   *Center
	ownSubs  int
	lastUsed time.Time

	loadMu sync.Mutex
	loaded bool
}

// Registry holds one Center per user, created on first use and hydrated from
// the notification and settings repositories.
type Registry struct {
	repo       repository.NotificationRepository
	settings   repository.SettingsRepository
	alerts     AlertSender
	defaults   domain.NotificationSettings
	centerOpts []Option
	log        zerolog.Logger
	now        func() time.Time

	mu      sync.Mutex
	centers map[uuid.UUID]*userCenter

	alertTasks sync.WaitGroup
}

type RegistryOption func(*Registry)

func WithAlertSender(sender AlertSender) RegistryOption {
	return func(r *Registry) {
		r.alerts = sender
	}
}

func WithDefaultSettings(s domain.NotificationSettings) RegistryOption {
	return func(r *Registry) {
		r.defaults = s.Clone()
	}
}

func WithCenterOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.centerOpts = append(r.centerOpts, opts...)
	}
}

func WithRegistryLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = l
	}
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry builds a registry. settings may be nil to keep preferences in memory only.
func NewRegistry(repo repository.NotificationRepository, settings repository.SettingsRepository, opts ...RegistryOption) *Registry {
	r := &Registry{
		repo:     repo,
		settings: settings,
		defaults: domain.DefaultNotificationSettings(),
		log:      log.Logger.With().Str("component", "notifications").Logger(),
		now:      time.Now,
		centers:  make(map[uuid.UUID]*userCenter),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// For returns the user's center, loading stored settings and notifications the
// first time. Load failures are logged and retried on the next call.
func (r *Registry) For(ctx context.Context, userID uuid.UUID) *Center {
	r.mu.Lock()
	uc, ok := r.centers[userID]
	if !ok {
		opts := append([]Option{WithSettings(r.defaults), WithLogger(r.log)}, r.centerOpts...)
		uc = &userCenter{center: NewCenter(r.repo, opts...)}
		if r.alerts != nil {
			uc.center.Subscribe(r.alertOnCritical)
			uc.ownSubs++
		}
		r.centers[userID] = uc
	}
	uc.lastUsed = r.now()
	r.mu.Unlock()

	uc.loadMu.Lock()
	defer uc.loadMu.Unlock()
	if !uc.loaded {
		uc.loaded = r.hydrate(ctx, userID, uc.center)
	}
	return uc.center
}

func (r *Registry) hydrate(ctx context.Context, userID uuid.UUID, c *Center) bool {
	ok := true

	if r.settings != nil {
		saved, err := r.settings.Get(ctx, userID)
		if err != nil {
			r.log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load notification settings")
			ok = false
		} else if saved != nil {
			c.ReplaceSettings(*saved)
		}
	}

	if _, err := c.LoadForUser(ctx, userID); err != nil {
		r.log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load stored notifications")
		ok = false
	}

	return ok
}

// Notify emits a notification owned by userID, so it is persisted.
func (r *Registry) Notify(ctx context.Context, userID uuid.UUID, typ domain.NotificationType, title, message string, opts domain.EmitOptions) (*domain.Notification, error) {
	owner := userID
	opts.UserID = &owner
	return r.For(ctx, userID).Emit(typ, title, message, opts)
}

// UpdateSettings applies patch to the user's center and saves the result.
// A failed save is logged; the in-memory settings still apply.
func (r *Registry) UpdateSettings(ctx context.Context, userID uuid.UUID, patch domain.UpdateNotificationSettingsInput) domain.NotificationSettings {
	updated := r.For(ctx, userID).UpdateSettings(patch)

	if r.settings != nil {
		if err := r.settings.Save(ctx, userID, updated); err != nil {
			r.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to save notification settings")
		}
	}
	return updated
}

// EvictIdle drops centers not used for longer than maxIdle that have no
// subscribers besides the registry's own, and waits for their pending writes.
// An evicted user is hydrated again from the store on next use.
func (r *Registry) EvictIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Center
	for userID, uc := range r.centers {
		if uc.lastUsed.After(cutoff) || uc.center.SubscriberCount() > uc.ownSubs {
			continue
		}
		delete(r.centers, userID)
		idle = append(idle, uc.center)
	}
	r.mu.Unlock()

	var errs []error
	for _, c := range idle {
		if err := c.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return len(idle), errors.Join(errs...)
}

// Len reports how many user centers are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.centers)
}

func (r *Registry) alertOnCritical(s Snapshot) {
	if s.Op != OpEmit || s.Emitted == nil || s.Emitted.Priority != domain.PriorityCritical {
		return
	}

	n := *s.Emitted
	r.alertTasks.Add(1)
	go func() {
		defer r.alertTasks.Done()

		ctx, cancel := context.WithTimeout(context.Background(), defaultAlertTimeout)
		defer cancel()

		if err := r.alerts.SendCriticalAlert(ctx, n); err != nil {
			event := r.log.Error().Err(err).Str("notification_id", n.ID.String())
			if n.UserID != nil {
				event = event.Str("user_id", n.UserID.String())
			}
			event.Msg("failed to send critical alert")
		}
	}()
}

// Close waits for every center's background work and pending alerts.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	centers := make([]*Center, 0, len(r.centers))
	for _, uc := range r.centers {
		centers = append(centers, uc.center)
	}
	r.mu.Unlock()

	var errs []error
	for _, c := range centers {
		if err := c.Close(ctx); err != nil {
			errs = append(errs, err)
			break
		}
	}

	done := make(chan struct{})
	go func() {
		r.alertTasks.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if len(errs) == 0 {
			errs = append(errs, ctx.Err())
		}
	}

	return errors.Join(errs...)
}

// Dispatch emits through n on behalf of a domain service. n may be nil.
// Malformed input is logged, not returned.
func Dispatch(ctx context.Context, n Notifier, userID uuid.UUID, typ domain.NotificationType, title, message string, opts domain.EmitOptions) {
	if n == nil {
		return
	}
	if _, err := n.Notify(ctx, userID, typ, title, message, opts); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Str("title", title).Msg("failed to emit notification")
	}
}
