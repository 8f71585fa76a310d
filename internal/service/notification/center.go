package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/repository"
)

const defaultPersistTimeout = 10 * time.Second

var errCenterClosed = errors.New("notification center closed")

type Op string

const (
	OpEmit          Op = "emit"
	OpMarkRead      Op = "mark_read"
	OpMarkAllRead   Op = "mark_all_read"
	OpRemove        Op = "remove"
	OpClear         Op = "clear"
	OpClearCategory Op = "clear_category"
	OpLoad          Op = "load"
)

// Snapshot is the state of a Center right after a change.
type Snapshot struct {
	Op            Op                    `json:"op"`
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
	Emitted       *domain.Notification  `json:"emitted,omitempty"`
}

// Subscriber receives a Snapshot after every change. Subscribers run in
// publication order and must not call mutating Center methods synchronously.
type Subscriber func(Snapshot)

type subscription struct {
	id int
	fn Subscriber
}

// Center owns one live notification list: it applies the emission policy,
// keeps the unread count, and mirrors user-owned entries to a repository.
type Center struct {
	repo           repository.NotificationRepository
	log            zerolog.Logger
	now            func() time.Time
	persistTimeout time.Duration

	mu          sync.Mutex
	items       []domain.Notification
	unread      int
	lastEmitted map[string]time.Time
	settings    domain.NotificationSettings
	subscribers []subscription
	nextSubID   int
	closed      bool

	// inflight holds the done channel of the last queued task per notification.
	inflight map[uuid.UUID]chan struct{}

	// pubMu keeps snapshots delivered in the order they were taken.
	pubMu sync.Mutex
	tasks sync.WaitGroup
}

type Option func(*Center)

func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		c.now = now
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Center) {
		c.log = l
	}
}

func WithSettings(s domain.NotificationSettings) Option {
	return func(c *Center) {
		c.settings = s.Clone()
	}
}

func WithPersistTimeout(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.persistTimeout = d
		}
	}
}

// NewCenter returns an empty center. repo may be nil, in which case nothing is persisted.
func NewCenter(repo repository.NotificationRepository, opts ...Option) *Center {
	c := &Center{
		repo:           repo,
		log:            log.Logger.With().Str("component", "notifications").Logger(),
		now:            time.Now,
		persistTimeout: defaultPersistTimeout,
		lastEmitted:    make(map[string]time.Time),
		inflight:       make(map[uuid.UUID]chan struct{}),
		settings:       domain.DefaultNotificationSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Emit runs a new notification through the policy gates and, if accepted,
// prepends it to the live list. A policy rejection returns nil, nil. An error
// is returned only for malformed input.
func (c *Center) Emit(typ domain.NotificationType, title, message string, opts domain.EmitOptions) (*domain.Notification, error) {
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidNotification, typ)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: title and message are required", domain.ErrInvalidNotification)
	}

	priority := opts.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidNotification, priority)
	}

	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = domain.CategoryGeneral
	}

	suppressible := typ != domain.NotifError
	if opts.Suppressible != nil {
		suppressible = *opts.Suppressible
	}

	c.mu.Lock()
	now := c.now()
	if reason := c.admit(typ, category, title, message, suppressible, now); reason != "" {
		c.mu.Unlock()
		c.log.Debug().
			Str("reason", string(reason)).
			Str("type", string(typ)).
			Str("category", category).
			Str("title", title).
			Msg("notification rejected")
		return nil, nil
	}

	n := domain.Notification{
		ID:           uuid.New(),
		Type:         typ,
		Priority:     priority,
		Category:     category,
		Title:        title,
		Message:      message,
		Suppressible: suppressible,
		CreatedAt:    now,
	}
	if opts.UserID != nil {
		userID := *opts.UserID
		n.UserID = &userID
	}
	if opts.ActionURL != nil {
		url := *opts.ActionURL
		n.ActionURL = &url
	}

	c.lastEmitted[throttleKey(typ, category)] = now
	c.items = append([]domain.Notification{n}, c.items...)
	c.recount()

	if n.Persisted() {
		saved := n
		c.persistLocked("save", []uuid.UUID{n.ID}, n.UserID, func(ctx context.Context) error {
			return c.repo.Save(ctx, &saved)
		})
	}

	emitted := n
	c.publishLocked(OpEmit, &emitted)

	return &n, nil
}

func (c *Center) admit(typ domain.NotificationType, category, title, message string, suppressible bool, now time.Time) rejection {
	if IsStockAdjustment(category, title, message) {
		return rejectStock
	}
	if !c.settings.Shows(typ) {
		return rejectHidden
	}
	if suppressible && c.settings.Mutes(category) {
		return rejectMuted
	}
	if last, ok := c.lastEmitted[throttleKey(typ, category)]; ok {
		if now.Sub(last) < throttleWindow(c.settings, category) {
			return rejectThrottled
		}
	}
	if isDuplicate(c.items, title, message, now) {
		return rejectDuplicate
	}
	return ""
}

// MarkRead flags a single entry as read. Unknown or already read ids are ignored.
func (c *Center) MarkRead(id uuid.UUID) {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 || c.items[idx].IsRead {
		c.mu.Unlock()
		return
	}

	readAt := c.now()
	c.items[idx].IsRead = true
	c.items[idx].ReadAt = &readAt
	c.recount()

	n := c.items[idx]
	if n.Persisted() {
		c.persistLocked("mark_read", []uuid.UUID{n.ID}, n.UserID, func(ctx context.Context) error {
			return c.repo.Update(ctx, n.ID, readUpdate(readAt))
		})
	}

	c.publishLocked(OpMarkRead, nil)
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	readAt := c.now()
	var changed []domain.Notification
	for i := range c.items {
		if c.items[i].IsRead {
			continue
		}
		c.items[i].IsRead = true
		c.items[i].ReadAt = &readAt
		changed = append(changed, c.items[i])
	}
	if len(changed) == 0 {
		c.mu.Unlock()
		return
	}
	c.recount()

	for _, n := range changed {
		if !n.Persisted() {
			continue
		}
		c.persistLocked("mark_read", []uuid.UUID{n.ID}, n.UserID, func(ctx context.Context) error {
			return c.repo.Update(ctx, n.ID, readUpdate(readAt))
		})
	}

	c.publishLocked(OpMarkAllRead, nil)
}

// Remove deletes one entry. Unknown ids are ignored.
func (c *Center) Remove(id uuid.UUID) {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return
	}

	n := c.items[idx]
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	c.recount()

	if n.Persisted() {
		c.persistLocked("delete", []uuid.UUID{n.ID}, n.UserID, func(ctx context.Context) error {
			return c.repo.Delete(ctx, n.ID)
		})
	}

	c.publishLocked(OpRemove, nil)
}

func (c *Center) ClearAll() {
	c.mu.Lock()
	ids, userID := persistedIDs(c.items)
	c.items = nil
	c.recount()

	if len(ids) > 0 {
		c.persistLocked("delete_all", ids, userID, func(ctx context.Context) error {
			return c.repo.DeleteAll(ctx, ids)
		})
	}

	c.publishLocked(OpClear, nil)
}

// ClearByCategory removes every entry matching match and returns how many were removed.
func (c *Center) ClearByCategory(match func(domain.Notification) bool) int {
	c.mu.Lock()
	kept := c.items[:0:0]
	var removed []domain.Notification
	for _, n := range c.items {
		if match(n) {
			removed = append(removed, n)
			continue
		}
		kept = append(kept, n)
	}
	if len(removed) == 0 {
		c.mu.Unlock()
		return 0
	}

	c.items = kept
	c.recount()

	if ids, userID := persistedIDs(removed); len(ids) > 0 {
		c.persistLocked("delete_all", ids, userID, func(ctx context.Context) error {
			return c.repo.DeleteAll(ctx, ids)
		})
	}

	c.publishLocked(OpClearCategory, nil)
	return len(removed)
}

// UpdateSettings merges patch into the current settings. Entries already in
// the live list are not re-evaluated.
func (c *Center) UpdateSettings(patch domain.UpdateNotificationSettingsInput) domain.NotificationSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = patch.Apply(c.settings)
	return c.settings.Clone()
}

// ReplaceSettings swaps in previously saved settings.
func (c *Center) ReplaceSettings(s domain.NotificationSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s.Clone()
}

func (c *Center) Settings() domain.NotificationSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Clone()
}

// LoadForUser merges the user's stored notifications into the live list.
// Stored records pass the stock block, visibility, mute and duplicate gates;
// records already live are skipped. Accepted records are not saved again and
// keep their read state. It returns the records that were merged.
func (c *Center) LoadForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	if c.repo == nil {
		return nil, nil
	}

	records, err := c.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	c.mu.Lock()
	merged := make([]domain.Notification, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if rec.Category == "" {
			rec.Category = domain.CategoryGeneral
		}
		if reason := c.admitStored(rec); reason != "" {
			skipped++
			continue
		}
		if rec.UserID == nil {
			owner := userID
			rec.UserID = &owner
		}
		c.items = append(c.items, rec)
		merged = append(merged, rec)
	}

	if len(merged) == 0 {
		c.mu.Unlock()
		c.log.Debug().Str("user_id", userID.String()).Int("skipped", skipped).Msg("no stored notifications merged")
		return merged, nil
	}

	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].CreatedAt.After(c.items[j].CreatedAt)
	})
	c.recount()
	c.publishLocked(OpLoad, nil)

	c.log.Debug().
		Str("user_id", userID.String()).
		Int("merged", len(merged)).
		Int("skipped", skipped).
		Msg("stored notifications loaded")
	return merged, nil
}

func (c *Center) admitStored(rec domain.Notification) rejection {
	if IsStockAdjustment(rec.Category, rec.Title, rec.Message) {
		return rejectStock
	}
	if !c.settings.Shows(rec.Type) {
		return rejectHidden
	}
	if rec.Suppressible && c.settings.Mutes(rec.Category) {
		return rejectMuted
	}
	if c.indexOf(rec.ID) >= 0 {
		return rejectLive
	}
	if isDuplicate(c.items, rec.Title, rec.Message, rec.CreatedAt) {
		return rejectDuplicate
	}
	return ""
}

// Notifications returns a copy of the live list, newest first.
func (c *Center) Notifications() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}

func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// Subscribe registers fn and returns a function that removes it.
func (c *Center) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers = append(c.subscribers, subscription{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subscribers {
				if s.id == id {
					c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// SubscriberCount reports how many subscribers are registered.
func (c *Center) SubscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscribers)
}

// Close stops queuing persistence and waits for in-flight tasks to finish or
// for ctx to be done. Changes made after Close stay in memory only.
func (c *Center) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.tasks.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Center) indexOf(id uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Center) recount() {
	unread := 0
	for i := range c.items {
		if !c.items[i].IsRead {
			unread++
		}
	}
	c.unread = unread
}

func (c *Center) copyItems() []domain.Notification {
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// publishLocked must be called with c.mu held and releases it. Subscribers are
// invoked outside c.mu, each with its own copy of the list.
func (c *Center) publishLocked(op Op, emitted *domain.Notification) {
	if len(c.subscribers) == 0 {
		c.mu.Unlock()
		return
	}

	items := c.copyItems()
	unread := c.unread
	subs := make([]Subscriber, len(c.subscribers))
	for i, s := range c.subscribers {
		subs[i] = s.fn
	}

	c.pubMu.Lock()
	c.mu.Unlock()
	defer c.pubMu.Unlock()

	for i, fn := range subs {
		list := items
		if i > 0 {
			list = make([]domain.Notification, len(items))
			copy(list, items)
		}
		fn(Snapshot{Op: op, Notifications: list, UnreadCount: unread, Emitted: emitted})
	}
}

// persistLocked must be called with c.mu held. It runs fn in the background
// with its own deadline once every earlier task on the same ids has finished;
// tasks on other ids run concurrently. Failures are logged only.
func (c *Center) persistLocked(op string, ids []uuid.UUID, userID *uuid.UUID, fn func(ctx context.Context) error) {
	if c.repo == nil {
		return
	}
	if c.closed {
		c.persistFailed(op, ids, userID, errCenterClosed)
		return
	}

	done := make(chan struct{})
	var prev []chan struct{}
	for _, id := range ids {
		if ch, ok := c.inflight[id]; ok {
			prev = append(prev, ch)
		}
		c.inflight[id] = done
	}

	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		defer c.release(ids, done)
		defer func() {
			if r := recover(); r != nil {
				c.persistFailed(op, ids, userID, fmt.Errorf("panic: %v", r))
			}
		}()

		for _, ch := range prev {
			<-ch
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.persistTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			c.persistFailed(op, ids, userID, err)
		}
	}()
}

// release lets the next task on ids proceed and drops chains that ended here.
func (c *Center) release(ids []uuid.UUID, done chan struct{}) {
	close(done)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if c.inflight[id] == done {
			delete(c.inflight, id)
		}
	}
}

func (c *Center) persistFailed(op string, ids []uuid.UUID, userID *uuid.UUID, err error) {
	event := c.log.Error().Err(err).Str("op", op)
	if len(ids) == 1 {
		event = event.Str("notification_id", ids[0].String())
	} else {
		event = event.Int("count", len(ids))
	}
	if userID != nil {
		event = event.Str("user_id", userID.String())
	}
	event.Msg("failed to persist notification change")
}

func readUpdate(at time.Time) domain.NotificationUpdate {
	read := true
	return domain.NotificationUpdate{IsRead: &read, ReadAt: &at}
}

// persistedIDs collects the ids of user-owned entries, plus the owner of the last one.
func persistedIDs(items []domain.Notification) ([]uuid.UUID, *uuid.UUID) {
	var (
		ids    []uuid.UUID
		userID *uuid.UUID
	)
	for i := range items {
		if items[i].Persisted() {
			ids = append(ids, items[i].ID)
			userID = items[i].UserID
		}
	}
	return ids, userID
}
