package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain"
	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/input"
	"codedrop/internal/ports/output"
	"codedrop/pkg/tz"
)

// Step is a field of the event collected by the setup dialogue, in order.
type Step int

const (
	StepChannel Step = iota
	StepStart
	StepEnd
	StepResponse
	StepPass
	StepFile
)

func (s Step) String() string {
	return [...]string{"channel", "start", "end", "response", "pass", "file"}[s]
}

const (
	DefaultSetupTimeout = 5 * time.Minute
	DefaultEventLength  = time.Hour
	defaultChannel      = "general"
	answerDefault       = "-"
	answerCancel        = "cancel"
	expiryNoticeTimeout = 10 * time.Second
)

// SetupSession is one organizer's dialogue in progress. It lives only in
// memory and is gone after completion, cancellation or expiry.
type SetupSession struct {
	mu sync.Mutex

	OrganizerID string
	GuildID     string
	Step        Step
	Event       entities.Event

	prior       *entities.Event // organizer's previous event in the guild, for suggestions
	channelHint string
	defaultPass string
	timer       Timer
	gen         uint64
	closed      bool
}

type WizardConfig struct {
	Locale   string
	Location *time.Location
	Timeout  time.Duration
}

// SetupWizard drives the linear CHANNEL → START → END → RESPONSE → PASS → FILE
// dialogue. At most one session exists per organizer.
type SetupWizard struct {
	mu       sync.Mutex
	sessions map[string]*SetupSession

	events    output.EventRepository
	pool      *CodePool
	index     *GuildEventIndex
	scheduler *EventScheduler
	messenger output.Messenger
	tr        output.T
	clock     Clock
	cfg       WizardConfig
}

var _ input.SetupUseCase = (*SetupWizard)(nil)

func NewSetupWizard(
	events output.EventRepository,
	pool *CodePool,
	index *GuildEventIndex,
	scheduler *EventScheduler,
	messenger output.Messenger,
	tr output.T,
	clock Clock,
	cfg WizardConfig,
) *SetupWizard {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSetupTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &SetupWizard{
		sessions:  make(map[string]*SetupSession),
		events:    events,
		pool:      pool,
		index:     index,
		scheduler: scheduler,
		messenger: messenger,
		tr:        tr,
		clock:     clock,
		cfg:       cfg,
	}
}

// Begin opens a session for organizerID and sends the first prompt privately.
// invokingChannel is the channel !setup was typed in and becomes the default
// announcement channel. If the prompt cannot be delivered the session is
// dropped and the error wraps domain.ErrDMUnavailable.
func (w *SetupWizard) Begin(ctx context.Context, organizerID, guildID, invokingChannel string) error {
	sess := &SetupSession{
		OrganizerID: organizerID,
		GuildID:     guildID,
		Step:        StepChannel,
		Event:       entities.Event{GuildID: guildID, CreatedBy: organizerID},
		channelHint: invokingChannel,
		defaultPass: newPassToken(),
	}
	// Held until the first prompt is out, so an early Submit waits for the
	// prior values and the expiry timer.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	w.mu.Lock()
	if _, ok := w.sessions[organizerID]; ok {
		w.mu.Unlock()
		return domain.ErrSessionOpen
	}
	w.sessions[organizerID] = sess
	w.mu.Unlock()

	prior, err := w.events.FindLatestByCreator(ctx, guildID, organizerID)
	if err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		log.Printf("⚠️ Valeurs précédentes indisponibles pour %s: %v", organizerID, err)
	}
	sess.prior = prior
	w.arm(sess)

	if err := w.messenger.DirectMessage(ctx, organizerID, w.prompt(sess)); err != nil {
		w.destroy(sess)
		return fmt.Errorf("%w: %w", domain.ErrDMUnavailable, err)
	}
	log.Printf("✅ Configuration démarrée par %s (serveur %s)", organizerID, guildID)
	return nil
}

// HasSession reports whether organizerID is in the middle of a dialogue.
func (w *SetupWizard) HasSession(organizerID string) bool {
	return w.session(organizerID) != nil
}

// Cancel drops the organizer's session without notifying them. It reports
// whether a session was open.
func (w *SetupWizard) Cancel(organizerID string) bool {
	sess := w.session(organizerID)
	if sess == nil {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return false
	}
	w.destroy(sess)
	log.Printf("🗑️ Configuration annulée pour %s", organizerID)
	return true
}

// Submit feeds one answer to the organizer's session and sends exactly one
// private message back. The error is only set for store or transport failures;
// validation problems come back as EffectRejected.
func (w *SetupWizard) Submit(ctx context.Context, organizerID string, reply input.Reply) (input.Effect, error) {
	sess := w.session(organizerID)
	if sess == nil {
		return input.Effect{}, domain.ErrNoSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return input.Effect{}, domain.ErrNoSession
	}

	effect, err := w.step(ctx, sess, reply)
	if err != nil {
		log.Printf("❌ Configuration (%s, étape %s): %v", organizerID, sess.Step, err)
		effect = input.Effect{Kind: input.EffectRejected, Text: w.t("errors.generic", nil)}
	}
	if dmErr := w.messenger.DirectMessage(ctx, organizerID, effect.Text); dmErr != nil {
		log.Printf("❌ Envoi MP configuration à %s: %v", organizerID, dmErr)
	}
	return effect, err
}

func (w *SetupWizard) step(ctx context.Context, sess *SetupSession, reply input.Reply) (input.Effect, error) {
	text := strings.TrimSpace(reply.Text)
	if strings.EqualFold(text, answerCancel) {
		w.destroy(sess)
		log.Printf("🗑️ Configuration annulée par %s", sess.OrganizerID)
		return input.Effect{Kind: input.EffectCancelled, Text: w.t("setup.cancelled", nil)}, nil
	}
	useDefault := text == "" || text == answerDefault

	switch sess.Step {
	case StepChannel:
		name := text
		if useDefault {
			name = w.suggestChannel(sess)
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "#"))
		ok, err := w.messenger.ChannelExists(ctx, sess.GuildID, name)
		if err != nil {
			return input.Effect{}, fmt.Errorf("channel lookup: %w", err)
		}
		if !ok {
			return w.reject(sess, domain.ErrUnknownChannel, map[string]any{"Channel": name}), nil
		}
		sess.Event.ChannelName = name

	case StepStart:
		start := w.suggestStart(sess)
		if !useDefault {
			t, err := tz.Parse(text, w.cfg.Location)
			if err != nil {
				return w.reject(sess, domain.ErrInvalidDateTime, map[string]any{"Value": text}), nil
			}
			start = t
		}
		sess.Event.StartAt = start

	case StepEnd:
		end := w.suggestEnd(sess)
		if !useDefault {
			t, err := tz.Parse(text, w.cfg.Location)
			if err != nil {
				return w.reject(sess, domain.ErrInvalidDateTime, map[string]any{"Value": text}), nil
			}
			end = t
		}
		if !end.After(sess.Event.StartAt) {
			return w.reject(sess, domain.ErrEndBeforeStart, nil), nil
		}
		sess.Event.EndAt = end

	case StepResponse:
		response := text
		if useDefault {
			response = w.suggestResponse(sess)
		}
		if !strings.Contains(response, entities.CodePlaceholder) {
			return w.reject(sess, domain.ErrMissingPlaceholder, nil), nil
		}
		sess.Event.ResponseMessage = response

	case StepPass:
		pass := text
		if useDefault {
			pass = w.suggestPass(sess)
		}
		normalized := domain.NormalizePass(pass)
		if normalized == "" {
			return w.reject(sess, domain.ErrEmptyPass, nil), nil
		}
		taken, err := w.passTaken(ctx, normalized)
		if err != nil {
			return input.Effect{}, err
		}
		if taken {
			return w.reject(sess, domain.ErrDuplicatePass, nil), nil
		}
		sess.Event.Pass = pass

	case StepFile:
		return w.complete(ctx, sess, reply)
	}

	sess.Step++
	w.arm(sess)
	return input.Effect{Kind: input.EffectPrompt, Text: w.prompt(sess)}, nil
}

func (w *SetupWizard) complete(ctx context.Context, sess *SetupSession, reply input.Reply) (input.Effect, error) {
	if len(reply.Attachments) > 1 {
		return w.reject(sess, domain.ErrTooManyAttachments, nil), nil
	}

	var rows []string
	var loadErr error
	if len(reply.Attachments) == 1 {
		att := reply.Attachments[0]
		sess.Event.FileURL = att.URL
		rows, loadErr = w.pool.Load(ctx, att)
		if loadErr != nil {
			log.Printf("❌ Lecture du fichier de codes %s: %v", att.Filename, loadErr)
		}
	}

	// Another organizer may have taken the pass while this dialogue was open.
	taken, err := w.passTaken(ctx, domain.NormalizePass(sess.Event.Pass))
	if err != nil {
		return input.Effect{}, err
	}
	if taken {
		sess.Step = StepPass
		w.arm(sess)
		return w.reject(sess, domain.ErrDuplicatePass, nil), nil
	}

	event := sess.Event
	event.ID = uuid.New()
	event.CreatedAt = w.clock.Now()
	event.IsActive = true
	window := map[string]any{
		"Channel": event.ChannelName,
		"Start":   tz.Format(event.StartAt, w.cfg.Location),
		"End":     tz.Format(event.EndAt, w.cfg.Location),
	}
	event.StartMessage = w.t("announce.start", window)
	event.EndMessage = w.t("announce.end", window)

	if err := w.events.Create(ctx, &event); err != nil {
		return input.Effect{}, fmt.Errorf("save event: %w", err)
	}

	count, err := w.pool.Ingest(ctx, event.ID, rows)
	if err != nil {
		log.Printf("❌ Import des codes (événement %s): %v", event.ID, err)
		count = 0
	}

	w.index.Put(event)
	w.scheduler.Arm(event)
	w.destroy(sess)
	log.Printf("✅ Événement %s créé par %s avec %d code(s)", event.ID, sess.OrganizerID, count)

	data := map[string]any{
		"Channel": event.ChannelName,
		"Start":   window["Start"],
		"End":     window["End"],
		"Pass":    event.Pass,
		"Count":   count,
	}
	text := w.t("setup.completed", data)
	switch {
	case loadErr != nil:
		text += "\n" + w.t("errors.code_file_unreadable", nil)
	case count == 0:
		text += "\n" + w.t("setup.no_codes", nil)
	}
	return input.Effect{Kind: input.EffectCompleted, Text: text, Event: &event}, nil
}

// passTaken reports whether an unfinished active event already uses the pass.
func (w *SetupWizard) passTaken(ctx context.Context, normalized string) (bool, error) {
	events, err := w.events.FindUnfinished(ctx, w.clock.Now())
	if err != nil {
		return false, fmt.Errorf("find unfinished events: %w", err)
	}
	for i := range events {
		if events[i].NormalizedPass() == normalized {
			return true, nil
		}
	}
	return false, nil
}

func (w *SetupWizard) reject(sess *SetupSession, err error, data map[string]any) input.Effect {
	text := w.t("errors."+domain.Code(err), data) + "\n" + w.prompt(sess)
	return input.Effect{Kind: input.EffectRejected, Text: text}
}

func (w *SetupWizard) prompt(sess *SetupSession) string {
	switch sess.Step {
	case StepChannel:
		return w.t("setup.prompt.channel", map[string]any{"Suggestion": w.suggestChannel(sess)})
	case StepStart:
		return w.t("setup.prompt.start", map[string]any{
			"Suggestion": tz.Format(w.suggestStart(sess), w.cfg.Location),
			"Layout":     "YYYY-MM-DD HH:MM",
		})
	case StepEnd:
		return w.t("setup.prompt.end", map[string]any{"Suggestion": tz.Format(w.suggestEnd(sess), w.cfg.Location)})
	case StepResponse:
		return w.t("setup.prompt.response", map[string]any{"Suggestion": w.suggestResponse(sess)})
	case StepPass:
		return w.t("setup.prompt.pass", map[string]any{"Suggestion": w.suggestPass(sess)})
	default:
		return w.t("setup.prompt.file", nil)
	}
}

func (w *SetupWizard) suggestChannel(sess *SetupSession) string {
	if sess.prior != nil && sess.prior.ChannelName != "" {
		return sess.prior.ChannelName
	}
	if sess.channelHint != "" {
		return sess.channelHint
	}
	return defaultChannel
}

// suggestStart reuses the previous start only while it is still ahead.
func (w *SetupWizard) suggestStart(sess *SetupSession) time.Time {
	now := w.clock.Now()
	if sess.prior != nil && sess.prior.StartAt.After(now) {
		return sess.prior.StartAt
	}
	return tz.NextHour(now, w.cfg.Location)
}

// suggestEnd reuses the previous end only when it still falls after the
// chosen start.
func (w *SetupWizard) suggestEnd(sess *SetupSession) time.Time {
	if sess.prior != nil && sess.prior.EndAt.After(sess.Event.StartAt) {
		return sess.prior.EndAt
	}
	return sess.Event.StartAt.Add(DefaultEventLength)
}

func (w *SetupWizard) suggestResponse(sess *SetupSession) string {
	if sess.prior != nil && sess.prior.ResponseMessage != "" {
		return sess.prior.ResponseMessage
	}
	return w.t("setup.default_response", nil)
}

func (w *SetupWizard) suggestPass(sess *SetupSession) string {
	if sess.prior != nil && sess.prior.Pass != "" {
		return sess.prior.Pass
	}
	return sess.defaultPass
}

// arm (re)starts the expiry timer. Caller holds sess.mu.
func (w *SetupWizard) arm(sess *SetupSession) {
	if sess.timer != nil {
		sess.timer.Stop()
	}
	sess.gen++
	gen := sess.gen
	sess.timer = w.clock.AfterFunc(w.cfg.Timeout, func() { w.expire(sess, gen) })
}

func (w *SetupWizard) expire(sess *SetupSession, gen uint64) {
	sess.mu.Lock()
	if sess.closed || sess.gen != gen {
		sess.mu.Unlock()
		return
	}
	w.destroy(sess)
	sess.mu.Unlock()

	log.Printf("⏰ Configuration expirée pour %s", sess.OrganizerID)
	ctx, cancel := context.WithTimeout(context.Background(), expiryNoticeTimeout)
	defer cancel()
	if err := w.messenger.DirectMessage(ctx, sess.OrganizerID, w.t("setup.expired", map[string]any{"Minutes": int(w.cfg.Timeout.Minutes())})); err != nil {
		log.Printf("❌ Envoi MP expiration à %s: %v", sess.OrganizerID, err)
	}
}

// destroy closes the session and forgets it. Caller holds sess.mu.
func (w *SetupWizard) destroy(sess *SetupSession) {
	sess.closed = true
	if sess.timer != nil {
		sess.timer.Stop()
	}
	w.mu.Lock()
	if w.sessions[sess.OrganizerID] == sess {
		delete(w.sessions, sess.OrganizerID)
	}
	w.mu.Unlock()
}

func (w *SetupWizard) session(organizerID string) *SetupSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessions[organizerID]
}

func (w *SetupWizard) t(key string, data map[string]any) string {
	return w.tr.T(w.cfg.Locale, key, data)
}

func newPassToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
