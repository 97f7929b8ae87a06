package discord

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codedrop/internal/application"
	"codedrop/internal/config"
	"codedrop/internal/infrastructure/codefile"
	"codedrop/internal/ports/output"
)

// Bot is the Discord adapter.
type Bot struct {
	session   *discordgo.Session
	config    *config.Config
	handler   *Handler
	scheduler *application.EventScheduler
}

// Repositories groups the output adapters the bot is wired on.
type Repositories struct {
	Events output.EventRepository
	Codes  output.CodeRepository
	Bans   output.BanRepository
}

// NewBot creates a Bot and wires ports: output adapters -> application (use cases) -> handler.
func NewBot(cfg *config.Config, repos Repositories, tr output.T) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("création de la session Discord: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	clock := application.SystemClock{}
	messenger := NewMessenger(s)
	index := application.NewGuildEventIndex()
	pool := application.NewCodePool(repos.Codes, codefile.NewSource(nil))
	access, err := application.NewAccessFilter(repos.Bans, clock)
	if err != nil {
		return nil, err
	}
	scheduler := application.NewEventScheduler(repos.Events, index, messenger, clock)

	setupUC := application.NewSetupWizard(repos.Events, pool, index, scheduler, messenger, tr, clock, application.WizardConfig{
		Locale:   cfg.Locale,
		Location: cfg.Location(),
		Timeout:  cfg.SetupTimeout,
	})
	claimUC := application.NewClaimEngine(access, pool, repos.Events, index, clock)
	eventUC := application.NewEventService(repos.Events, pool, clock)

	rate, err := limiter.NewRateFromFormatted(cfg.ClaimRate)
	if err != nil {
		return nil, fmt.Errorf("CLAIM_RATE: %w", err)
	}
	claimLimiter := limiter.New(memory.NewStore(), rate)

	handler := NewHandler(setupUC, claimUC, eventUC, tr, cfg.Locale, cfg.CommandPrefix, cfg.OrganizerRole, cfg.Location(), claimLimiter)

	bot := &Bot{
		session:   s,
		config:    cfg,
		handler:   handler,
		scheduler: scheduler,
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("🤖 Connecté en tant que %s (%d serveur(s))", r.User.String(), len(r.Guilds))
	})
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		b.handler.HandleDirectMessage(s, m)
		return
	}
	b.handler.HandleGuildMessage(s, m)
}

// Start reloads the schedule and runs the bot until interrupted.
func (b *Bot) Start(ctx context.Context) error {
	armed, err := b.scheduler.Recover(ctx)
	if err != nil {
		return fmt.Errorf("reprise des événements: %w", err)
	}
	defer b.scheduler.Stop()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}
	defer b.session.Close()

	fmt.Printf("🤖 Bot en ligne (%d événement(s) planifié(s)) ! Appuyez sur CTRL+C pour quitter.\n", armed)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	log.Println("👋 Arrêt du bot.")
	return nil
}
