package main

import (
	"context"
	"log"
	"os"

	"codedrop/internal/adapters/discord"
	"codedrop/internal/config"
	"codedrop/internal/infrastructure/database"
	"codedrop/internal/infrastructure/i18n"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.StoreTimeout)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation de la base de données: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Erreur lors des migrations: %v", err)
	}

	repos := discord.Repositories{
		Events: database.NewEventRepository(pool, cfg.StoreTimeout),
		Codes:  database.NewCodeRepository(pool, cfg.StoreTimeout),
		Bans:   database.NewBanRepository(pool, cfg.StoreTimeout),
	}

	bot, err := discord.NewBot(cfg, repos, i18n.NewTranslator(cfg.Locale))
	if err != nil {
		log.Fatalf("❌ Erreur lors de la création du bot: %v", err)
	}
	if err := bot.Start(ctx); err != nil {
		log.Printf("❌ Erreur lors du démarrage du bot: %v", err)
		os.Exit(1)
	}
}
