package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"gopkg.in/yaml.v2"

	"github.com/voxcommunity/rafflebot/cache"
	"github.com/voxcommunity/rafflebot/database"
	"github.com/voxcommunity/rafflebot/handler"
	"github.com/voxcommunity/rafflebot/raffle"
	"github.com/voxcommunity/rafflebot/scheduler"
)

type Config struct {
	Discord struct {
		Token string `yaml:"token"`
	} `yaml:"discord"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
	Port string `yaml:"port"`
}

var cfg Config

func init() {
	f, err := os.Open("config.yml")
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("parsing config.yml: %v", err)
		}
	}

	// environment wins over the file so hosted deployments need no
	// config.yml at all
	override(&cfg.Discord.Token, "DISCORD_TOKEN")
	override(&cfg.Database.Host, "DB_HOST")
	override(&cfg.Database.Port, "DB_PORT")
	override(&cfg.Database.User, "DB_USER")
	override(&cfg.Database.Password, "DB_PASS")
	override(&cfg.Database.Name, "DB_NAME")
	override(&cfg.Port, "PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
}

func override(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func dsn() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name)
}

func main() {
	if cfg.Discord.Token == "" {
		log.Fatal("no Discord token configured (DISCORD_TOKEN)")
	}

	store, err := database.New("postgres", dsn())
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer store.Close()

	// the cache must be a faithful mirror before any draw is served; a
	// failed rebuild means the process must not come up
	stateCache := cache.New()
	snap, err := store.Snapshot()
	if err != nil {
		log.Fatalf("rebuilding state cache: %v", err)
	}
	stateCache.Rebuild(snap)

	service := raffle.NewService(store, stateCache)
	// the picker and the archive watcher share one lock table so a draw
	// and an archive of the same raffle never interleave
	raffleLocks := raffle.NewNameLocks()
	picker := raffle.NewPicker(store, stateCache, nil, raffleLocks)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("creating Discord session: %v", err)
	}
	session.Identify.Intents = discordgo.MakeIntent(
		discordgo.IntentsGuilds |
			discordgo.IntentsGuildMembers |
			discordgo.IntentsGuildMessages |
			discordgo.IntentsGuildPresences)

	botHandler := handler.New(service, picker)
	session.AddHandler(botHandler.HandleMessage)

	if err := session.Open(); err != nil {
		log.Fatalf("connecting to Discord: %v", err)
	}
	defer session.Close()
	log.Printf("Authorized on account %s", session.State.User.Username)

	watcher, err := scheduler.NewWatcher(store, stateCache, raffleLocks).Start()
	if err != nil {
		log.Fatalf("starting archive watcher: %v", err)
	}
	defer watcher.Stop()

	router := gin.Default()
	handler.NewStatusHandler(service).Register(router)
	go func() {
		if err := router.Run("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down")
}
