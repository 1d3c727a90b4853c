// Command admin performs account maintenance that has no HTTP surface:
// activating, deactivating and deleting users.
//
//	admin deactivate <username>
//	admin activate <username>
//	admin delete <username>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"medtracker/internal/cache"
	"medtracker/internal/config"
	"medtracker/internal/db"
	apperrors "medtracker/internal/errors"
	"medtracker/internal/logging"
	"medtracker/internal/repository"
	"medtracker/internal/service"
)

const usage = "usage: admin <activate|deactivate|delete> <username>"

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command, username := os.Args[1], os.Args[2]

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, "text")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if err := db.Migrate(gormDB, false); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	// Redis is optional here; without it cached profiles simply expire.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	users := service.NewUserService(repository.NewUserRepository(gormDB), cacheClient)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry := log.WithField("username", username)
	switch command {
	case "activate", "deactivate":
		_, err = users.SetActive(ctx, username, command == "activate")
	case "delete":
		err = users.DeleteUser(ctx, username)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if errors.Is(err, apperrors.ErrUserNotFound) {
		entry.Error("no such user")
		os.Exit(1)
	}
	if err != nil {
		entry.WithError(err).Fatal(command + " failed")
	}
	entry.Info(command + "d")
}
