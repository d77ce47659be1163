package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/noah-isme/dojo-api/internal/dto"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/repository"
	"github.com/noah-isme/dojo-api/internal/service"
	"github.com/noah-isme/dojo-api/pkg/config"
	"github.com/noah-isme/dojo-api/pkg/database"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
	"github.com/noah-isme/dojo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	members := service.NewMemberService(repository.NewUserRepository(db), nil, nil, logr, cfg.Members.DefaultPassword)

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Create Admin ===")

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: username is required")
		os.Exit(1)
	}

	fmt.Print("Display name (optional): ")
	displayName, _ := reader.ReadString('\n')
	displayName = strings.TrimSpace(displayName)

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error: could not read password")
		os.Exit(1)
	}
	password := string(raw)

	req := dto.CreateMemberRequest{
		Username: username,
		Password: &password,
		Role:     string(models.RoleAdmin),
	}
	if displayName != "" {
		req.DisplayName = &displayName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := members.Create(ctx, req)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			fmt.Printf("Error: %s\n", appErr.Message)
			for _, detail := range appErr.Details {
				fmt.Printf("  %s: %s\n", detail.Field, detail.Message)
			}
			os.Exit(1)
		}
		logr.Sugar().Fatalw("create admin failed", "error", err)
	}

	fmt.Printf("Admin %q created with ID %s\n", user.Username, user.ID)
}
