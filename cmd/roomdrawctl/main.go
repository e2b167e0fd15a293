// Command roomdrawctl mints bearer tokens for the roomdraw server.
//
//	JWT_SECRET=... roomdrawctl --student admin --role admin
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/mmynk/roomdraw/internal/auth"
	"github.com/mmynk/roomdraw/internal/models"
	"github.com/mmynk/roomdraw/pkg/logging"
)

func main() {
	var (
		studentID = pflag.StringP("student", "s", "", "student ID the token speaks for")
		role      = pflag.StringP("role", "r", string(models.RoleStudent), "role claim (student or admin)")
		secret    = pflag.String("secret", os.Getenv("JWT_SECRET"), "signing secret (defaults to $JWT_SECRET)")
		ttl       = pflag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	pflag.Parse()

	logging.Setup("warn")

	if err := run(*studentID, models.Role(*role), *secret, *ttl); err != nil {
		slog.Error("Failed to mint token", "error", err)
		os.Exit(1)
	}
}

func run(studentID string, role models.Role, secret string, ttl time.Duration) error {
	if studentID == "" {
		return fmt.Errorf("--student is required")
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	if secret == "" {
		return fmt.Errorf("--secret or JWT_SECRET is required")
	}

	token, err := auth.NewJWTManager(secret, ttl).Generate(&models.Student{ID: studentID, Role: role})
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
