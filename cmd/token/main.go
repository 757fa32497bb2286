// Command token issues an access token for the API. Operators hand these to
// clerks and administrators; there is no login endpoint.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/saiharipapers/factory-erp/internal/config"
	"github.com/saiharipapers/factory-erp/internal/domain/auth"
	"github.com/saiharipapers/factory-erp/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id stamped on finalized payroll")
	role := flag.String("role", string(auth.RoleClerk), "admin or clerk")
	flag.Parse()

	if err := run(*userID, *role); err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
}

func run(userID, roleName string) error {
	if userID == "" {
		return fmt.Errorf("-user is required")
	}
	role, err := auth.ParseRole(roleName)
	if err != nil {
		return fmt.Errorf("%w: %q", err, roleName)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(userID, role)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).Format(time.RFC3339))
	return nil
}
