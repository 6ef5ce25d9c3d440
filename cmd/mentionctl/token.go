package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/xyz-asif/nexcrm/internal/features/users"
	"github.com/xyz-asif/nexcrm/internal/pkg/jwt"
)

// TokenCommand returns the token command
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Sign an access token for calling the API as a user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user-id",
				Usage:    "ID of the user the token is issued to",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "username",
				Usage:    "Username carried in the token",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "Role carried in the token",
				Value: users.RoleDeveloper,
			},
			&cli.StringFlag{
				Name:     "secret",
				Usage:    "Signing secret, must match the API's jwt_secret",
				EnvVars:  []string{"NEXCRM_JWT_SECRET"},
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "expires",
				Usage: "Token lifetime",
				Value: jwt.DefaultConfig("").AccessExpiry,
			},
		},
		Action: runToken,
	}
}

func runToken(c *cli.Context) error {
	cfg := jwt.DefaultConfig(c.String("secret"))
	cfg.AccessExpiry = c.Duration("expires")

	tok, err := jwt.GenerateToken(c.String("user-id"), c.String("username"), strings.ToUpper(c.String("role")), cfg)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, tok)
	return err
}
