// Command createtoken mints an access token for local testing without going
// through Google sign-in.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Error loading .env:", err)
		os.Exit(1)
	}

	userID := flag.String("user", "", "user id placed in the token (required)")
	email := flag.String("email", "", "email claim")
	name := flag.String("name", "", "name claim")
	role := flag.String("role", string(user.RoleEmployee), "employee or admin")
	expiration := flag.String("exp", "8h", "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" || *userID == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY and -user are required")
		flag.Usage()
		os.Exit(2)
	}

	token, expiresAt, err := jwt.NewJWTService(secret, *expiration).GenerateAccessToken(user.Identity{
		UserID: *userID,
		Email:  *email,
		Name:   *name,
		Role:   user.ParseRole(*role),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %d\n", expiresAt)
}
