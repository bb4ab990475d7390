package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mili4400/FinanzApp-Cloud/internal/data"
	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

// createuser provisions one user record in the credential file. Passwords
// are always stored bcrypt-hashed.
func main() {
	godotenv.Load()

	usersFile := os.Getenv("USERS_FILE")
	if usersFile == "" {
		usersFile = "users.json"
	}

	users := service.NewUserService(data.NewUserFile(usersFile))
	in := bufio.NewReader(os.Stdin)

	fmt.Println("Create a new FinanzApp user")
	username := prompt(in, "Username: ")
	password := prompt(in, "Password: ")
	language := strings.ToLower(prompt(in, "Language (es/en) [es]: "))
	if language == "" {
		language = "es"
	}

	if username == "" || password == "" {
		log.Fatal("username and password are required")
	}

	if err := users.AddUser(username, password, language); err != nil {
		if errors.Is(err, service.ErrUserExists) {
			log.Fatalf("user %q already exists", username)
		}
		log.Fatalf("add user: %v", err)
	}

	fmt.Printf("User %q added to %s\n", username, usersFile)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
