// Command mockapi runs the in-memory stand-in API for local development.
// Point the client at http://localhost:8000/api and sign in with the
// seeded administrator account.
package main

import (
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/uia-acad/notas/services/mockapi"
)

func main() {
	addr := os.Getenv("MOCKAPI_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	email := os.Getenv("MOCKAPI_ADMIN_EMAIL")
	if email == "" {
		email = "admin@uia.edu"
	}

	password := os.Getenv("MOCKAPI_ADMIN_PASSWORD")
	if password == "" {
		password = promptPassword(email)
	}

	srv := mockapi.NewServer(&mockapi.Options{
		Address:       addr,
		Debug:         true,
		AdminEmail:    email,
		AdminPassword: password,
	})

	log.Printf("mock API listening on %s (admin: %s)", addr, email)
	srv.Start()
}

func promptPassword(email string) string {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "admin123"
	}
	fmt.Printf("Password for %s: ", email)
	pwd, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil || len(pwd) == 0 {
		log.Fatal("a non-empty admin password is required")
	}
	return string(pwd)
}
