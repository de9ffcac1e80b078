package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Hashes a password for manual admin seeding:
//
//	go run scripts/generate_password.go mysecret
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: generate_password <password>")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), 10)
	if err != nil {
		log.Fatal("failed to hash password:", err)
	}

	fmt.Println(string(hash))
}
