// Command hashpw prints a bcrypt hash for ADMIN_PASSWORD_HASH. The password
// is read from the first argument or, when absent, from stdin.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"docverify/pkg/bcrypt"
	"docverify/pkg/log"
)

func main() {
	logger := log.NewLogger()

	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logger.Fatalf("Failed to read password: %v", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if password == "" {
		logger.Fatal("Password must not be empty")
	}

	hash, err := bcrypt.New().HashPassword(password)
	if err != nil {
		logger.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
