package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// Signs a webhook payload the way the provider does, so local deliveries to
// /webhooks/bsp can be crafted by hand:
//
//	cat payload.json | go run cmd/sign/main.go <app_secret>
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/sign/main.go <app_secret> < payload.json")
		os.Exit(1)
	}

	appSecret := os.Args[1]

	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read payload from stdin: %v\n", err)
		os.Exit(1)
	}

	h := hmac.New(sha256.New, []byte(appSecret))
	h.Write(body)
	signature := fmt.Sprintf("sha256=%x", h.Sum(nil))

	fmt.Println()
	fmt.Printf("Payload bytes: %d\n", len(body))
	fmt.Printf("X-Hub-Signature-256: %s\n", signature)
	fmt.Println()
	fmt.Printf("curl -X POST -H 'Content-Type: application/json' -H 'X-Hub-Signature-256: %s' --data-binary @payload.json http://localhost:8080/webhooks/bsp\n", signature)
}
