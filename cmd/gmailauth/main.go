package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/justsurfingit/job-application-tracker/internal/auth"
)

// gmailauth runs the one-time OAuth consent flow and writes the token file
// the reminder mailer reads.
func main() {
	credentials := flag.String("credentials", "credentials.json", "OAuth client credentials file")
	token := flag.String("token", "token.json", "where to write the token")
	flag.Parse()

	if err := auth.AuthorizeGmail(context.Background(), *credentials, *token, os.Stdin, os.Stdout); err != nil {
		slog.Error("Gmail authorization failed", "err", err)
		os.Exit(1)
	}
	slog.Info("Token saved", "path", *token)
}
