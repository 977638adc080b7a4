// Package mail delivers rendered messages. SMTP is the production driver;
// Log writes messages to slog for local runs.
package mail
