// Package notify provides the outbound collaborators scheduled events hand
// their output to: an SMTP mailer, a Telegram notifier (recipients are chat
// IDs), and a rate-limited HTTP pinger for webhook callbacks.
package notify
