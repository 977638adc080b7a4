// Package messaging hides the event broker behind Publish and Consume.
// Drivers: in-process memory, NATS, Kafka, NSQ and Google Pub/Sub.
package messaging
