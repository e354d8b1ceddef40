// Package messaging abstracts the event broker behind small Publisher
// and Subscriber interfaces.
//
// The directory module publishes contact lifecycle events and the
// journal module consumes them. Which broker carries them (NATS, NSQ,
// Kafka, or Google Pub/Sub) is a config choice resolved by the
// factory, not something the modules know about.
package messaging
