// Package messaging is a small broker-agnostic publish/consume layer.
//
// Drivers: NATS (core subjects with queue groups), NSQ (topic/channel) and
// Kafka (consumer groups), plus an in-process memory broker for local runs
// and tests. Every driver carries string headers; NSQ has no native headers,
// so its payloads travel in a JSON envelope.
package messaging
