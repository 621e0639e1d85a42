// Package infra groups the adapters between the simulator core and the
// outside world: fleet loaders, metrics sinks, the MQTT schedule feed, error
// monitoring and logging. Core packages never import infra.
package infra
