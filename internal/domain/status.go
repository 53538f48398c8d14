package domain

// Health enumerates the engine's overall health report.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthDegraded  Health = "degraded"
	HealthUnhealthy Health = "unhealthy"
	HealthUnknown   Health = "unknown"
)

// ParseHealth maps an engine-reported health string onto the closed
// enumeration, defaulting to HealthUnknown.
func ParseHealth(s string) Health {
	switch Health(s) {
	case HealthHealthy, HealthDegraded, HealthUnhealthy:
		return Health(s)
	default:
		return HealthUnknown
	}
}

// SystemStatus is ambient engine telemetry, not tied to any job.
type SystemStatus struct {
	Health        Health `json:"health"`
	QueueLength   int    `json:"queue_length"`
	ActiveWorkers int    `json:"active_workers"`
	GPUStatus     string `json:"gpu_status,omitempty"`
}

// StatusPatch is a partial SystemStatus update. Nil fields were absent from
// the source payload and must not overwrite previously known values.
type StatusPatch struct {
	Health        *string `json:"health,omitempty"`
	QueueLength   *int    `json:"queue_length,omitempty"`
	ActiveWorkers *int    `json:"active_workers,omitempty"`
	GPUStatus     *string `json:"gpu_status,omitempty"`
}

// TransportState describes the push channel's connection lifecycle.
type TransportState string

const (
	TransportConnecting         TransportState = "connecting"
	TransportOpen               TransportState = "open"
	TransportClosed             TransportState = "closed"
	TransportReconnectScheduled TransportState = "reconnect-scheduled"
)
