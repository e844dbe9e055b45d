package kafka

// Audit actions emitted by the core.
const (
	ActionTireAssignmentCreated = "tire_assignment.created"
	ActionTireAssignmentClosed  = "tire_assignment.closed"
	ActionOrderEffectsSynced    = "maintenance_order.effects_synced"
	ActionPartLifeRecorded      = "spare_part.life_recorded"
)

// Kafka topics
const (
	TopicFleetAudit = "fleet-audit"
)
