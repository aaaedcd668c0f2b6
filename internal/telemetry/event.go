package telemetry

import "time"

type EventType string

const (
	EventMealLogged    EventType = "meal_logged"
	EventWeighInLogged EventType = "weigh_in_logged"
	EventPlanUpdated   EventType = "plan_updated"
	EventEvaluationRan EventType = "evaluation_ran"
	EventTaskCompleted EventType = "task_completed"
	EventStageUnlocked EventType = "stage_unlocked"
	EventCacheHit      EventType = "cache_hit"
	EventCacheMiss     EventType = "cache_miss"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
