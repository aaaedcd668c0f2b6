package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period          string            `json:"period"`
	EventCounts     map[EventType]int `json:"event_counts"`
	Evaluations     int               `json:"evaluations"`
	TaskCompletions int               `json:"task_completions"`
	StageUnlocks    int               `json:"stage_unlocks"`
	MealsLogged     int               `json:"meals_logged"`
	WeighInsLogged  int               `json:"weigh_ins_logged"`
	PlanUpdates     int               `json:"plan_updates"`
	CacheHits       int               `json:"cache_hits"`
	CacheMisses     int               `json:"cache_misses"`
	CacheHitRate    float64           `json:"cache_hit_rate"`
	PointsByTask    map[string]int    `json:"points_by_task"`
}

// CalculateStats computes engine/journey usage stats from recorded events.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:       since.Format("2006-01-02"),
		EventCounts:  make(map[EventType]int),
		PointsByTask: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventEvaluationRan:
			stats.Evaluations++
		case EventTaskCompleted:
			stats.TaskCompletions++
			if taskID, ok := metadata["task_id"].(string); ok {
				if pts, ok := metadata["points"].(float64); ok {
					stats.PointsByTask[taskID] += int(pts)
				}
			}
		case EventStageUnlocked:
			stats.StageUnlocks++
		case EventMealLogged:
			stats.MealsLogged++
		case EventWeighInLogged:
			stats.WeighInsLogged++
		case EventPlanUpdated:
			stats.PlanUpdates++
		case EventCacheHit:
			stats.CacheHits++
		case EventCacheMiss:
			stats.CacheMisses++
		}
	}

	if total := stats.CacheHits + stats.CacheMisses; total > 0 {
		stats.CacheHitRate = float64(stats.CacheHits) / float64(total)
	}

	return stats, nil
}
