package lookahead

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/elastic_client"
)

type GenerationReportElasticEvent struct {
	Timestamp time.Time

	RunID  string
	LineID int

	Timetables     int
	TravelRequests int
	Rejected       int

	AverageWaitingTime float64
	Duration           float64

	Error string `json:",omitempty"`
}

// NewRunID identifies all line reports written by one generator pass
func NewRunID() string {
	return uuid.New().String()
}

func NewGenerationReport(runID string, lineID int, result *GenerationResult, duration time.Duration, err error) GenerationReportElasticEvent {
	report := GenerationReportElasticEvent{
		Timestamp: time.Now(),
		RunID:     runID,
		LineID:    lineID,
		Duration:  duration.Seconds(),
	}

	if err != nil {
		report.Error = err.Error()
	}

	if result == nil {
		return report
	}

	report.Timetables = len(result.Timetables)
	report.TravelRequests = len(result.TravelRequests)
	report.Rejected = len(result.Rejected)

	var totalWaitingTime time.Duration
	for _, timetable := range result.Timetables {
		for _, travelRequest := range timetable.TravelRequests {
			totalWaitingTime += timetable.WaitingTime(travelRequest)
		}
	}
	if report.TravelRequests > 0 {
		report.AverageWaitingTime = (totalWaitingTime / time.Duration(report.TravelRequests)).Seconds()
	}

	return report
}

func generationReportIndexName(timestamp time.Time) string {
	return fmt.Sprintf("lookahead-generation-%d-%02d", timestamp.Year(), timestamp.Month())
}

// PublishGenerationReport logs the report and indexes it when Elasticsearch is configured
func PublishGenerationReport(report GenerationReportElasticEvent) {
	log.Info().
		Str("run", report.RunID).
		Int("line", report.LineID).
		Int("timetables", report.Timetables).
		Int("travelrequests", report.TravelRequests).
		Int("rejected", report.Rejected).
		Float64("averagewait", report.AverageWaitingTime).
		Float64("duration", report.Duration).
		Str("error", report.Error).
		Msg("Timetable generation report")

	elasticEvent, _ := json.Marshal(report)

	elastic_client.IndexRequest(generationReportIndexName(report.Timestamp), bytes.NewReader(elasticEvent))
}
