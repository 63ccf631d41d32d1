package lookahead

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/travigo/lookahead/pkg/transit"
)

func TestNewGenerationReport(t *testing.T) {
	timetable := waitingTimeTimetable(at("08:10:00"), at("08:09:00"), at("08:09:30"))

	result := &GenerationResult{
		LineID:         1,
		Timetables:     []*transit.Timetable{timetable},
		TravelRequests: timetable.TravelRequests,
		Rejected:       []RejectedTravelRequest{{Err: ErrBadStop}},
	}

	runID := NewRunID()
	_, err := uuid.Parse(runID)
	assert.NoError(t, err)

	report := NewGenerationReport(runID, 1, result, 2*time.Second, nil)

	assert.Equal(t, runID, report.RunID)
	assert.Equal(t, 1, report.Timetables)
	assert.Equal(t, 2, report.TravelRequests)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 45.0, report.AverageWaitingTime)
	assert.Equal(t, 2.0, report.Duration)
	assert.Empty(t, report.Error)

	failed := NewGenerationReport(runID, 2, nil, time.Second, errors.New("boom"))
	assert.Equal(t, "boom", failed.Error)
	assert.Zero(t, failed.Timetables)

	// Without Elasticsearch configured publishing only logs
	PublishGenerationReport(report)
}

func TestGenerationReportIndexName(t *testing.T) {
	assert.Equal(t, "lookahead-generation-2024-03", generationReportIndexName(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}
