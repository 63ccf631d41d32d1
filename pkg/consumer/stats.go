package consumer

import (
	"fmt"
	"net/http"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/lookahead/pkg/database"
	"github.com/travigo/lookahead/pkg/redis_client"
)

type StatsServerHandler struct {
	queueConnection rmq.Connection
}

func NewStatsHandler(connection rmq.Connection) *StatsServerHandler {
	return &StatsServerHandler{queueConnection: connection}
}

func (handler *StatsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	layout := request.FormValue("layout")
	refresh := request.FormValue("refresh")

	queues, err := handler.queueConnection.GetOpenQueues()
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	stats, err := handler.queueConnection.CollectStats(queues)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	fmt.Fprint(writer, stats.GetHtml(layout, refresh))
}

// HealthHandler reports OK once both redis and mongo answer
type HealthHandler struct {
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (handler *HealthHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if err := redis_client.Client.Ping(request.Context()).Err(); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	if database.MongoGlobalInstance == nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, "mongo is not connected")
		return
	}
	if err := database.MongoGlobalInstance.Client.Ping(request.Context(), nil); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "OK")
}
