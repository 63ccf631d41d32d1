package util

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// ParseDurationValue accepts either a Go duration ("100s", "2m") or a bare number of seconds ("100")
func ParseDurationValue(value string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return SecondsToDuration(seconds), nil
	}

	return time.ParseDuration(value)
}
