package kinds

import (
	"strings"
	"time"

	"pkg.jsn.cam/datagen/pkg/dataset"
)

var (
	// HTTPMethods are the request methods used in access log lines.
	HTTPMethods = []string{"GET", "POST", "PUT", "DELETE"}
	// StatusCodes are the response codes used in access log lines.
	StatusCodes = []int{200, 201, 400, 401, 404, 500}
	// LogLevels are the severities used in application log lines.
	LogLevels = []string{"INFO", "WARN", "ERROR", "DEBUG"}
	// Services are the emitting services used in application log lines.
	Services = []string{"auth-service", "payment-service", "checkout-service", "shipping-service"}
)

const (
	minResponseSize = 100
	maxResponseSize = 50000
	messageWords    = 10
)

// AccessLog is one web server access log line.
type AccessLog struct {
	Timestamp    string `json:"timestamp"`
	ClientIP     string `json:"client_ip"`
	Request      string `json:"request"`
	StatusCode   int    `json:"status_code"`
	ResponseSize int    `json:"response_size"`
	UserAgent    string `json:"user_agent"`
}

// AppLog is one application log line.
type AppLog struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service"`
	Message   string `json:"message"`
}

// AccessLogFactory returns a factory stamping lines with the source clock.
func AccessLogFactory(src *Source) dataset.Factory[AccessLog] {
	f := src.Faker
	return func(int) AccessLog {
		return AccessLog{
			Timestamp:    logTime(src),
			ClientIP:     f.IPv4Address(),
			Request:      f.RandomString(HTTPMethods) + " " + src.uriPath() + " HTTP/1.1",
			StatusCode:   f.RandomInt(StatusCodes),
			ResponseSize: f.IntRange(minResponseSize, maxResponseSize),
			UserAgent:    f.UserAgent(),
		}
	}
}

// AppLogFactory returns a factory stamping lines with the source clock.
func AppLogFactory(src *Source) dataset.Factory[AppLog] {
	f := src.Faker
	return func(int) AppLog {
		return AppLog{
			Timestamp: logTime(src),
			Level:     f.RandomString(LogLevels),
			Service:   f.RandomString(Services),
			Message:   f.Sentence(messageWords),
		}
	}
}

// logTime reads the clock anew for every record.
func logTime(src *Source) string {
	return src.Clock.Now().UTC().Format(time.RFC3339Nano)
}

// uriPath returns an absolute path of one to three segments, e.g. /app/list.
func (s *Source) uriPath() string {
	return "/" + strings.Join(s.words(1, 3), "/")
}
