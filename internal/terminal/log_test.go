package terminal

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/grandcamel/as-plugins-cli/internal/utils/test/assert"
)

func TestLogConstructor(t *testing.T) {
	for _, tc := range []struct {
		ctor          string
		log           Log
		expectedLevel LogLevel
		expectedData  LogData
	}{
		{
			ctor:          "NewTextLog",
			log:           NewTextLog("saved %s credentials", "jira"),
			expectedLevel: LogLevelInfo,
			expectedData:  textMessage("saved jira credentials"),
		},
		{
			ctor:          "NewDebugLog",
			log:           NewDebugLog("backed up to %s", "/home/user/.env.backup.20260102-150405"),
			expectedLevel: LogLevelDebug,
			expectedData:  textMessage("backed up to /home/user/.env.backup.20260102-150405"),
		},
		{
			ctor:          "NewWarningLog",
			log:           NewWarningLog("glab CLI not found"),
			expectedLevel: LogLevelWarn,
			expectedData:  textMessage("glab CLI not found"),
		},
		{
			ctor:          "NewErrorLog",
			log:           NewErrorLog(errors.New("oh noz")),
			expectedLevel: LogLevelError,
			expectedData:  errorMessage{errors.New("oh noz")},
		},
	} {
		t.Run(fmt.Sprintf("%s should create the expected Log", tc.ctor), func(t *testing.T) {
			time.Sleep(1 * time.Millisecond) // force tick
			assert.True(t, time.Now().After(tc.log.Time), "now should be later than the log's timestamp")
			assert.Equal(t, tc.expectedLevel, tc.log.Level)
			assert.Equal(t, tc.expectedData, tc.log.Data)
		})
	}
}

func TestLogPrint(t *testing.T) {
	staticTime := time.Date(1989, 6, 22, 7, 54, 0, 0, time.UTC)

	for _, tc := range []struct {
		level           LogLevel
		data            LogData
		expectedOutputs map[OutputFormat]string
	}{
		{
			level: LogLevelInfo,
			data:  textMessage("this is a test log"),
			expectedOutputs: map[OutputFormat]string{
				OutputFormatText: "07:54:00 UTC INFO  this is a test log",
				OutputFormatJSON: `{"time":"1989-06-22T07:54:00Z","level":"info","message":"this is a test log"}`,
			},
		},
		{
			level: LogLevelWarn,
			data:  textMessage("be careful"),
			expectedOutputs: map[OutputFormat]string{
				OutputFormatText: "07:54:00 UTC WARN  be careful",
				OutputFormatJSON: `{"time":"1989-06-22T07:54:00Z","level":"warn","message":"be careful"}`,
			},
		},
		{
			level: LogLevelError,
			data:  errorMessage{errors.New("something bad happened")},
			expectedOutputs: map[OutputFormat]string{
				OutputFormatText: "07:54:00 UTC ERROR something bad happened",
				OutputFormatJSON: `{"time":"1989-06-22T07:54:00Z","level":"error","err":"something bad happened"}`,
			},
		},
	} {
		for _, outputFormat := range []OutputFormat{OutputFormatText, OutputFormatJSON} {
			t.Run(fmt.Sprintf("%s log should print correctly with %s format", tc.level, outputFormat), func(t *testing.T) {
				log := Log{tc.level, staticTime, tc.data}

				output, err := log.Print(outputFormat)
				assert.Nil(t, err)
				assert.Equal(t, tc.expectedOutputs[outputFormat], output)
			})
		}
	}
}
