package core

// error_messages.go maps conversion errors to coded messages for the log.
//
// Error codes are grouped by category:
//
//	MAP001  - Mapping file missing, unreadable or malformed
//	          Action: Check --code-map / STATIONCSV_CODE_MAP
//
//	DATA001 - Payload has no row list under "Data" or "data"
//	          Action: Re-export the file from the station portal
//	DATA002 - No rows with a valid datetime remain
//	          Action: Use --all-rows to keep non-timeseries rows
//	DATA003 - A datetime names a date or time that does not exist
//	          Action: Fix or remove the row in the export
//
//	FILE001 - Input is not valid JSON
//	FILE002 - Input file cannot be opened
//	FILE003 - CSV output could not be written
//
//	OPT001  - Conversion options are invalid
//	RUN001  - The run was cancelled
//
//	ERR000  - Anything else; the log entry carries the technical error
//
// Sentinel errors are matched with errors.Is first; the remaining codes are
// found by case-insensitive substring match on the error text. The first
// match wins, so more specific entries come first.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/stationcsv/internal/codemap"
)

// UserMessage provides readable error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for reference
}

type errorSentinel struct {
	target error
	msg    UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorSentinels = []errorSentinel{
	{
		target: codemap.ErrMappingFile,
		msg: UserMessage{
			Message: "Mapping file is missing or malformed",
			Action:  "Check the --code-map path or STATIONCSV_CODE_MAP",
			Code:    "MAP001",
		},
	},
	{
		target: ErrDataFormat,
		msg: UserMessage{
			Message: "JSON has no row list under Data",
			Action:  "Re-export the file; rows must be a list under \"Data\" or \"data\"",
			Code:    "DATA001",
		},
	},
	{
		target: ErrNoRows,
		msg: UserMessage{
			Message: "No rows with a valid datetime",
			Action:  "Use --all-rows to keep rows without a timestamp",
			Code:    "DATA002",
		},
	},
	{
		target: ErrInvalidDatetime,
		msg: UserMessage{
			Message: "Datetime names a date or time that does not exist",
			Action:  "Fix or remove the row in the export",
			Code:    "DATA003",
		},
	},
	{
		target: ErrInvalidOptions,
		msg: UserMessage{
			Message: "Conversion options are invalid",
			Action:  "Check --col-prefix, --rows and --delimiter",
			Code:    "OPT001",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Run was cancelled",
			Action:  "Re-run to convert the remaining files",
			Code:    "RUN001",
		},
	},
}

var errorPatterns = []errorPattern{
	{
		pattern: "read input",
		msg: UserMessage{
			Message: "Input file cannot be opened",
			Action:  "Check that the file exists and is readable",
			Code:    "FILE002",
		},
	},
	{
		pattern: "decode payload",
		msg: UserMessage{
			Message: "Input is not valid JSON",
			Action:  "Check that the export was downloaded completely",
			Code:    "FILE001",
		},
	},
	{
		pattern: "write csv",
		msg: UserMessage{
			Message: "CSV output could not be written",
			Action:  "Check permissions and free space in the output directory",
			Code:    "FILE003",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log entry for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a coded message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
