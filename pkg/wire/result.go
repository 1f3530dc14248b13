package wire

// Result is the status code the EC reports for a host command.
// On the wire it is carried as a 16-bit field in the response header.
type Result uint16

const (
	// ResultSuccess indicates the command completed successfully.
	ResultSuccess Result = 0

	// ResultInvalidCommand indicates the command code is unknown.
	ResultInvalidCommand Result = 1

	// ResultError indicates a generic failure.
	ResultError Result = 2

	// ResultInvalidParam indicates a parameter value is out of range.
	ResultInvalidParam Result = 3

	// ResultAccessDenied indicates the command is not permitted.
	ResultAccessDenied Result = 4

	// ResultInvalidResponse indicates the EC produced an unusable response.
	ResultInvalidResponse Result = 5

	// ResultInvalidVersion indicates the command version is unsupported.
	ResultInvalidVersion Result = 6

	// ResultInvalidChecksum indicates a checksum mismatch on the request.
	ResultInvalidChecksum Result = 7

	// ResultInProgress indicates an accepted long-running command.
	ResultInProgress Result = 8

	// ResultUnavailable indicates the requested data is not available.
	ResultUnavailable Result = 9

	// ResultTimeout indicates the EC timed out internally.
	ResultTimeout Result = 10

	// ResultOverflow indicates a table or buffer overflow.
	ResultOverflow Result = 11

	// ResultInvalidHeader indicates a malformed request header.
	ResultInvalidHeader Result = 12

	// ResultRequestTruncated indicates the request did not arrive complete.
	ResultRequestTruncated Result = 13

	// ResultResponseTooBig indicates the response exceeds the caller's buffer.
	ResultResponseTooBig Result = 14

	// ResultBusError indicates an error on the bus behind the EC.
	ResultBusError Result = 15

	// ResultBusy indicates the EC is busy; try again later.
	ResultBusy Result = 16
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "SUCCESS"
	case ResultInvalidCommand:
		return "INVALID_COMMAND"
	case ResultError:
		return "ERROR"
	case ResultInvalidParam:
		return "INVALID_PARAM"
	case ResultAccessDenied:
		return "ACCESS_DENIED"
	case ResultInvalidResponse:
		return "INVALID_RESPONSE"
	case ResultInvalidVersion:
		return "INVALID_VERSION"
	case ResultInvalidChecksum:
		return "INVALID_CHECKSUM"
	case ResultInProgress:
		return "IN_PROGRESS"
	case ResultUnavailable:
		return "UNAVAILABLE"
	case ResultTimeout:
		return "TIMEOUT"
	case ResultOverflow:
		return "OVERFLOW"
	case ResultInvalidHeader:
		return "INVALID_HEADER"
	case ResultRequestTruncated:
		return "REQUEST_TRUNCATED"
	case ResultResponseTooBig:
		return "RESPONSE_TOO_BIG"
	case ResultBusError:
		return "BUS_ERROR"
	case ResultBusy:
		return "BUSY"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the result indicates success.
func (r Result) IsSuccess() bool {
	return r == ResultSuccess
}
