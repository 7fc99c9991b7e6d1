// Package envelope defines the flat (status, payload) response contract returned to the test harness,
// together with the error kinds that operations report through it.
package envelope

// Status reports the outcome of an operation.
type Status int

const (
	// Success indicates the operation completed.
	Success Status = 0
	// Failure indicates the operation failed, the payload carries a message.
	Failure Status = 1
)

// Payload keys.
const (
	ResultKey  = "result"
	MessageKey = "message"
)

// Payload holds either a result value or a human readable message, plus any operation specific keys.
type Payload map[string]interface{}

// Result delivers the value stored under the result key, if any.
func (p Payload) Result() (interface{}, bool) {
	v, ok := p[ResultKey]
	return v, ok
}

// Message delivers the message stored under the message key, or an empty string.
func (p Payload) Message() string {
	s, _ := p[MessageKey].(string)
	return s
}

// Succeed delivers a success envelope carrying the result.
func Succeed(result interface{}) (Status, Payload) {
	return Success, Payload{ResultKey: result}
}

// SucceedEmpty delivers a success envelope with an empty payload.
func SucceedEmpty() (Status, Payload) {
	return Success, Payload{}
}

// SucceedMessage delivers a success envelope carrying an informational message.
func SucceedMessage(msg string) (Status, Payload) {
	return Success, Payload{MessageKey: msg}
}

// FailMessage delivers a failure envelope carrying msg.
func FailMessage(msg string) (Status, Payload) {
	return Failure, Payload{MessageKey: msg}
}

// Fail delivers a failure envelope describing err.
// A nil err is reported as a failure with an empty message.
func Fail(err error) (Status, Payload) {
	if err == nil {
		return FailMessage("")
	}
	return FailMessage(err.Error())
}
