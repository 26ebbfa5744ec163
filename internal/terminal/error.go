package terminal

const (
	logFieldErr = "err"
)

var errorMessageFields = []string{logFieldErr}

// errorMessage renders an error as log output, exposing it under the
// "err" payload key when logs are JSON-formatted
//
// the error stays embedded so an errorMessage still satisfies error
type errorMessage struct {
	error
}

func (e errorMessage) Message() (string, error) {
	return e.Error(), nil
}

func (e errorMessage) Payload() ([]string, map[string]interface{}, error) {
	return errorMessageFields, map[string]interface{}{
		logFieldErr: e.Error(),
	}, nil
}
