package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionOption  = "opt"
	actionNext    = "next"
	actionRestart = "restart"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildOptionCallback builds callback data for picking option index of the
// question shown as presentation seq.
func buildOptionCallback(seq, index int) string {
	return callbackData{
		Action: actionOption,
		Params: []string{strconv.Itoa(seq), strconv.Itoa(index)},
	}.encode()
}

// parseOptionCallback extracts the presentation seq and option index.
func parseOptionCallback(cd callbackData) (seq, index int, ok bool) {
	if cd.Action != actionOption || len(cd.Params) != 2 {
		return 0, 0, false
	}

	seq, err := strconv.Atoi(cd.Params[0])
	if err != nil || seq < 1 {
		return 0, 0, false
	}

	index, err = strconv.Atoi(cd.Params[1])
	if err != nil || index < 0 {
		return 0, 0, false
	}

	return seq, index, true
}

func buildNextCallback() string {
	return actionNext
}

func buildRestartCallback() string {
	return actionRestart
}
