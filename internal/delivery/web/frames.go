package web

// Server frame types.
const (
	frameLoading  = "loading"
	frameQuestion = "question"
	frameScore    = "score"
	frameTime     = "time"
	frameAnswer   = "answer"
	frameExpired  = "expired"
	frameComplete = "complete"
	frameFailure  = "failure"
)

// Client frame types.
const (
	frameSelect  = "select"
	frameNext    = "next"
	frameRestart = "restart"
)

type loadingFrame struct {
	Type string `json:"type"`
}

// questionFrame carries option labels only; which one is correct stays on the server.
type questionFrame struct {
	Type       string   `json:"type"`
	Number     int      `json:"number"`
	Total      int      `json:"total"`
	Text       string   `json:"text"`
	Category   string   `json:"category,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Options    []string `json:"options"`
}

type scoreFrame struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
}

type timeFrame struct {
	Type    string `json:"type"`
	Seconds int    `json:"seconds"`
}

type answerFrame struct {
	Type      string `json:"type"`
	Selected  string `json:"selected"`
	Correct   string `json:"correct"`
	IsCorrect bool   `json:"is_correct"`
}

type expiredFrame struct {
	Type    string `json:"type"`
	Correct string `json:"correct"`
}

type completeFrame struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

type failureFrame struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// clientFrame is any frame sent by the browser.
type clientFrame struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}
