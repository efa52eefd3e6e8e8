package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

// apiResponse mirrors the Open Trivia DB payload.
type apiResponse struct {
	ResponseCode *int        `json:"response_code" validate:"required"`
	Results      []apiResult `json:"results" validate:"dive"`
}

type apiResult struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question" validate:"required"`
	CorrectAnswer    string   `json:"correct_answer" validate:"required"`
	IncorrectAnswers []string `json:"incorrect_answers" validate:"dive,required"`
}

// Client fetches question batches from an Open Trivia DB compatible endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewClient creates a client for endpoint, e.g. https://opentdb.com/api.php.
func NewClient(httpClient *http.Client, endpoint string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		validate:   validator.New(),
		logger:     logger,
	}
}

// FetchBatch requests entities.BatchSize questions.
// Every failure is returned as *entities.SupplyError.
func (c *Client) FetchBatch(ctx context.Context) ([]entities.Question, error) {
	reqURL, err := c.batchURL()
	if err != nil {
		return nil, entities.NewUnreachable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, entities.NewUnreachable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("question source unreachable", zap.Error(err))
		return nil, entities.NewUnreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("question source returned bad status", zap.Int("status", resp.StatusCode))
		return nil, entities.NewBadStatus(resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("question source returned malformed body", zap.Error(err))
		return nil, entities.NewMalformed(fmt.Errorf("decode body: %w", err))
	}

	if body.ResponseCode == nil {
		return nil, entities.NewMalformed(fmt.Errorf("response_code missing"))
	}
	if code := *body.ResponseCode; code != 0 {
		c.logger.Warn("question source rejected request", zap.Int("response_code", code))
		return nil, entities.NewUpstreamRejected(code)
	}

	if err := c.validate.Struct(body); err != nil {
		c.logger.Warn("question source returned invalid results", zap.Error(err))
		return nil, entities.NewMalformed(fmt.Errorf("validate results: %w", err))
	}

	if len(body.Results) == 0 {
		return nil, entities.NewEmptyResult()
	}

	questions := make([]entities.Question, 0, len(body.Results))
	for _, r := range body.Results {
		questions = append(questions, entities.Question{
			Text:             r.Question,
			CorrectAnswer:    r.CorrectAnswer,
			IncorrectAnswers: r.IncorrectAnswers,
			Category:         r.Category,
			Difficulty:       r.Difficulty,
			Type:             r.Type,
		})
	}

	c.logger.Debug("question batch fetched", zap.Int("count", len(questions)))

	return questions, nil
}

func (c *Client) batchURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("amount", strconv.Itoa(entities.BatchSize))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
