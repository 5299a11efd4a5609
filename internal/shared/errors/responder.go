package errors

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Respond writes problem with the problem+json content type.
func Respond(c *gin.Context, problem ProblemDetail) {
	problem.Success = false
	problem.Msg = problem.message()
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder tries each mapper in order and falls back to a generic 500.
type ChainedResponder struct {
	mappers []ErrorMapper
}

func NewChainedResponder(mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{mappers: mappers}
}

// AddMapper adds an error mapper to the chain.
func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// RespondError maps err and responds. Unmapped errors become a generic 500,
// are attached to the gin context and reported to the request's Sentry hub.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			if problem.Status >= http.StatusInternalServerError {
				capture(c, err)
			}
			Respond(c, problem)
			return
		}
	}
	capture(c, err)
	Respond(c, ErrInternal)
}

func capture(c *gin.Context, err error) {
	_ = c.Error(err)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

// HTTPStatusFromError extracts HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
