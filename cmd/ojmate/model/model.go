// Package model defines the REST / websocket wire types of the ojmate
// daemon and their mapping onto the library packages.
package model

import (
	"errors"
	"net/http"

	"github.com/ojmate/ojmate/judge"
	"github.com/ojmate/ojmate/sampletest"
)

// SampleTestRequest asks for one local sample-test run.
type SampleTestRequest struct {
	Language   string  `json:"language" binding:"required"`
	SourcePath string  `json:"sourcePath" binding:"required"`
	Input      string  `json:"input"`
	Expected   *string `json:"expected"`
}

// SampleTestResponse reports a completed run. ExitCode is null when the
// process terminated without one; Matched is null when no expected
// output was supplied.
type SampleTestResponse struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode *int   `json:"exitCode"`
	Matched  *bool  `json:"matched"`
}

// ConvertSampleTestRequest maps the wire request to the pipeline request.
func ConvertSampleTestRequest(req *SampleTestRequest) sampletest.Request {
	return sampletest.Request{
		Language:   sampletest.Language(req.Language),
		SourcePath: req.SourcePath,
		Input:      req.Input,
		Expected:   req.Expected,
	}
}

// ConvertSampleTestResponse maps a pipeline outcome to the wire response.
func ConvertSampleTestResponse(out *sampletest.Outcome) SampleTestResponse {
	return SampleTestResponse{
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		ExitCode: out.ExitCode,
		Matched:  out.Matched,
	}
}

// Error kinds carried on the error envelope.
const (
	KindValidation          = "validation"
	KindUnsupportedLanguage = "unsupported_language"
	KindEntryPoint          = "entry_point"
	KindCompile             = "compile"
	KindLaunch              = "launch"
	KindTimeout             = "timeout"
	KindAuth                = "auth_required"
	KindInternal            = "internal"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ConvertError classifies err into an HTTP status and error envelope.
func ConvertError(err error) (int, ErrorResponse) {
	var (
		vErr    *sampletest.ValidationError
		langErr *sampletest.UnsupportedLanguageError
		epErr   *sampletest.EntryPointError
		cErr    *sampletest.CompileError
		lErr    *sampletest.LaunchError
		tErr    *sampletest.TimeoutError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, ErrorResponse{Kind: KindValidation, Message: err.Error()}
	case errors.As(err, &langErr):
		return http.StatusBadRequest, ErrorResponse{Kind: KindUnsupportedLanguage, Message: err.Error()}
	case errors.As(err, &epErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Kind: KindEntryPoint, Message: err.Error()}
	case errors.As(err, &cErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Kind: KindCompile, Message: err.Error()}
	case errors.As(err, &lErr):
		return http.StatusInternalServerError, ErrorResponse{Kind: KindLaunch, Message: err.Error()}
	case errors.As(err, &tErr):
		return http.StatusRequestTimeout, ErrorResponse{Kind: KindTimeout, Message: err.Error()}
	case errors.Is(err, judge.ErrAuthRequired):
		return http.StatusUnauthorized, ErrorResponse{Kind: KindAuth, Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Kind: KindInternal, Message: err.Error()}
	}
}

// LoginRequest authenticates the judge session. Either Password or
// PasswordHash must be set.
type LoginRequest struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
}

// SubmitRequest posts a solution to the judge.
type SubmitRequest struct {
	UserID           string `json:"userId" binding:"required"`
	ProblemID        string `json:"problemId" binding:"required"`
	Source           string `json:"source" binding:"required"`
	Language         int    `json:"language"`
	ContestProblemID *int   `json:"contestProblemId"`
}

// ConvertSubmitRequest maps the wire request to the judge client request.
func ConvertSubmitRequest(req *SubmitRequest) judge.SubmitRequest {
	return judge.SubmitRequest{
		UserID:           req.UserID,
		ProblemID:        req.ProblemID,
		Source:           req.Source,
		Language:         req.Language,
		ContestProblemID: req.ContestProblemID,
	}
}
