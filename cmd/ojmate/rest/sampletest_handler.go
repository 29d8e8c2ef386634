package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ojmate/ojmate/cmd/ojmate/model"
	"github.com/ojmate/ojmate/sampletest"
)

// RunObserver sees every finished or failed sample-test run, used to
// feed the metrics collectors.
type RunObserver func(language, status string, duration time.Duration)

type sampleTestHandle struct {
	runner  *sampletest.Runner
	observe RunObserver
	logger  *zap.Logger
}

// NewSampleTestHandle creates the local sample-test run handler.
func NewSampleTestHandle(runner *sampletest.Runner, observe RunObserver, logger *zap.Logger) Register {
	return &sampleTestHandle{
		runner:  runner,
		observe: observe,
		logger:  logger,
	}
}

func (h *sampleTestHandle) Register(r *gin.Engine) {
	r.POST("/sample-test", h.handleRun)
}

func (h *sampleTestHandle) handleRun(ctx *gin.Context) {
	var req model.SampleTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	out, err := h.runner.Run(ctx.Request.Context(), model.ConvertSampleTestRequest(&req))
	if err != nil {
		status, body := model.ConvertError(err)
		if h.observe != nil {
			h.observe(req.Language, body.Kind, time.Since(start))
		}
		h.logger.Sugar().Debugf("sample test failed: %v", err)
		ctx.Error(err)
		ctx.AbortWithStatusJSON(status, body)
		return
	}
	if h.observe != nil {
		h.observe(req.Language, "ok", time.Since(start))
	}
	h.logger.Sugar().Debugf("sample test finished: exit=%v matched=%v", out.ExitCode, out.Matched)
	ctx.JSON(http.StatusOK, model.ConvertSampleTestResponse(out))
}
