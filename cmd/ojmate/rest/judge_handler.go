package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ojmate/ojmate/cmd/ojmate/model"
	"github.com/ojmate/ojmate/judge"
)

type judgeHandle struct {
	client *judge.Client
	logger *zap.Logger
}

// NewJudgeHandle creates the online-judge proxy handlers.
func NewJudgeHandle(client *judge.Client, logger *zap.Logger) Register {
	return &judgeHandle{
		client: client,
		logger: logger,
	}
}

func (h *judgeHandle) Register(r *gin.Engine) {
	r.POST("/login", h.handleLogin)
	r.GET("/problemset", h.handleProblemset)
	r.GET("/problem/:id", h.handleProblem)
	r.GET("/status", h.handleStatus)
	r.POST("/submit", h.handleSubmit)
	r.GET("/submission/:id", h.handleSubmission)
}

func (h *judgeHandle) abortWith(ctx *gin.Context, err error) {
	status, body := model.ConvertError(err)
	ctx.Error(err)
	ctx.AbortWithStatusJSON(status, body)
}

func (h *judgeHandle) handleLogin(ctx *gin.Context) {
	var req model.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, err.Error())
		return
	}
	secret, hashed := req.Password, false
	if secret == "" {
		secret, hashed = req.PasswordHash, true
	}
	if secret == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, "password or passwordHash is required")
		return
	}
	if err := h.client.Login(ctx.Request.Context(), req.Username, secret, hashed); err != nil {
		h.abortWith(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *judgeHandle) handleProblemset(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pages, _ := strconv.Atoi(ctx.DefaultQuery("pages", "0"))
	result, err := h.client.FetchProblemset(ctx.Request.Context(), page, pages)
	if err != nil {
		h.abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *judgeHandle) handleProblem(ctx *gin.Context) {
	p, err := h.client.FetchProblem(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *judgeHandle) handleStatus(ctx *gin.Context) {
	user := ctx.Query("user")
	if user == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, "user is required")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	entries, err := h.client.FetchStatusList(ctx.Request.Context(), user, limit)
	if err != nil {
		h.abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

func (h *judgeHandle) handleSubmit(ctx *gin.Context) {
	var req model.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.client.Submit(ctx.Request.Context(), model.ConvertSubmitRequest(&req))
	if err != nil {
		h.abortWith(ctx, err)
		return
	}
	h.logger.Sugar().Debugf("submission created: %+v", entry)
	ctx.JSON(http.StatusOK, entry)
}

func (h *judgeHandle) handleSubmission(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, "invalid solution id")
		return
	}
	res, err := h.client.QuerySubmission(ctx.Request.Context(), id)
	if err != nil {
		h.abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}
