package api

import (
	"net/http"
	"time"

	"budget/config"
	"budget/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// PairHandler 设备配对
type PairHandler struct {
	cfg *config.Config
}

// NewPairHandler 创建配对处理器
func NewPairHandler(cfg *config.Config) *PairHandler {
	return &PairHandler{cfg: cfg}
}

// PairRequest 配对请求
type PairRequest struct {
	DeviceID string `json:"device_id" binding:"required,max=100" example:"pixel-8"`
	Secret   string `json:"secret" binding:"required" example:"correct horse battery staple"`
}

// PairResponse 配对响应
type PairResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Pair 校验配对密钥并签发令牌
// @Summary 设备配对
// @Tags 同步
// @Accept json
// @Produce json
// @Param request body PairRequest true "配对信息"
// @Success 200 {object} Response{data=PairResponse} "配对成功"
// @Failure 401 {object} Response "密钥错误"
// @Failure 429 {object} Response "尝试过于频繁"
// @Router /api/v1/pair [post]
func (h *PairHandler) Pair(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+SafeErrorMessage(err, "参数无效"))
		return
	}

	if h.cfg.Sync.PairingHash == "" {
		Error(c, http.StatusServiceUnavailable, "未配置配对密钥")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.Sync.PairingHash), []byte(req.Secret)); err != nil {
		Unauthorized(c, "配对密钥错误")
		return
	}

	token, err := middleware.GenerateToken(req.DeviceID, h.cfg.Sync.ExpireTime)
	if err != nil {
		InternalError(c, "生成令牌失败")
		return
	}
	Success(c, PairResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.cfg.Sync.ExpireTime).UTC(),
	})
}
