package handlers

import (
	"github.com/gin-gonic/gin"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/dto"
	"xchain-backend/internal/services"
)

// AdminHandler serves /admin
type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Init POST /admin/init
func (h *AdminHandler) Init(c *gin.Context) {
	var req dto.InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	err := h.admin.Init(c.Request.Context(), callerOf(c), services.InitParams{
		Admin:        req.Admin,
		Maker:        req.Maker,
		Checker:      req.Checker,
		FeeCollector: req.FeeCollector,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.GetState(c)
}

// SetFeeRate POST /admin/fee-rate
func (h *AdminHandler) SetFeeRate(c *gin.Context) {
	var req dto.FeeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	if err := h.admin.SetFeeRate(c.Request.Context(), callerOf(c), *req.FeeRate); err != nil {
		respondWithError(c, err)
		return
	}
	h.GetState(c)
}

// SetRewardConf POST /admin/reward-conf
func (h *AdminHandler) SetRewardConf(c *gin.Context) {
	var req dto.RewardConfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	reward, err := asset.ParseAsset(req.UnitReward)
	if err != nil {
		respondWithError(c, err)
		return
	}
	err = h.admin.SetRewardConf(c.Request.Context(), callerOf(c), services.RewardConfParams{
		Contract:   req.Contract,
		LandID:     req.LandID,
		CoinCode:   req.Coin,
		UnitReward: reward,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.GetState(c)
}

// GetState GET /admin/state
func (h *AdminHandler) GetState(c *gin.Context) {
	state, err := h.admin.GetState(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, state)
}
