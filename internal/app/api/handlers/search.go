package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riahunter/backend/internal/app/api/middleware"
	"github.com/riahunter/backend/internal/app/service/directory"
	"github.com/riahunter/backend/internal/app/service/ledger"
	subsvc "github.com/riahunter/backend/internal/app/service/subscription"
	"github.com/riahunter/backend/internal/ratelimit"
	"github.com/riahunter/backend/pkg/config"
	"github.com/riahunter/backend/pkg/logctx"
	"github.com/riahunter/backend/pkg/response"
	"github.com/riahunter/backend/pkg/tool"
	"github.com/riahunter/backend/pkg/types"
)

type SearchFirmsResponse struct {
	Items       []interface{} `json:"items"`
	Total       int64         `json:"total"`
	CreditsUsed int64         `json:"credits_used"`
	Balance     int64         `json:"balance"`
}

// @Summary      Search RIA firms
// @Description  Runs a directory search. Costs credits unless the caller has an unlimited subscription; rate limited per user.
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body directory.SearchRequest true "search request"
// @Success      200  {object}  handlers.RespSearchFirms
// @Router       /api/v1/search [post]
func ApiSearchFirms(cfg *config.Config, dir *directory.Service, mgr *ledger.Service, sub *subsvc.Service, limiter *ratelimit.SearchLimiter, baseLog *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		log := logctx.FromGin(c, baseLog)

		var req directory.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		if limiter.Enabled() {
			allowed, retryAfter, err := limiter.Allow(c.Request.Context(), userID)
			if err != nil {
				// A broken limiter should not take search down with it.
				log.Warnw("search rate limiter unavailable", "error", err.Error())
			} else if !allowed {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				c.JSON(http.StatusTooManyRequests, response.ErrorT[any](response.APIResponseCodeRateLimited, "search rate limit exceeded"))
				return
			}
		}

		unlimited, err := sub.IsUnlimited(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		var creditsUsed, balance int64
		if !unlimited {
			cost := cfg.Credits.SearchCost
			balance, err = mgr.DeductCredits(c.Request.Context(), userID, cost, ledger.Options{
				Source:  types.CreditSourceUsage,
				RefType: "search",
				RefID:   tool.GenerateUUIDV7(),
			})
			if err != nil {
				writeLedgerError(c, err)
				return
			}
			creditsUsed = cost
		} else if balance, err = mgr.Balance(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		res, err := dir.SearchFirms(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		items := make([]interface{}, 0, len(res.Items))
		for _, it := range res.Items {
			items = append(items, it)
		}
		c.JSON(http.StatusOK, response.OKT(&SearchFirmsResponse{
			Items:       items,
			Total:       res.Total,
			CreditsUsed: creditsUsed,
			Balance:     balance,
		}))
	}
}

// @Summary      Get RIA firm
// @Description  Fetches a single firm profile by its CRD number.
// @Tags         Directory
// @Produce      json
// @Security     BearerAuth
// @Param        crd path int true "firm CRD number"
// @Success      200  {object}  handlers.RespFirm
// @Router       /api/v1/firms/{crd} [get]
func ApiGetFirm(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		crd, err := strconv.ParseInt(c.Param("crd"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid crd number"))
			return
		}
		firm, err := dir.GetFirmByCRD(c.Request.Context(), crd)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if firm == nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "firm not found"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(firm))
	}
}

func RegisterDirectoryRoutes(r gin.IRouter, cfg *config.Config, dir *directory.Service, mgr *ledger.Service, sub *subsvc.Service, limiter *ratelimit.SearchLimiter, log *zap.SugaredLogger) {
	r.POST("/search", ApiSearchFirms(cfg, dir, mgr, sub, limiter, log))
	r.GET("/firms/:crd", ApiGetFirm(dir))
}
