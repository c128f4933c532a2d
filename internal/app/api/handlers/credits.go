package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/riahunter/backend/internal/app/api/middleware"
	"github.com/riahunter/backend/internal/app/service/ledger"
	subsvc "github.com/riahunter/backend/internal/app/service/subscription"
	"github.com/riahunter/backend/pkg/response"
	"github.com/riahunter/backend/pkg/types"
)

type BalanceResponse struct {
	UserID      string `json:"user_id"`
	Balance     int64  `json:"balance"`
	IsUnlimited bool   `json:"is_unlimited"`
}

// @Summary      Credit balance
// @Description  Returns the caller's current credit balance and subscription state.
// @Tags         Credits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespBalance
// @Router       /api/v1/credits/balance [get]
func ApiCreditBalance(mgr *ledger.Service, sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		balance, err := mgr.Balance(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		unlimited, err := sub.IsUnlimited(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&BalanceResponse{UserID: userID, Balance: balance, IsUnlimited: unlimited}))
	}
}

// @Summary      Credit history
// @Description  Lists the caller's ledger entries, newest first.
// @Tags         Credits
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "max entries to return (default 20)"
// @Success      200  {object}  handlers.RespLedgerEntries
// @Router       /api/v1/credits/history [get]
func ApiCreditHistory(mgr *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid limit"))
				return
			}
			limit = n
		}
		items, err := mgr.ListRecent(c.Request.Context(), userID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

type ConsumeRequest struct {
	Amount  int64  `json:"amount"`
	RefType string `json:"ref_type"`
	RefID   string `json:"ref_id"`
}

type ConsumeResponse struct {
	Balance int64 `json:"balance"`
	Charged bool  `json:"charged"`
}

// @Summary      Consume credits
// @Description  Deducts credits for a metered action. Subscribers with unlimited access are not charged. Replays with the same ref are no-ops.
// @Tags         Credits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ConsumeRequest true "consume request"
// @Success      200  {object}  handlers.RespConsume
// @Router       /api/v1/credits/consume [post]
func ApiConsumeCredits(mgr *ledger.Service, sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var req ConsumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		unlimited, err := sub.IsUnlimited(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if unlimited {
			balance, err := mgr.Balance(c.Request.Context(), userID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.OKT(&ConsumeResponse{Balance: balance, Charged: false}))
			return
		}

		balance, err := mgr.DeductCredits(c.Request.Context(), userID, req.Amount, ledger.Options{
			Source:  types.CreditSourceUsage,
			RefType: req.RefType,
			RefID:   req.RefID,
		})
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ConsumeResponse{Balance: balance, Charged: true}))
	}
}

// @Summary      Subscription info
// @Description  Returns the caller's subscription status and period end.
// @Tags         Credits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubscriptionInfo
// @Router       /api/v1/subscription [get]
func ApiSubscriptionInfo(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := sub.Info(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// writeLedgerError maps ledger service errors to HTTP statuses.
func writeLedgerError(c *gin.Context, err error) {
	var insufficient *ledger.InsufficientCreditsError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusPaymentRequired, response.ErrorT(response.APIResponseCodeInsufficientCredits, insufficient))
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrMissingReference):
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}

func RegisterCreditRoutes(r gin.IRouter, mgr *ledger.Service, sub *subsvc.Service) {
	r.GET("/credits/balance", ApiCreditBalance(mgr, sub))
	r.GET("/credits/history", ApiCreditHistory(mgr))
	r.POST("/credits/consume", ApiConsumeCredits(mgr, sub))
	r.GET("/subscription", ApiSubscriptionInfo(sub))
}
