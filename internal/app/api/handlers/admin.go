package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/riahunter/backend/internal/app/service/directory"
	"github.com/riahunter/backend/internal/app/service/ledger"
	"github.com/riahunter/backend/internal/app/service/statistics"
	"github.com/riahunter/backend/internal/app/service/support"
	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/response"
	"github.com/riahunter/backend/pkg/types"
)

type AdminCreditRequest struct {
	UserID     string             `json:"user_id"`
	Amount     int64              `json:"amount"`
	Source     types.CreditSource `json:"source"`
	RefType    string             `json:"ref_type"`
	RefID      string             `json:"ref_id"`
	OperatorID string             `json:"operator_id"`
	Reason     string             `json:"reason"`
}

type AdminCreditResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// @Summary      Grant Credits (Admin)
// @Description  Appends a positive ledger entry for a user. Replays with the same ref are no-ops.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AdminCreditRequest true "grant request"
// @Success      200  {object}  handlers.RespAdminCredit
// @Router       /api/v1/admin/grant_credits [post]
func ApiGrantCredits(mgr *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindAdminCreditRequest(c)
		if !ok {
			return
		}
		source := req.Source
		if source == "" {
			source = types.CreditSourceAdminAdjust
		}
		balance, err := mgr.AddCredits(c.Request.Context(), req.UserID, req.Amount, ledger.Options{
			Source:   source,
			RefType:  req.RefType,
			RefID:    req.RefID,
			Metadata: adminMetadata(req),
		})
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&AdminCreditResponse{UserID: req.UserID, Balance: balance}))
	}
}

// @Summary      Adjust Credits (Admin)
// @Description  Appends a corrective negative entry. admin_adjust deductions may drive the balance negative.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AdminCreditRequest true "adjust request"
// @Success      200  {object}  handlers.RespAdminCredit
// @Router       /api/v1/admin/adjust_credits [post]
func ApiAdjustCredits(mgr *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindAdminCreditRequest(c)
		if !ok {
			return
		}
		balance, err := mgr.DeductCredits(c.Request.Context(), req.UserID, req.Amount, ledger.Options{
			Source:   types.CreditSourceAdminAdjust,
			RefType:  req.RefType,
			RefID:    req.RefID,
			Metadata: adminMetadata(req),
		})
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&AdminCreditResponse{UserID: req.UserID, Balance: balance}))
	}
}

func bindAdminCreditRequest(c *gin.Context) (*AdminCreditRequest, bool) {
	var req AdminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
		return nil, false
	}
	if req.UserID == "" || req.OperatorID == "" {
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or operator_id"))
		return nil, false
	}
	return &req, true
}

func adminMetadata(req *AdminCreditRequest) map[string]any {
	md := map[string]any{"operator_id": req.OperatorID}
	if req.Reason != "" {
		md["reason"] = req.Reason
	}
	return md
}

// @Summary      List Ledger Entries (Admin)
// @Description  Retrieves a paginated and filterable list of credit ledger entries.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ledger.ScanEntriesRequest true "list request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespLedgerScan
// @Router       /api/v1/admin/list_ledger_entries [post]
func ApiListLedgerEntries(mgr *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ledger.ScanEntriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := mgr.ScanEntries(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Credit Statistics (Admin)
// @Description  Retrieves daily credit statistics over a date range.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.CreditStatisticRequest true "statistic request parameters"
// @Success      200  {object}  handlers.RespCreditStatistic
// @Router       /api/v1/admin/get_credit_statistic [post]
func ApiGetCreditStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.CreditStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetDailyCreditStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Debug Credits (Admin)
// @Description  Aggregated support view: balance, subscription flag, recent ledger entries and billing events.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        user_id query string true "user to inspect"
// @Success      200  {object}  handlers.RespDebugInfo
// @Router       /api/v1/admin/debug_credits [get]
func ApiDebugCredits(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		info, err := svc.GetDebugInfo(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Upsert Firm (Admin)
// @Description  Creates or updates an RIA firm profile keyed by CRD number.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.RIAProfile true "firm profile"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/upsert_firm [post]
func ApiUpsertFirm(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var firm models.RIAProfile
		if err := c.ShouldBindJSON(&firm); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if firm.CRDNumber <= 0 || firm.FirmName == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing crd_number or firm_name"))
			return
		}
		if err := dir.UpsertFirm(c.Request.Context(), &firm); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAdminRoutes(r gin.IRouter, mgr *ledger.Service, stats *statistics.Service, sup *support.Service, dir *directory.Service) {
	r.POST("/grant_credits", ApiGrantCredits(mgr))
	r.POST("/adjust_credits", ApiAdjustCredits(mgr))
	r.POST("/list_ledger_entries", ApiListLedgerEntries(mgr))
	r.POST("/get_credit_statistic", ApiGetCreditStatistic(stats))
	r.GET("/debug_credits", ApiDebugCredits(sup))
	r.POST("/upsert_firm", ApiUpsertFirm(dir))
}
