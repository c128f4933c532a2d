package handlers

import (
	"github.com/riahunter/backend/internal/app/service/ledger"
	"github.com/riahunter/backend/internal/app/service/statistics"
	"github.com/riahunter/backend/internal/app/service/support"
	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/response"
	"github.com/riahunter/backend/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespBalance wraps BalanceResponse in the standard envelope.
type RespBalance struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    BalanceResponse          `json:"data"`
}

// RespLedgerEntries wraps a list of ledger entries in the standard envelope.
type RespLedgerEntries struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    []models.CreditLedgerEntry `json:"data"`
}

// RespConsume wraps ConsumeResponse in the standard envelope.
type RespConsume struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ConsumeResponse          `json:"data"`
}

// RespSubscriptionInfo wraps types.SubscriptionInfo in the standard envelope.
type RespSubscriptionInfo struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    types.SubscriptionInfo   `json:"data"`
}

// RespSearchFirms wraps SearchFirmsResponse in the standard envelope.
type RespSearchFirms struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SearchFirmsResponse      `json:"data"`
}

// RespFirm wraps a single firm profile in the standard envelope.
type RespFirm struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.RIAProfile        `json:"data"`
}

// RespAdminCredit wraps AdminCreditResponse in the standard envelope.
type RespAdminCredit struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    AdminCreditResponse      `json:"data"`
}

// RespLedgerScan wraps ScanEntriesResponse in the standard envelope.
type RespLedgerScan struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    ledger.ScanEntriesResponse `json:"data"`
}

// RespCreditStatistic wraps CreditStatisticResponse in the standard envelope.
type RespCreditStatistic struct {
	Code    response.APIResponseCode           `json:"code"`
	Message string                             `json:"message"`
	Data    statistics.CreditStatisticResponse `json:"data"`
}

// RespDebugInfo wraps the support debug view in the standard envelope.
type RespDebugInfo struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    support.DebugInfo        `json:"data"`
}
