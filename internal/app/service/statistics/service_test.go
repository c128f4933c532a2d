package statistics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/riahunter/backend/pkg/types"
)

func TestGetDailyCreditStatistic_ValidatesRequest(t *testing.T) {
	// validation happens before any query, so no database is needed
	svc := NewService(nil, zap.NewNop().Sugar())
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *CreditStatisticRequest
		wantMsg string
	}{
		{name: "nil request", req: nil, wantMsg: "nil request"},
		{name: "bad start date", req: &CreditStatisticRequest{StartDate: "01/02/2026", EndDate: "2026-01-31"}, wantMsg: "invalid start_date"},
		{name: "bad end date", req: &CreditStatisticRequest{StartDate: "2026-01-01", EndDate: "tomorrow"}, wantMsg: "invalid end_date"},
		{name: "inverted range", req: &CreditStatisticRequest{StartDate: "2026-02-01", EndDate: "2026-01-01"}, wantMsg: "end_date before start_date"},
		{name: "unknown source", req: &CreditStatisticRequest{StartDate: "2026-01-01", EndDate: "2026-01-31", Sources: []types.CreditSource{"bogus"}}, wantMsg: "unknown credit source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetDailyCreditStatistic(ctx, tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
