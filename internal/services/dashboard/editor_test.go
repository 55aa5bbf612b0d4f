package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edforrester/folio/internal/models"
)

type noticeRecorder struct {
	notices []Notice
}

func (r *noticeRecorder) notify(n Notice) {
	r.notices = append(r.notices, n)
}

func newTestController(client *fakeClient) (*Controller, *noticeRecorder, *int) {
	recorder := &noticeRecorder{}
	reloads := 0
	reload := func(ctx context.Context) error {
		reloads++
		return nil
	}
	return NewController(client, testLogger(), reload, recorder.notify), recorder, &reloads
}

func TestController_SingleFlight(t *testing.T) {
	ctrl, _, _ := newTestController(&fakeClient{})

	first := EditTarget{Kind: EditTickerValue, Ticker: "AAA"}
	require.True(t, ctrl.Begin(first, "£1,000.00"))

	// A second activation under the same lock is a no-op.
	assert.False(t, ctrl.Begin(EditTarget{Kind: EditCashTarget}, "7.60%"))

	target, ok := ctrl.ActiveTarget()
	require.True(t, ok)
	assert.Equal(t, first, target)
}

func TestController_CancelRestoresOriginal(t *testing.T) {
	client := &fakeClient{}
	ctrl, _, reloads := newTestController(client)

	require.True(t, ctrl.Begin(EditTarget{Kind: EditTickerValue, Ticker: "AAA"}, "£1,000.00"))

	original, ok := ctrl.Cancel()
	require.True(t, ok)
	assert.Equal(t, "£1,000.00", original)
	assert.False(t, ctrl.Editing())
	assert.Equal(t, 0, client.totalCalls())
	assert.Equal(t, 0, *reloads)
}

func TestController_ParseFailureSendsNothing(t *testing.T) {
	client := &fakeClient{}
	ctrl, recorder, reloads := newTestController(client)

	require.True(t, ctrl.Begin(EditTarget{Kind: EditTickerValue, Ticker: "AAA"}, "£1,000.00"))
	result := ctrl.Confirm(context.Background(), "not a number")

	assert.False(t, result.Committed)
	assert.Equal(t, "£1,000.00", result.Restored)
	assert.Equal(t, 0, client.totalCalls())
	assert.Equal(t, 0, *reloads)
	require.Len(t, recorder.notices, 1)
	assert.Equal(t, NoticeValidation, recorder.notices[0].Kind)
	assert.False(t, ctrl.Editing())
}

func TestController_CommitTriggersReload(t *testing.T) {
	var got models.UpdateTickerValueRequest
	client := &fakeClient{
		updateTickerValue: func(_ context.Context, req models.UpdateTickerValueRequest) error {
			got = req
			return nil
		},
	}
	ctrl, recorder, reloads := newTestController(client)

	require.True(t, ctrl.Begin(EditTarget{Kind: EditTickerValue, Ticker: "AAA"}, "£1,000.00"))
	result := ctrl.Confirm(context.Background(), "£1,250.50")

	assert.True(t, result.Committed)
	assert.Equal(t, models.UpdateTickerValueRequest{Ticker: "AAA", NewValue: 1250.50}, got)
	assert.Equal(t, 1, *reloads)
	assert.Empty(t, recorder.notices)
	assert.False(t, ctrl.Editing())
}

func TestController_ServerFailureRollsBack(t *testing.T) {
	client := &fakeClient{
		updateTickerPrice: func(context.Context, models.UpdateTickerPriceRequest) error {
			return fmt.Errorf("server down")
		},
	}
	ctrl, recorder, reloads := newTestController(client)

	require.True(t, ctrl.Begin(EditTarget{Kind: EditTickerPrice, Ticker: "AAA"}, "2.50"))
	result := ctrl.Confirm(context.Background(), "3.00")

	assert.False(t, result.Committed)
	assert.Equal(t, "2.50", result.Restored)
	assert.Equal(t, 0, *reloads)
	require.Len(t, recorder.notices, 1)
	assert.Equal(t, NoticeError, recorder.notices[0].Kind)
}

func TestController_CashTargetRange(t *testing.T) {
	client := &fakeClient{}
	ctrl, recorder, reloads := newTestController(client)

	// Out of range: rejected client-side, no request.
	require.True(t, ctrl.Begin(EditTarget{Kind: EditCashTarget}, "7.60%"))
	result := ctrl.Confirm(context.Background(), "150")
	assert.False(t, result.Committed)
	assert.Equal(t, "7.60%", result.Restored)
	assert.Equal(t, 0, client.totalCalls())
	require.Len(t, recorder.notices, 1)
	assert.Equal(t, NoticeValidation, recorder.notices[0].Kind)

	// In range: committed with a reload.
	var got models.UpdateCashTargetRequest
	client.updateCashTarget = func(_ context.Context, req models.UpdateCashTargetRequest) error {
		got = req
		return nil
	}
	require.True(t, ctrl.Begin(EditTarget{Kind: EditCashTarget}, "7.60%"))
	result = ctrl.Confirm(context.Background(), "8.5")
	assert.True(t, result.Committed)
	assert.Equal(t, 8.5, got.TargetPct)
	assert.Equal(t, 1, *reloads)
}

func TestController_RowFieldPayload(t *testing.T) {
	var got models.UpdateHoldingRequest
	client := &fakeClient{
		updateHolding: func(_ context.Context, req models.UpdateHoldingRequest) error {
			got = req
			return nil
		},
	}
	ctrl, _, _ := newTestController(client)

	require.True(t, ctrl.Begin(EditTarget{
		Kind:    EditRowField,
		Ticker:  "AAA",
		Account: "ISA",
		Owner:   "EF",
		Field:   RowFieldTargetWeight,
	}, "15.00%"))
	result := ctrl.Confirm(context.Background(), "18")

	assert.True(t, result.Committed)
	assert.Equal(t, "AAA", got.Ticker)
	assert.Equal(t, "ISA", got.Account)
	assert.Equal(t, "EF", got.Owner)
	assert.Equal(t, map[string]float64{"target_weight": 18}, got.Updates)
}

func TestController_TickerTargetPayload(t *testing.T) {
	var got models.UpdateTickerTargetRequest
	client := &fakeClient{
		updateTickerTarget: func(_ context.Context, req models.UpdateTickerTargetRequest) error {
			got = req
			return nil
		},
	}
	ctrl, _, reloads := newTestController(client)

	require.True(t, ctrl.Begin(EditTarget{Kind: EditTickerTarget, Ticker: "AAA"}, "15.00%"))
	result := ctrl.Confirm(context.Background(), "18%")

	assert.True(t, result.Committed)
	assert.Equal(t, models.UpdateTickerTargetRequest{Ticker: "AAA", NewTarget: 18}, got)
	assert.Equal(t, 1, client.callCount("holdings/update-ticker-target"))
	assert.Equal(t, 1, *reloads)
}

func TestController_BlurEqualsConfirm(t *testing.T) {
	client := &fakeClient{}
	ctrl, _, reloads := newTestController(client)

	require.True(t, ctrl.Begin(EditTarget{Kind: EditTickerValue, Ticker: "AAA"}, "£1.00"))
	result := ctrl.Blur(context.Background(), "2")

	assert.True(t, result.Committed)
	assert.Equal(t, 1, client.callCount("holdings/update-ticker-value"))
	assert.Equal(t, 1, *reloads)
}

func TestController_ConfirmWithoutEditIsNoop(t *testing.T) {
	client := &fakeClient{}
	ctrl, _, _ := newTestController(client)

	result := ctrl.Confirm(context.Background(), "42")
	assert.False(t, result.Committed)
	assert.Empty(t, result.Restored)
	assert.Equal(t, 0, client.totalCalls())
}

func TestParseEditValue(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"1250.5", 1250.5, false},
		{"£1,250.50", 1250.5, false},
		{" 7.6% ", 7.6, false},
		{"-3", -3, false},
		{"", 0, true},
		{"abc", 0, true},
		{"£", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseEditValue(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
