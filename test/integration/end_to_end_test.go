package integration

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/webxl/inflation-planner/internal/api"
	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/compare"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/internal/session"
	"github.com/webxl/inflation-planner/internal/shortfall"
)

func TestAdjustmentRemovesShortfall(t *testing.T) {
	plan := loadPlan(t, underfundedFile)
	engine := calculation.NewCalculationEngine()
	solver := shortfall.NewDefaultSolver(engine)

	for _, target := range []domain.AdjustmentTarget{
		domain.TargetMonthlyContribution,
		domain.TargetInitialBalance,
		domain.TargetReturnRate,
	} {
		t.Run(string(target), func(t *testing.T) {
			sess, err := session.New(engine, solver, plan.Parameters)
			require.NoError(t, err)
			require.True(t, sess.Snapshot().Summary.HasShortfall)

			adj, err := sess.RequestAdjustment(context.Background(), target)
			require.NoError(t, err)
			require.NoError(t, sess.Keep())

			snap := sess.Snapshot()
			assert.InDelta(t, adj.FinalBalance, snap.Result.FinalBalance(), 1e-6)
			assert.GreaterOrEqual(t, snap.Result.FinalBalance(), -1.0, "adjusted plan should end near or above zero")
			assert.NotContains(t, session.AdjustmentMessage(adj), "did not prevent")
		})
	}
}

func TestCompareTemplatesOnFile(t *testing.T) {
	plan := loadPlan(t, underfundedFile)

	set, err := compare.NewCompareEngine(nil).Compare(context.Background(), plan.Parameters, compare.CompareOptions{
		BaseScenarioName: plan.Name,
		Templates:        []string{"delay_2yr", "spend_20pct_less", "return_plus_1pct"},
		ConfigPath:       underfundedFile,
	})
	require.NoError(t, err)

	assert.True(t, set.BaseResult.HasShortfall)
	require.Len(t, set.AlternativeResults, 3)
	for _, alt := range set.AlternativeResults {
		assert.True(t, alt.FinalBalanceDiffFromBase.IsPositive(), alt.ScenarioName)
	}
}

func TestAPIServer_EndToEnd(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	server := api.NewServer(api.Options{SolveTimeout: 30 * time.Second})
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	plan := loadPlan(t, underfundedFile)
	body, err := json.Marshal(api.AdjustRequest{Target: "withdrawal_start", Parameters: plan.Parameters})
	require.NoError(t, err)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://" + ln.Addr().String() + "/v1/adjust")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	require.NoError(t, fasthttp.DoTimeout(req, resp, 30*time.Second))
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))
	assert.NotEmpty(t, resp.Header.Peek(api.RequestIDHeader))

	var adj map[string]any
	require.NoError(t, json.Unmarshal(resp.Body(), &adj))
	assert.Equal(t, "withdrawal_start", adj["target"])
	assert.Greater(t, adj["value"].(string), plan.Parameters.WithdrawalStart.String())
}
