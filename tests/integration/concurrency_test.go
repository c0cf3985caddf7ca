package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentInit_DistinctOrdersAllSucceed fires many concurrent
// inits for the same team with distinct order IDs through the real
// dispatcher and lock service, checking none are lost or corrupted
// despite the per-tenant admission ceiling serializing them.
func TestConcurrentInit_DistinctOrdersAllSucceed(t *testing.T) {
	app := newTestApp(t)

	concurrency := 40
	var wg sync.WaitGroup
	var successCount atomic.Int64
	paymentIDs := make([]string, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			resp := postSigned(t, app.server, "/api/v1/payments/init", map[string]interface{}{
				"TeamSlug": testTeamSlug,
				"Amount":   int64(1000 + idx),
				"OrderId":  fmt.Sprintf("concurrent-order-%d", idx),
				"Currency": "USD",
			})
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				return
			}
			var decoded struct {
				Data struct {
					PaymentId string `json:"PaymentId"`
				} `json:"data"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&decoded)
			paymentIDs[idx] = decoded.Data.PaymentId
			successCount.Add(1)
		}(i)
	}
	wg.Wait()

	require.Equal(t, int64(concurrency), successCount.Load(), "every distinct order should be admitted and initialized")

	seen := make(map[string]struct{}, concurrency)
	for _, id := range paymentIDs {
		require.NotEmpty(t, id)
		_, dup := seen[id]
		assert.False(t, dup, "payment IDs must be unique across concurrent inits")
		seen[id] = struct{}{}
	}
}

// TestConcurrentInit_SameOrderIdIsIdempotent verifies that firing the
// same (TeamSlug, OrderId) concurrently through the dispatcher yields a
// single underlying payment, not one per racing request.
func TestConcurrentInit_SameOrderIdIsIdempotent(t *testing.T) {
	app := newTestApp(t)

	concurrency := 20
	const sharedOrderID = "idempotent-order-1"

	var wg sync.WaitGroup
	paymentIDs := make([]string, concurrency)
	statuses := make([]int, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			resp := postSigned(t, app.server, "/api/v1/payments/init", map[string]interface{}{
				"TeamSlug": testTeamSlug,
				"Amount":   int64(4200),
				"OrderId":  sharedOrderID,
				"Currency": "USD",
			})
			defer resp.Body.Close()
			statuses[idx] = resp.StatusCode

			var decoded struct {
				Data struct {
					PaymentId string `json:"PaymentId"`
				} `json:"data"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&decoded)
			paymentIDs[idx] = decoded.Data.PaymentId
		}(i)
	}
	wg.Wait()

	uniqueIDs := make(map[string]struct{})
	for idx, id := range paymentIDs {
		require.Containsf(t, []int{http.StatusCreated, http.StatusOK, http.StatusConflict}, statuses[idx],
			"unexpected status %d for racing init %d", statuses[idx], idx)
		if id != "" {
			uniqueIDs[id] = struct{}{}
		}
	}

	assert.LessOrEqual(t, len(uniqueIDs), 1, "racing inits for the same order id must resolve to at most one payment")
}

// TestDispatcherFairness_OneTeamCannotStarveAnother fires a burst of
// work for a noisy team alongside a single request for a quiet team and
// checks the quiet team is not left waiting behind the entire noisy
// queue, which the per-tenant capacity ceiling exists to prevent.
func TestDispatcherFairness_OneTeamCannotStarveAnother(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, registerSecondTeam(app))

	noisyCount := 30
	var wg sync.WaitGroup
	for i := 0; i < noisyCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resp := postSigned(t, app.server, "/api/v1/payments/init", map[string]interface{}{
				"TeamSlug": testTeamSlug,
				"Amount":   int64(500),
				"OrderId":  fmt.Sprintf("noisy-order-%d", idx),
				"Currency": "USD",
			})
			resp.Body.Close()
		}(i)
	}

	quietDone := make(chan int, 1)
	go func() {
		resp := postSignedAs(t, app.server, "/api/v1/payments/init", "second-team", "second-team-secret", map[string]interface{}{
			"TeamSlug": "second-team",
			"Amount":   int64(900),
			"OrderId":  "quiet-order-1",
			"Currency": "USD",
		})
		defer resp.Body.Close()
		quietDone <- resp.StatusCode
	}()

	select {
	case status := <-quietDone:
		assert.Equal(t, http.StatusCreated, status, "the quiet team's request should be admitted promptly")
	case <-waitTimeout():
		t.Fatal("quiet team's request was starved behind the noisy team's backlog")
	}

	wg.Wait()
}
