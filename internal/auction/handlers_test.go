package auction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/besicmining/marketplace-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRouter mounts the auction routes the way the server does, with the
// JWT middleware swapped for a header-driven identity stub.
func testRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handlers := NewGinHandlers(svc)

	fakeAuth := func(c *gin.Context) {
		if v := c.GetHeader("X-Test-User"); v != "" {
			var id uint
			fmt.Sscanf(v, "%d", &id)
			c.Set(middleware.CtxUserID, id)
		}
		c.Next()
	}

	r := gin.New()
	public := r.Group("/api/v1/auctions")
	{
		public.GET("/public", handlers.ListPublicHandler())
		public.GET("/public/:id", handlers.GetHandler())
	}
	protected := r.Group("/api/v1/auctions", fakeAuth)
	{
		protected.POST("", handlers.CreateHandler())
		protected.POST("/bid", handlers.PlaceBidHandler())
		protected.PATCH("/:id/end", handlers.EndHandler())
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, userID uint) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestAuctionRoutes(t *testing.T) {
	t.Run("create_and_fetch", func(t *testing.T) {
		svc := newTestService(t)
		r := testRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/api/v1/auctions", CreateAuctionRequest{
			ProductID:     5,
			StartingPrice: 100,
			StartDate:     time.Now().Add(time.Hour),
			EndDate:       time.Now().Add(25 * time.Hour),
		}, 1)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created Auction
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

		w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/auctions/public/%d", created.ID), nil, 0)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("create_requires_authentication", func(t *testing.T) {
		svc := newTestService(t)
		r := testRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/api/v1/auctions", CreateAuctionRequest{
			ProductID:     5,
			StartingPrice: 100,
			StartDate:     time.Now().Add(time.Hour),
			EndDate:       time.Now().Add(25 * time.Hour),
		}, 0)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validation_error_is_400", func(t *testing.T) {
		svc := newTestService(t)
		r := testRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/api/v1/auctions", gin.H{"productId": 5}, 1)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("domain_error_carries_code", func(t *testing.T) {
		svc := newTestService(t)
		a := runningAuction(t, svc)
		r := testRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/api/v1/auctions/bid", PlaceBidRequest{
			AuctionID: a.ID,
			BidPrice:  1,
		}, 2)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		e := decode(t, w)
		require.NotNil(t, e.Error)
		assert.Equal(t, "BID_TOO_LOW", e.Error.Code)
		assert.Contains(t, e.Error.Message, "100.00")
	})

	t.Run("bid_then_end_returns_completion", func(t *testing.T) {
		svc := newTestService(t)
		a := runningAuction(t, svc)
		r := testRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/api/v1/auctions/bid", PlaceBidRequest{
			AuctionID: a.ID,
			BidPrice:  120,
		}, 2)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/auctions/%d/end", a.ID), nil, 1)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var completion Completion
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &completion))
		require.NotNil(t, completion.WinningBid)
		assert.Equal(t, uint(2), completion.WinningBid.BidUserID)
	})

	t.Run("unknown_auction_is_404", func(t *testing.T) {
		svc := newTestService(t)
		r := testRouter(svc)

		w := doJSON(t, r, http.MethodGet, "/api/v1/auctions/public/9999", nil, 0)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("public_list_shows_only_active", func(t *testing.T) {
		svc := newTestService(t)
		a := runningAuction(t, svc)
		_, err := svc.CancelAuction(a.ID, 1)
		require.NoError(t, err)
		r := testRouter(svc)

		w := doJSON(t, r, http.MethodGet, "/api/v1/auctions/public", nil, 0)
		require.Equal(t, http.StatusOK, w.Code)

		var auctions []Auction
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &auctions))
		assert.Empty(t, auctions)
	})
}
