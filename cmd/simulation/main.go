package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	serverAddress = "http://localhost:8080"
	numBidders    = 8
	bidsPerBidder = 5
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type client struct {
	http  *http.Client
	token string
}

func newClient() *client {
	return &client{http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *client) do(method, path string, body any, out any) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, serverAddress+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if out != nil && env.Success {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, err
		}
	}
	return &env, nil
}

func (c *client) signup(email string) error {
	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	env, err := c.do("POST", "/api/v1/auth/signup", map[string]any{
		"email":       email,
		"password":    "simulation-pass-123",
		"termsAgreed": true,
	}, &tokens)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("signup failed: %s", env.Error.Message)
	}
	c.token = tokens.AccessToken
	return nil
}

// bidStats tracks accepted and rejected bids across workers
type bidStats struct {
	mu       sync.Mutex
	accepted int
	rejected map[string]int
}

func (s *bidStats) record(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == "" {
		s.accepted++
		return
	}
	s.rejected[code]++
}

func main() {
	run := fmt.Sprintf("%06d", rand.Intn(1000000))

	// Publisher: account, listing, auction
	publisher := newClient()
	if err := publisher.signup(fmt.Sprintf("publisher-%s@sim.local", run)); err != nil {
		log.Fatal().Err(err).Msg("publisher signup failed")
	}

	var created struct {
		ID uint `json:"id"`
	}
	env, err := publisher.do("POST", "/api/v1/products", map[string]any{
		"serialNumber": "SIM-" + run,
		"modelName":    "Antminer S19 Pro",
		"manufacturer": "Bitmain",
		"hashRate":     110.0,
		"power":        3250.0,
		"efficiency":   29.5,
		"askPrice":     2400.0,
		"quantity":     1,
	}, &created)
	if err != nil || !env.Success {
		log.Fatal().Err(err).Msg("product creation failed")
	}
	log.Info().Uint("product_id", created.ID).Msg("listing created")

	var auctionCreated struct {
		ID uint `json:"id"`
	}
	env, err = publisher.do("POST", "/api/v1/auctions", map[string]any{
		"productId":     created.ID,
		"startingPrice": 1000.0,
		"startDate":     time.Now().Add(2 * time.Second).Format(time.RFC3339),
		"endDate":       time.Now().Add(10 * time.Minute).Format(time.RFC3339),
	}, &auctionCreated)
	if err != nil || !env.Success {
		log.Fatal().Err(err).Msg("auction creation failed")
	}
	log.Info().Uint("auction_id", auctionCreated.ID).Msg("auction created")

	// Wait for the auction window to open
	time.Sleep(3 * time.Second)

	// Bidders race each other; most bids lose to the 1% increment rule
	stats := &bidStats{rejected: make(map[string]int)}
	var wg sync.WaitGroup

	for i := 0; i < numBidders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			bidder := newClient()
			if err := bidder.signup(fmt.Sprintf("bidder-%d-%s@sim.local", n, run)); err != nil {
				log.Error().Err(err).Int("bidder", n).Msg("bidder signup failed")
				return
			}

			for j := 0; j < bidsPerBidder; j++ {
				price := 1000.0 * (1.0 + rand.Float64())
				env, err := bidder.do("POST", "/api/v1/auctions/bid", map[string]any{
					"auctionId": auctionCreated.ID,
					"bidPrice":  price,
				}, nil)
				if err != nil {
					log.Error().Err(err).Int("bidder", n).Msg("bid request failed")
					continue
				}
				if env.Success {
					stats.record("")
				} else {
					stats.record(env.Error.Code)
				}
				time.Sleep(time.Duration(rand.Intn(200)) * time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	// Publisher closes the auction and learns the winner
	var completion struct {
		WinningBid *struct {
			BidUserID uint    `json:"bidUserId"`
			BidPrice  float64 `json:"bidPrice"`
		} `json:"winningBid"`
	}
	env, err = publisher.do("PATCH", fmt.Sprintf("/api/v1/auctions/%d/end", auctionCreated.ID), nil, &completion)
	if err != nil || !env.Success {
		log.Fatal().Err(err).Msg("ending auction failed")
	}

	log.Info().Int("accepted_bids", stats.accepted).Msg("simulation finished")
	for code, count := range stats.rejected {
		log.Info().Str("code", code).Int("count", count).Msg("rejected bids")
	}
	if completion.WinningBid != nil {
		log.Info().
			Uint("winner_id", completion.WinningBid.BidUserID).
			Float64("winning_price", completion.WinningBid.BidPrice).
			Msg("auction won")
	} else {
		log.Info().Msg("auction ended without bids")
	}
}
