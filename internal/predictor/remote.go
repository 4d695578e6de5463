package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/httpclient"
	"github.com/yourusername/hedge-bets/internal/metrics"
	"github.com/yourusername/hedge-bets/internal/models"
)

const quantilesPath = "/api/v1/quantiles"

// RemoteConfig configures the model server client.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Client  httpclient.Config
}

// quantileRequest is the model server payload
type quantileRequest struct {
	Features  Features  `json:"features"`
	Quantiles []float64 `json:"quantiles"`
}

// quantileResponse is the model server answer
type quantileResponse struct {
	Q10          *float64 `json:"q10"`
	Q50          *float64 `json:"q50"`
	Q90          *float64 `json:"q90"`
	ModelVersion string   `json:"model_version"`
}

// RemotePredictor asks a trained quantile model served over HTTP.
type RemotePredictor struct {
	baseURL string
	apiKey  string
	client  *httpclient.Client
	logger  *logrus.Entry
}

// NewRemotePredictor creates a model server client.
func NewRemotePredictor(cfg RemoteConfig, logger *logrus.Logger) *RemotePredictor {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &RemotePredictor{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpclient.New(cfg.Client, logger),
		logger:  logger.WithField("component", "remote_predictor"),
	}
}

// Name implements Predictor.
func (p *RemotePredictor) Name() string { return "remote" }

// Predict implements Predictor.
func (p *RemotePredictor) Predict(ctx context.Context, in Input) (models.Quantiles, error) {
	if err := checkHistory(in); err != nil {
		return models.Quantiles{}, err
	}

	start := time.Now()
	q, version, err := p.call(ctx, in)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordRemotePrediction("error", elapsed)
		return models.Quantiles{}, err
	}
	metrics.RecordRemotePrediction("success", elapsed)

	p.logger.WithFields(logrus.Fields{
		"stat":          in.Stat,
		"position":      in.Position,
		"model_version": version,
		"duration":      elapsed,
	}).Debug("Model server prediction")

	return finalize("remote predict", q)
}

func (p *RemotePredictor) call(ctx context.Context, in Input) (models.Quantiles, string, error) {
	body, err := json.Marshal(quantileRequest{
		Features:  BuildFeatures(in),
		Quantiles: []float64{0.1, 0.5, 0.9},
	})
	if err != nil {
		return models.Quantiles{}, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.client.Post(ctx, p.baseURL+quantilesPath, "application/json", body, p.headers())
	if err != nil {
		if ctx.Err() != nil {
			return models.Quantiles{}, "", ctx.Err()
		}
		return models.Quantiles{}, "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Quantiles{}, "", fmt.Errorf("%w: status %d: %s", ErrModelUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out quantileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Quantiles{}, "", fmt.Errorf("%w: %v", ErrInvalidModelResponse, err)
	}
	if out.Q10 == nil || out.Q50 == nil || out.Q90 == nil {
		return models.Quantiles{}, "", fmt.Errorf("%w: missing quantile", ErrInvalidModelResponse)
	}
	return models.Quantiles{Q10: *out.Q10, Q50: *out.Q50, Q90: *out.Q90}, out.ModelVersion, nil
}

func (p *RemotePredictor) headers() http.Header {
	h := http.Header{}
	if p.apiKey != "" {
		h.Set("Authorization", "Bearer "+p.apiKey)
	}
	return h
}

// Close releases the underlying HTTP client
func (p *RemotePredictor) Close() error {
	return p.client.Close()
}
