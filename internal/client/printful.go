package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/config"
)

type PodRecipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
}

type PodOrderItem struct {
	VariantID string         `json:"variant_id"`
	Quantity  int32          `json:"quantity"`
	Files     []PodOrderFile `json:"files"`
}

type PodOrderFile struct {
	URL string `json:"url"`
}

// PodOrderRequest is the boundary contract with the print-on-demand
// provider. ExternalID carries our Order id so repeated dispatch attempts
// are recognized provider-side.
type PodOrderRequest struct {
	ExternalID string         `json:"external_id"`
	Recipient  PodRecipient   `json:"recipient"`
	Items      []PodOrderItem `json:"items"`
}

type PodOrderResult struct {
	OrderID string
	Status  string
}

type PodClient interface {
	CreateOrder(ctx context.Context, req *PodOrderRequest) (*PodOrderResult, error)
}

type printfulClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

func NewPrintfulClient(printfulCfg *config.Printful) PodClient {
	return &printfulClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: printfulCfg.BaseApiURL,
		apiKey:     printfulCfg.APIKey,
	}
}

type printfulOrderResult struct {
	Result struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"result"`
}

func (c *printfulClientImpl) CreateOrder(ctx context.Context, podReq *PodOrderRequest) (*PodOrderResult, error) {
	body, err := json.Marshal(podReq)
	if err != nil {
		return nil, fmt.Errorf("marshal pod order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/orders",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: printful request: %v", apperr.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: printful error %d: %s", apperr.ErrProvider, resp.StatusCode, string(b))
	}

	var result printfulOrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode printful response: %w", err)
	}

	return &PodOrderResult{
		OrderID: strconv.FormatInt(result.Result.ID, 10),
		Status:  result.Result.Status,
	}, nil
}
