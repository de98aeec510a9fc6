package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"inkwell/internal/config"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"
)

// IrysTag is one name/value pair attached to a gateway transaction
type IrysTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IrysTransaction is a transaction node returned by the gateway GraphQL API
type IrysTransaction struct {
	ID        string    `json:"id"`
	Tags      []IrysTag `json:"tags"`
	Timestamp int64     `json:"timestamp"` // milliseconds since epoch
}

// Tag returns the first tag value matching name, or empty
func (t *IrysTransaction) Tag(name string) string {
	for _, tag := range t.Tags {
		if tag.Name == name {
			return tag.Value
		}
	}
	return ""
}

type irysGraphQLResponse struct {
	Data struct {
		Transactions struct {
			Edges []struct {
				Node IrysTransaction `json:"node"`
			} `json:"edges"`
		} `json:"transactions"`
	} `json:"data"`
}

// IrysClient queries the Irys permanent-storage gateway. Articles uploaded
// there carry App-Name/Type/Author tags; the client filters on those.
type IrysClient struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logger.Logger
}

// AppNameTag identifies this application's uploads on the shared gateway
const AppNameTag = "Inkwell"

// NewIrysClient creates a new Irys gateway client
func NewIrysClient(cfg *config.Config, logger *logger.Logger) *IrysClient {
	return &IrysClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// QueryRecent returns the most recent article transactions uploaded by this app
func (c *IrysClient) QueryRecent(ctx context.Context, limit int) ([]IrysTransaction, error) {
	tags := []map[string]interface{}{
		{"name": "App-Name", "values": []string{AppNameTag}},
		{"name": "Type", "values": []string{"article"}},
	}
	return c.queryTransactions(ctx, tags, limit)
}

// QueryByAuthor returns article transactions tagged with the author's wallet
func (c *IrysClient) QueryByAuthor(ctx context.Context, wallet string, limit int) ([]IrysTransaction, error) {
	tags := []map[string]interface{}{
		{"name": "App-Name", "values": []string{AppNameTag}},
		{"name": "Type", "values": []string{"article"}},
		{"name": "Author", "values": []string{wallet}},
	}
	return c.queryTransactions(ctx, tags, limit)
}

// QueryByTags returns article transactions carrying any of the given tag values
func (c *IrysClient) QueryByTags(ctx context.Context, tagValues []string, limit int) ([]IrysTransaction, error) {
	tags := []map[string]interface{}{
		{"name": "App-Name", "values": []string{AppNameTag}},
		{"name": "Type", "values": []string{"article"}},
		{"name": "Tags", "values": tagValues},
	}
	return c.queryTransactions(ctx, tags, limit)
}

// FetchContent downloads the raw content of a transaction from the gateway
func (c *IrysClient) FetchContent(ctx context.Context, txID string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.config.IrysGatewayURL, txID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewExternalError("failed to create gateway request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("failed to fetch gateway content", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewExternalError("failed to read gateway response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalError(fmt.Sprintf("gateway returned status %d for tx %s", resp.StatusCode, txID), nil)
	}

	return body, nil
}

// GatewayURL returns the public gateway URL for a transaction
func (c *IrysClient) GatewayURL(txID string) string {
	return fmt.Sprintf("%s/%s", c.config.IrysGatewayURL, txID)
}

func (c *IrysClient) queryTransactions(ctx context.Context, tags []map[string]interface{}, limit int) ([]IrysTransaction, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		query($tags: [TagFilter!], $limit: Int!) {
			transactions(tags: $tags, first: $limit, order: DESC) {
				edges {
					node {
						id
						tags { name value }
						timestamp
					}
				}
			}
		}
	`

	requestBody := map[string]interface{}{
		"query": query,
		"variables": map[string]interface{}{
			"tags":  tags,
			"limit": limit,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, errors.NewInternalError("failed to marshal graphql request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.IrysGraphQLURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, errors.NewExternalError("failed to create graphql request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("failed to call irys graphql", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewExternalError("failed to read graphql response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalError(fmt.Sprintf("irys graphql returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var graphqlResp irysGraphQLResponse
	if err := json.Unmarshal(body, &graphqlResp); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"response_body": string(body),
			"status_code":   resp.StatusCode,
		}).Error("Failed to parse Irys graphql response")
		return nil, errors.NewExternalError("failed to parse irys graphql response", err)
	}

	transactions := make([]IrysTransaction, 0, len(graphqlResp.Data.Transactions.Edges))
	for _, edge := range graphqlResp.Data.Transactions.Edges {
		transactions = append(transactions, edge.Node)
	}

	c.logger.WithField("count", len(transactions)).Debug("Fetched Irys transactions")

	return transactions, nil
}
