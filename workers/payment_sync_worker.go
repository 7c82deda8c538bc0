package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"league-management-system/models"

	"gorm.io/gorm"
)

// SettledPayment is one entry of the payment service's settlement feed.
// The payment service records which enrollment each fee payment covers;
// this worker only flips the Paid flag once money has cleared.
type SettledPayment struct {
	PaymentID    string    `json:"payment_id"`
	EnrollmentID string    `json:"enrollment_id"`
	Amount       string    `json:"amount"`
	SettledAt    time.Time `json:"settled_at"`
}

type PaymentSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewPaymentSyncClient(db *gorm.DB) *PaymentSyncClient {
	baseURL := os.Getenv("PAYMENT_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("PAYMENT_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("LEAGUE_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("LEAGUE_SERVICE_TOKEN environment variable is required for payment sync")
	}

	return &PaymentSyncClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *PaymentSyncClient) GetSettledPayments(ctx context.Context, since time.Time) ([]SettledPayment, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/settlements", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("payment service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Payments []SettledPayment `json:"payments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode payment service response: %w", err)
	}

	return response.Payments, nil
}

// PollPayments marks enrollments paid as their fees settle.
func PollPayments(ctx context.Context, client *PaymentSyncClient, pollInterval time.Duration) {
	log.Println("Starting payment settlement polling...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Payment polling stopped.")
			return
		case <-ticker.C:
			logTime := time.Now().UTC()

			payments, err := client.GetSettledPayments(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error polling payments: %v", err)
				continue
			}

			count := len(payments)
			if count == 0 {
				continue
			}
			log.Printf("📥 Received %d settled payment(s) from payment service.", count)

			enrollmentIDs := make([]string, 0, count)
			for _, p := range payments {
				if p.EnrollmentID != "" {
					enrollmentIDs = append(enrollmentIDs, p.EnrollmentID)
				}
			}

			result := client.DB.Model(&models.Enrollment{}).
				Where("id IN ? AND paid = ?", enrollmentIDs, false).
				Update("paid", true)
			if result.Error != nil {
				log.Printf("❌ Failed to mark %d enrollment(s) paid: %v", count, result.Error)
				// Do NOT advance lastSyncTime on failure; retry the same window
				continue
			}

			lastSyncTime = logTime
			log.Printf("✅ Marked %d enrollment(s) as paid.", result.RowsAffected)
		}
	}
}
