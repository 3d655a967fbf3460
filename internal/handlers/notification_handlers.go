package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Email Notification Handlers ---
//

// emailDispatchBatchSize caps how many pending rows one dispatch pass drains.
const emailDispatchBatchSize = 10

// queueEmailNotification inserts a pending email row.
// NOTE: This function must be called from within a database transaction (tx)
// when the email belongs to a larger unit of work, e.g. order placement.
func (h *Handlers) queueEmailNotification(tx *sql.Tx, userID int64, email, mailType, subject, body string, orderID *int64, metadata map[string]string) error {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode email metadata: %w", err)
	}

	query := `
		INSERT INTO email_notifications
			(user_id, email, type, subject, body, order_id, metadata, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'pending')`

	if _, err := tx.Exec(query, userID, email, mailType, subject, body, orderID, string(raw)); err != nil {
		return fmt.Errorf("failed to queue email notification: %w", err)
	}

	return nil
}

// dispatchResult is one row of the dispatch report.
type dispatchResult struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// ProcessPendingEmails drains up to emailDispatchBatchSize pending rows,
// oldest first, and marks each sent or failed. Actual delivery is a logged
// stub; wiring a provider replaces the body of the send step only.
// Called both by the POST /notifications/email handler and by the background
// worker in main.
func (h *Handlers) ProcessPendingEmails() ([]dispatchResult, error) {
	rows, err := h.DB.Query(`
		SELECT id, email, subject, body
		FROM email_notifications
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT ?`, emailDispatchBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending emails: %w", err)
	}
	defer rows.Close()

	type pendingEmail struct {
		ID      int64
		Email   string
		Subject string
		Body    string
	}
	var pending []pendingEmail
	for rows.Next() {
		var p pendingEmail
		if err := rows.Scan(&p.ID, &p.Email, &p.Subject, &p.Body); err != nil {
			return nil, fmt.Errorf("failed to scan pending email: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending emails: %w", err)
	}

	results := make([]dispatchResult, 0, len(pending))
	for _, p := range pending {
		slog.Info("sending email", "to", p.Email, "subject", p.Subject)

		status := models.EmailStatusSent
		if err := h.sendEmail(p.Email, p.Subject, p.Body); err != nil {
			slog.Error("failed to send email", "id", p.ID, "error", err)
			status = models.EmailStatusFailed
			if _, err := h.DB.Exec(
				"UPDATE email_notifications SET status = 'failed' WHERE id = ?", p.ID); err != nil {
				return results, fmt.Errorf("failed to mark email failed: %w", err)
			}
		} else {
			if _, err := h.DB.Exec(
				"UPDATE email_notifications SET status = 'sent', sent_at = NOW() WHERE id = ?", p.ID); err != nil {
				return results, fmt.Errorf("failed to mark email sent: %w", err)
			}
		}

		results = append(results, dispatchResult{ID: p.ID, Email: p.Email, Status: status})
	}

	return results, nil
}

// sendEmail is the delivery stub. No provider is integrated; the message is
// logged and treated as delivered.
func (h *Handlers) sendEmail(to, subject, body string) error {
	slog.Info("email delivered (stub)", "to", to, "subject", subject, "bytes", len(body))
	return nil
}

// DispatchEmails is the handler for POST /notifications/email.
// It runs one dispatch pass and reports what happened to each row.
func (h *Handlers) DispatchEmails(c *gin.Context) {
	results, err := h.ProcessPendingEmails()
	if err != nil {
		slog.Error("email dispatch pass failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processed": len(results),
		"results":   results,
	})
}
