package inventory

import (
	"context"
	"fmt"

	"stillhouse/entities"
	"stillhouse/internal/metrics"

	"go.uber.org/zap"
)

type (
	// LowStockAlerter is told about items that a deduction pushed to or
	// below their threshold.
	LowStockAlerter interface {
		LowStock(ctx context.Context, userID string, item entities.InventoryItem)
	}

	RecipientLookup func(ctx context.Context, userID string) (string, error)
	SendFunc        func(toEmail string, subject string, body string) error

	mailAlerter struct {
		lookup RecipientLookup
		send   SendFunc
		logger *zap.Logger
	}
)

// NewMailAlerter mails the owner of the item. A nil send only logs the alert.
func NewMailAlerter(lookup RecipientLookup, send SendFunc, logger *zap.Logger) LowStockAlerter {
	return &mailAlerter{
		lookup: lookup,
		send:   send,
		logger: logger,
	}
}

func (a *mailAlerter) LowStock(ctx context.Context, userID string, item entities.InventoryItem) {
	metrics.LowStockAlerts.Inc()
	a.logger.Info("item is low on stock",
		zap.String("user_id", userID),
		zap.String("item", item.Name),
		zap.Float64("quantity", item.Quantity),
		zap.Float64("threshold", item.LowStockThreshold))

	if a.send == nil || a.lookup == nil {
		return
	}

	to, err := a.lookup(ctx, userID)
	if err != nil || to == "" {
		a.logger.Warn("no recipient for low stock alert", zap.String("user_id", userID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Low stock: %s", item.Name)
	if err := a.send(to, subject, lowStockBody(item)); err != nil {
		a.logger.Error("failed to send low stock alert", zap.String("item", item.Name), zap.Error(err))
	}
}

func lowStockBody(item entities.InventoryItem) string {
	unit := item.Unit
	if unit != "" {
		unit = " " + unit
	}
	body := fmt.Sprintf(
		"<p><strong>%s</strong> is at %g%s, at or below its threshold of %g%s.</p>",
		item.Name, item.Quantity, unit, item.LowStockThreshold, unit,
	)
	if item.LeadTimeDays > 0 {
		body += fmt.Sprintf("<p>Reorder lead time is %d days.</p>", item.LeadTimeDays)
	}
	return body
}
