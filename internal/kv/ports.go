// Package kv defines the durable key-value port the tracker persists to.
package kv

import (
	"context"
	"errors"
)

// Fixed keys, one per snapshot field.
const (
	KeyCurrentUser     = "currentUser"
	KeyExpenses        = "expenses"
	KeyCategoryBudgets = "categoryBudgets"
	KeyTotalBudget     = "totalBudget"
)

// Keys lists the fixed keys in persistence order.
var Keys = []string{KeyCurrentUser, KeyExpenses, KeyCategoryBudgets, KeyTotalBudget}

var (
	ErrClosed        = errors.New("kv: store closed")
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
)

// Store is a string-keyed durable store. Every key is independent.
type Store interface {
	// Get returns the stored value; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
