// Package docstore reúne la codificación JSON de documentos y la política de reintentos
// que comparten los adaptadores PostgreSQL y SQLite.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID genera un id UUIDv7: ordenar por id equivale a ordenar por antigüedad.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Encode serializa los datos de un documento. El campo id nunca se persiste dentro de data.
func Encode(data map[string]any) ([]byte, error) {
	clean := make(map[string]any, len(data))
	for k, v := range data {
		if k == "id" {
			continue
		}
		clean[k] = v
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("codificar documento: %w", err)
	}
	return b, nil
}

// Decode interpreta data JSON conservando los números como json.Number.
func Decode(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decodificar documento: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// Merge aplica fields sobre una copia de data (solo primer nivel).
func Merge(data, fields map[string]any) map[string]any {
	out := make(map[string]any, len(data)+len(fields))
	for k, v := range data {
		out[k] = v
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// RetryPolicy reintenta una unidad de trabajo transaccional ante errores transitorios.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
	OnRetry     func(attempt int, err error)
}

// Run ejecuta fn hasta que tenga éxito, falle con un error no reintentable o se agoten los intentos.
func (p RetryPolicy) Run(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		delay := p.BaseDelay * time.Duration(attempt*attempt)
		select {
		case <-ctx.Done():
			return fmt.Errorf("transacción cancelada: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("transacción abortada tras %d intentos: %w", attempts, err)
}

// RetryObserver recibe cada reintento de transacción (métricas).
type RetryObserver interface {
	TransactionRetried(driver string)
}

// NopRetryObserver no registra nada.
type NopRetryObserver struct{}

func (NopRetryObserver) TransactionRetried(string) {}
