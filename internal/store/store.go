// Package store persists records, subjects and daily targets into a kv.Substrate.
//
// Each collection lives under one key and is rewritten whole on every mutation.
// Unreadable payloads are treated as empty and failed writes are logged, never
// returned, so the tool stays usable after storage corruption. A mutation whose
// substrate read fails is skipped rather than written over the stored data.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sadopc/studylog/internal/kv"
)

const (
	recordsKey  = "study-time-records"
	subjectsKey = "study-subjects"
	targetsKey  = "study-target-hours"
)

var validate = validator.New()

type options struct {
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// Option customises a store at construction.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID generator, mainly for deterministic tests.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// decoded is the outcome of reading one collection. When fallback is set the
// value is the zero value; reason is nil if the key was simply absent.
// unreadable marks a substrate failure, as opposed to a malformed payload.
type decoded[T any] struct {
	value      T
	fallback   bool
	unreadable bool
	reason     error
}

func decode[T any](sub kv.Substrate, key string) decoded[T] {
	raw, err := sub.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return decoded[T]{fallback: true}
	}
	if err != nil {
		return decoded[T]{fallback: true, unreadable: true, reason: fmt.Errorf("read %s: %w", key, err)}
	}
	if strings.TrimSpace(raw) == "" {
		return decoded[T]{fallback: true}
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return decoded[T]{fallback: true, reason: fmt.Errorf("decode %s: %w", key, err)}
	}
	return decoded[T]{value: v}
}

// loadInto decodes key and logs corruption before handing back the value.
func loadInto[T any](o options, sub kv.Substrate, key string) T {
	d := decode[T](sub, key)
	if d.reason != nil {
		o.logger.Warn("stored collection unreadable, treating as empty",
			zap.String("key", key), zap.Error(d.reason))
	}
	return d.value
}

// loadForUpdate is loadInto for read-modify-write paths. It reports false when
// the substrate could not be read at all; the caller must then skip the write
// so a transient failure never replaces the stored collection.
func loadForUpdate[T any](o options, sub kv.Substrate, key string) (T, bool) {
	d := decode[T](sub, key)
	if d.unreadable {
		o.logger.Warn("stored collection unreachable, skipping write",
			zap.String("key", key), zap.Error(d.reason))
		return d.value, false
	}
	if d.reason != nil {
		o.logger.Warn("stored collection unreadable, overwriting",
			zap.String("key", key), zap.Error(d.reason))
	}
	return d.value, true
}

// persist writes v under key. Failures are logged and swallowed.
func (o options) persist(sub kv.Substrate, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		o.logger.Error("encode collection", zap.String("key", key), zap.Error(err))
		return
	}
	if err := sub.Set(key, string(payload)); err != nil {
		o.logger.Warn("write collection", zap.String("key", key), zap.Error(err))
	}
}

// check runs the struct tags and maps field failures to the package sentinels.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Subject":
			return ErrEmptySubject
		case "DurationMinutes":
			return ErrInvalidDuration
		}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
