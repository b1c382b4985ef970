// internal/repository/session/store.go

package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/metrics"
)

// StoreKey names the blob holding every OTP record of a session
const StoreKey = "otp_store"

// storedRecord is the wire format of a record inside the blob
type storedRecord struct {
	Code      string `json:"code"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
	Attempts  int    `json:"attempts"`
}

type otpStore struct {
	medium domain.Medium
	log    logrus.FieldLogger
}

// NewOTPStore returns a best-effort Store over medium. Every call reads the
// whole blob and, on mutation, writes it back.
func NewOTPStore(medium domain.Medium, log logrus.FieldLogger) domain.Store {
	return &otpStore{
		medium: medium,
		log:    log,
	}
}

func (s *otpStore) Get(ctx context.Context, identity string) (domain.Record, bool) {
	data := s.load(ctx)
	rec, ok := data[identity]
	if !ok {
		return domain.Record{}, false
	}
	return toDomain(rec), true
}

func (s *otpStore) Put(ctx context.Context, identity string, record domain.Record) {
	data := s.load(ctx)
	data[identity] = fromDomain(record)
	s.save(ctx, data)
}

func (s *otpStore) Delete(ctx context.Context, identity string) {
	data := s.load(ctx)
	if _, ok := data[identity]; !ok {
		return
	}
	delete(data, identity)
	s.save(ctx, data)
}

// load degrades every failure to an empty mapping
func (s *otpStore) load(ctx context.Context) map[string]storedRecord {
	blob, err := s.medium.Get(ctx, StoreKey)
	if err != nil {
		if !domain.IsNotFound(err) {
			metrics.RecordStorageFault("read")
			s.log.WithError(err).Warn("Failed to read OTP store")
		}
		return make(map[string]storedRecord)
	}

	var data map[string]storedRecord
	if err := json.Unmarshal(blob, &data); err != nil {
		metrics.RecordStorageFault("decode")
		s.log.WithError(err).Warn("Discarding unreadable OTP store")
		return make(map[string]storedRecord)
	}
	if data == nil {
		data = make(map[string]storedRecord)
	}
	return data
}

// save logs and drops write failures
func (s *otpStore) save(ctx context.Context, data map[string]storedRecord) {
	blob, err := json.Marshal(data)
	if err != nil {
		metrics.RecordStorageFault("encode")
		s.log.WithError(err).Warn("Failed to encode OTP store")
		return
	}
	if err := s.medium.Set(ctx, StoreKey, blob); err != nil {
		metrics.RecordStorageFault("write")
		s.log.WithError(err).Warn("Failed to save OTP store")
	}
}

func toDomain(rec storedRecord) domain.Record {
	return domain.Record{
		Code:      rec.Code,
		CreatedAt: time.UnixMilli(rec.CreatedAt),
		ExpiresAt: time.UnixMilli(rec.ExpiresAt),
		Attempts:  rec.Attempts,
	}
}

func fromDomain(rec domain.Record) storedRecord {
	return storedRecord{
		Code:      rec.Code,
		CreatedAt: rec.CreatedAt.UnixMilli(),
		ExpiresAt: rec.ExpiresAt.UnixMilli(),
		Attempts:  rec.Attempts,
	}
}
