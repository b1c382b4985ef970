package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

// MockMedium is a mock implementation of domain.Medium
type MockMedium struct {
	mock.Mock
}

var _ domain.Medium = (*MockMedium)(nil)

func (m *MockMedium) Get(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockMedium) Set(ctx context.Context, name string, blob []byte) error {
	args := m.Called(ctx, name, blob)
	return args.Error(0)
}

// mapMedium is an in-memory medium for round-trip tests
type mapMedium map[string][]byte

func (m mapMedium) Get(_ context.Context, name string) ([]byte, error) {
	blob, ok := m[name]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return blob, nil
}

func (m mapMedium) Set(_ context.Context, name string, blob []byte) error {
	m[name] = blob
	return nil
}

func testRecord() domain.Record {
	created := time.UnixMilli(1700000000000)
	return domain.Record{
		Code:      "123456",
		CreatedAt: created,
		ExpiresAt: created.Add(time.Minute),
		Attempts:  0,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	medium := mapMedium{}
	store := NewOTPStore(medium, logrus.New())

	_, ok := store.Get(ctx, "a@x.com")
	assert.False(t, ok)

	store.Put(ctx, "a@x.com", testRecord())

	got, ok := store.Get(ctx, "a@x.com")
	require.True(t, ok)
	assert.Equal(t, "123456", got.Code)
	assert.True(t, got.CreatedAt.Equal(testRecord().CreatedAt))
	assert.True(t, got.ExpiresAt.Equal(testRecord().ExpiresAt))
	assert.Equal(t, 0, got.Attempts)

	assert.JSONEq(t,
		`{"a@x.com":{"code":"123456","createdAt":1700000000000,"expiresAt":1700000060000,"attempts":0}}`,
		string(medium[StoreKey]))
}

func TestStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewOTPStore(mapMedium{}, logrus.New())

	first := testRecord()
	first.Attempts = 2
	store.Put(ctx, "a@x.com", first)

	second := testRecord()
	second.Code = "654321"
	store.Put(ctx, "a@x.com", second)

	got, ok := store.Get(ctx, "a@x.com")
	require.True(t, ok)
	assert.Equal(t, "654321", got.Code)
	assert.Equal(t, 0, got.Attempts)
}

func TestStoreKeepsIdentitiesApart(t *testing.T) {
	ctx := context.Background()
	store := NewOTPStore(mapMedium{}, logrus.New())

	store.Put(ctx, "a@x.com", testRecord())
	store.Put(ctx, "b@x.com", testRecord())
	store.Delete(ctx, "a@x.com")

	_, okA := store.Get(ctx, "a@x.com")
	_, okB := store.Get(ctx, "b@x.com")
	assert.False(t, okA)
	assert.True(t, okB)
}

func TestStoreDeleteAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	medium := &MockMedium{}
	medium.On("Get", ctx, StoreKey).Return(nil, domain.ErrBlobNotFound)

	NewOTPStore(medium, logrus.New()).Delete(ctx, "a@x.com")

	medium.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreReadFailureIsEmpty(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()
	medium := &MockMedium{}
	medium.On("Get", ctx, StoreKey).Return(nil, domain.ErrMediumUnavailable)

	_, ok := NewOTPStore(medium, log).Get(ctx, "a@x.com")

	assert.False(t, ok)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestStoreCorruptBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()
	medium := mapMedium{StoreKey: []byte("{not json")}

	_, ok := NewOTPStore(medium, log).Get(ctx, "a@x.com")

	assert.False(t, ok)
	assert.Equal(t, "Discarding unreadable OTP store", hook.LastEntry().Message)
}

func TestStoreNullBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	medium := mapMedium{StoreKey: []byte("null")}
	store := NewOTPStore(medium, logrus.New())

	store.Put(ctx, "a@x.com", testRecord())

	_, ok := store.Get(ctx, "a@x.com")
	assert.True(t, ok)
}

func TestStoreWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()
	medium := &MockMedium{}
	medium.On("Get", ctx, StoreKey).Return(nil, domain.ErrBlobNotFound)
	medium.On("Set", ctx, StoreKey, mock.Anything).Return(errors.New("quota exceeded"))

	assert.NotPanics(t, func() {
		NewOTPStore(medium, log).Put(ctx, "a@x.com", testRecord())
	})

	medium.AssertExpectations(t)
	assert.Equal(t, "Failed to save OTP store", hook.LastEntry().Message)
}
