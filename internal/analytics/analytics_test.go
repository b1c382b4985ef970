package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/metrics"
)

var at = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

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

type failingMedium struct{}

func (failingMedium) Get(context.Context, string) ([]byte, error) {
	return nil, domain.ErrMediumUnavailable
}

func (failingMedium) Set(context.Context, string, []byte) error {
	return domain.ErrMediumUnavailable
}

type recordingSink struct {
	events []domain.Event
}

func (r *recordingSink) Emit(_ context.Context, e domain.Event) {
	r.events = append(r.events, e)
}

type panickingSink struct{}

func (panickingSink) Emit(context.Context, domain.Event) {
	panic("analytics backend down")
}

func TestEventConstructors(t *testing.T) {
	gen := Generated("a@x.com", 6, at)
	assert.Equal(t, EventOTPGenerated, gen.Name)
	assert.Equal(t, map[string]interface{}{"email": "a@x.com", "code_length": 6}, gen.Params)

	attempts := 2
	fail := ValidationFailure("a@x.com", domain.ReasonWrongCode, &attempts, at)
	assert.Equal(t, 2, fail.Params["attempts"])
	assert.Equal(t, "wrong_code", fail.Params["reason"])

	expired := ValidationFailure("a@x.com", domain.ReasonExpired, nil, at)
	assert.NotContains(t, expired.Params, "attempts")

	logout := Logout("a@x.com", 90*time.Second+500*time.Millisecond, at)
	assert.Equal(t, int64(90), logout.Params["session_duration_seconds"])
}

func TestLogrusSink(t *testing.T) {
	log, hook := test.NewNullLogger()

	NewLogrusSink(log).Emit(context.Background(), ValidationSuccess("a@x.com", at))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "[Analytics] otp_validation_success", entry.Message)
	assert.Equal(t, "a@x.com", entry.Data["email"])
	assert.Equal(t, EventOTPValidationSuccess, entry.Data["event"])
}

func TestPrometheusSink(t *testing.T) {
	before := testutil.ToFloat64(metrics.OTPValidationTotal.WithLabelValues("max_attempts"))
	gens := testutil.ToFloat64(metrics.OTPGenerationTotal)

	sink := PrometheusSink{}
	sink.Emit(context.Background(), Generated("a@x.com", 6, at))
	sink.Emit(context.Background(), ValidationFailure("a@x.com", domain.ReasonMaxAttempts, nil, at))

	assert.Equal(t, gens+1, testutil.ToFloat64(metrics.OTPGenerationTotal))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OTPValidationTotal.WithLabelValues("max_attempts")))
}

func TestMultiSinkSurvivesPanics(t *testing.T) {
	log, hook := test.NewNullLogger()
	first, last := &recordingSink{}, &recordingSink{}

	multi := NewMultiSink(log, first, panickingSink{}).With(last)
	multi.Emit(context.Background(), ValidationSuccess("a@x.com", at))

	assert.Len(t, first.events, 1)
	assert.Len(t, last.events, 1)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestHistorySinkKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	medium := mapMedium{}
	sink := NewHistorySink(medium, 3, logrus.New())

	for i := 0; i < 5; i++ {
		sink.Emit(ctx, Generated(fmt.Sprintf("u%d@x.com", i), 6, at.Add(time.Duration(i)*time.Second)))
	}

	events, err := ReadHistory(ctx, medium)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "u2@x.com", events[0].Params["email"])
	assert.Equal(t, "u4@x.com", events[2].Params["email"])
	assert.True(t, events[2].Timestamp.Equal(at.Add(4*time.Second)))
}

func TestHistorySinkDefaultSize(t *testing.T) {
	sink := NewHistorySink(mapMedium{}, 0, logrus.New())
	assert.Equal(t, DefaultHistorySize, sink.size)
}

func TestHistorySinkIgnoresStorageErrors(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		NewHistorySink(failingMedium{}, 10, logrus.New()).Emit(ctx, ValidationSuccess("a@x.com", at))
	})

	_, err := ReadHistory(ctx, failingMedium{})
	assert.True(t, errors.Is(err, domain.ErrMediumUnavailable))
}

func TestHistorySinkResetsCorruptLog(t *testing.T) {
	ctx := context.Background()
	medium := mapMedium{HistoryKey: []byte("garbage")}

	NewHistorySink(medium, 10, logrus.New()).Emit(ctx, ValidationSuccess("a@x.com", at))

	events, err := ReadHistory(ctx, medium)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestReadHistoryEmpty(t *testing.T) {
	events, err := ReadHistory(context.Background(), mapMedium{})
	require.NoError(t, err)
	assert.Empty(t, events)
}
