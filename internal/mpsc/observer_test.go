package mpsc_test

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/go-mpsc/internal/mpsc"
)

type recordingObserver struct {
	mu           sync.Mutex
	opened       int
	closed       int
	sent         int
	refills      []int
	received     int
	drained      int
	disconnected int
}

func (o *recordingObserver) ProducerOpened() { o.mu.Lock(); o.opened++; o.mu.Unlock() }
func (o *recordingObserver) ProducerClosed() { o.mu.Lock(); o.closed++; o.mu.Unlock() }
func (o *recordingObserver) Sent()           { o.mu.Lock(); o.sent++; o.mu.Unlock() }
func (o *recordingObserver) Received()       { o.mu.Lock(); o.received++; o.mu.Unlock() }
func (o *recordingObserver) Drained()        { o.mu.Lock(); o.drained++; o.mu.Unlock() }
func (o *recordingObserver) Disconnected()   { o.mu.Lock(); o.disconnected++; o.mu.Unlock() }

func (o *recordingObserver) Refilled(n int) {
	o.mu.Lock()
	o.refills = append(o.refills, n)
	o.mu.Unlock()
}

func TestObserver_Lifecycle(t *testing.T) {
	forEachVariant(t, func(t *testing.T, v mpsc.Variant) {
		obs := &recordingObserver{}
		tx, rx := newChannel(t, v, mpsc.WithObserver(obs))
		defer rx.Close()

		clone := tx.Clone()
		for i := 0; i < 3; i++ {
			require.NoError(t, tx.Send(i))
		}
		clone.Close()
		tx.Close()

		for {
			if _, ok := rx.Recv(); !ok {
				break
			}
		}

		assert.Equal(t, 2, obs.opened)
		assert.Equal(t, 2, obs.closed)
		assert.Equal(t, 3, obs.sent)
		assert.Equal(t, []int{3}, obs.refills, "expected one batch refill")
		assert.Equal(t, 3, obs.received)
		assert.Equal(t, 1, obs.drained)
		assert.Zero(t, obs.disconnected)
	})
}

func TestObserver_Disconnected(t *testing.T) {
	obs := &recordingObserver{}
	tx, rx := mpsc.NewWeak[int](mpsc.WithObserver(obs))
	defer tx.Close()

	rx.Close()
	require.Error(t, tx.TrySend(1))

	assert.Equal(t, 1, obs.disconnected)
	assert.Zero(t, obs.sent)
}

func TestLogger_Transitions(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tx, rx := mpsc.NewWeak[int](mpsc.WithLogger(logger), mpsc.WithName("orders"))

	tx.Close()
	_, ok := rx.Recv()
	require.False(t, ok)
	rx.Close()

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
		assert.Equal(t, "orders", e.Data["channel"])
		assert.Equal(t, "weak", e.Data["variant"])
	}
	assert.Equal(t, []string{"last producer closed", "end of stream", "receiver closed"}, messages)
}

func TestLogger_DisconnectedSendWarns(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	tx, rx := mpsc.NewWeak[int](mpsc.WithLogger(logger))
	defer tx.Close()
	rx.Close()

	_ = tx.TrySend(1)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "send after receiver closed", entry.Message)
}
