package oscserver

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RiccardoCataldi/OscParametricEq/control"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/eq"
)

type update struct {
	address string
	value   float64
}

type recorder struct {
	mu      sync.Mutex
	updates []update
	reject  error
}

func (r *recorder) OnUpdate(address string, value float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reject != nil {
		return r.reject
	}
	r.updates = append(r.updates, update{address, value})
	return nil
}

func (r *recorder) Addresses() []string {
	return []string{"/freq1", "/mul"}
}

func (r *recorder) snapshot() []update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]update(nil), r.updates...)
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		args []interface{}
		want float64
		err  bool
	}{
		{"float32", []interface{}{float32(2.5)}, 2.5, false},
		{"float64", []interface{}{-3.25}, -3.25, false},
		{"int32", []interface{}{int32(440)}, 440, false},
		{"int64", []interface{}{int64(-7)}, -7, false},
		{"true", []interface{}{true}, 1, false},
		{"false", []interface{}{false}, 0, false},
		{"first argument wins", []interface{}{float32(1), float32(2)}, 1, false},
		{"string", []interface{}{"loud"}, 0, true},
		{"no arguments", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Value(osc.NewMessage("/x", tt.args...))
			if tt.err {
				require.ErrorIs(t, err, ErrNoValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Value(nil)
	require.ErrorIs(t, err, ErrNoValue)
}

func TestNewRejectsNilTarget(t *testing.T) {
	_, err := New("127.0.0.1:0", nil)
	require.Error(t, err)
}

func TestDispatchRoutesRegisteredAddresses(t *testing.T) {
	rec := &recorder{}
	s, err := New("127.0.0.1:0", rec)
	require.NoError(t, err)

	s.Dispatch(osc.NewMessage("/freq1", float32(120)))
	s.Dispatch(osc.NewMessage("/mul", int32(2)))
	s.Dispatch(osc.NewMessage("/unknown", float32(1)))
	s.Dispatch(osc.NewMessage("/mul", "text"))

	assert.Equal(t, []update{{"/freq1", 120}, {"/mul", 2}}, rec.snapshot())
	assert.Equal(t, uint64(3), s.Received())
	assert.Equal(t, uint64(1), s.Rejected())
	assert.Equal(t, uint64(1), s.Ignored())
}

// decode runs msg through the wire format, as the read loop would.
func decode(t *testing.T, p osc.Packet) osc.Packet {
	t.Helper()
	var (
		raw []byte
		err error
	)
	switch v := p.(type) {
	case *osc.Message:
		raw, err = v.MarshalBinary()
	case *osc.Bundle:
		raw, err = v.MarshalBinary()
	}
	require.NoError(t, err)
	packet, err := parsePacket(raw)
	require.NoError(t, err)
	return packet
}

func TestDispatchIgnoresPatternAddresses(t *testing.T) {
	rec := &recorder{}
	s, err := New("127.0.0.1:0", rec)
	require.NoError(t, err)

	for _, address := range []string{"/freq[", "/freq*", "/{mul,freq1}", "/fr?q1"} {
		assert.NotPanics(t, func() {
			s.Dispatch(decode(t, osc.NewMessage(address, float32(1))))
		}, address)
	}
	s.Dispatch(decode(t, osc.NewMessage("/freq1", float32(50))))

	assert.Equal(t, []update{{"/freq1", 50}}, rec.snapshot())
	assert.Equal(t, uint64(4), s.Ignored())
	assert.Equal(t, uint64(1), s.Received())
}

func TestDispatchBundleInOrder(t *testing.T) {
	rec := &recorder{}
	s, err := New("127.0.0.1:0", rec)
	require.NoError(t, err)

	inner := osc.NewBundle(time.Now().Add(time.Hour))
	require.NoError(t, inner.Append(osc.NewMessage("/freq1", float32(300))))

	b := osc.NewBundle(time.Now().Add(time.Hour))
	require.NoError(t, b.Append(osc.NewMessage("/freq1", float32(100))))
	require.NoError(t, b.Append(osc.NewMessage("/freq[", float32(1))))
	require.NoError(t, b.Append(osc.NewMessage("/freq1", float32(200))))
	require.NoError(t, b.Append(inner))

	assert.NotPanics(t, func() { s.Dispatch(decode(t, b)) })

	// Applied synchronously despite the future time tag.
	assert.Equal(t, []update{{"/freq1", 100}, {"/freq1", 200}, {"/freq1", 300}}, rec.snapshot())
	assert.Equal(t, uint64(1), s.Ignored())
}

func TestParsePacketRejectsGarbage(t *testing.T) {
	_, err := parsePacket([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)

	_, err = parsePacket([]byte("#bundle\x00"))
	require.Error(t, err)
}

func TestDispatchCountsTargetErrors(t *testing.T) {
	rec := &recorder{reject: errors.New("nope")}
	s, err := New("127.0.0.1:0", rec)
	require.NoError(t, err)

	s.Dispatch(osc.NewMessage("/freq1", float32(1)))
	assert.Equal(t, uint64(1), s.Rejected())
}

func TestServeOverUDP(t *testing.T) {
	chain, err := eq.NewChain()
	require.NoError(t, err)
	surface, err := control.New(chain)
	require.NoError(t, err)

	s, err := New("127.0.0.1:0", surface)
	require.NoError(t, err)

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, conn) }()

	client := osc.NewClient("127.0.0.1", port)
	require.NoError(t, client.Send(osc.NewMessage("/boost3", float32(4.5))))
	require.NoError(t, client.Send(osc.NewMessage("/mul", float32(0.25))))

	require.Eventually(t, func() bool {
		return chain.Band(2).Params().Boost == 4.5 && chain.Mul() == 0.25
	}, 2*time.Second, 5*time.Millisecond)

	// Malformed datagrams and pattern addresses are skipped.
	raw, err := net.Dial("udp", conn.LocalAddr().String())
	require.NoError(t, err)
	_, err = raw.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.NoError(t, raw.Close())
	require.NoError(t, client.Send(osc.NewMessage("/freq[", float32(1))))

	require.NoError(t, client.Send(osc.NewMessage("/freq5", int32(8000))))
	require.Eventually(t, func() bool {
		return chain.Band(4).Params().Freq == 8000
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), s.Ignored())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
